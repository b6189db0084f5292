package usecase

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/query"
	"github.com/nguyentranbao-ct/product-gateway/internal/repo/mongodb"
	log "github.com/nguyentranbao-ct/product-gateway/pkg/logger/logctx"
)

//go:embed default_products.yaml
var defaultProductsData []byte

type DefaultProduct struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

func DefaultProducts() ([]DefaultProduct, error) {
	var products []DefaultProduct
	if err := yaml.Unmarshal(defaultProductsData, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default products: %w", err)
	}
	return products, nil
}

// SeedProducts inserts the default catalogue into an empty collection. With
// reset it first removes every existing product. It returns the number of
// inserted documents.
func SeedProducts(ctx context.Context, repo mongodb.ProductRepository, reset bool) (int, error) {
	products, err := DefaultProducts()
	if err != nil {
		return 0, err
	}

	if reset {
		removed, err := repo.DeleteAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to clear products: %w", err)
		}
		log.Infow(ctx, "Cleared products", "count", removed)
	} else {
		_, err := repo.FindOne(ctx, query.Predicate{})
		switch {
		case err == nil:
			log.Debugw(ctx, "Products already present, skipping seed")
			return 0, nil
		case !errors.Is(err, models.ErrNotFound):
			return 0, fmt.Errorf("failed to check existing products: %w", err)
		}
	}

	fields := make([]models.ProductFields, 0, len(products))
	for _, p := range products {
		fields = append(fields, models.ProductFields{Name: p.Name, Price: p.Price})
	}
	ids, err := repo.InsertMany(ctx, fields)
	if err != nil {
		return 0, fmt.Errorf("failed to insert default products: %w", err)
	}

	log.Infow(ctx, "Seeded products", "count", len(ids))
	return len(ids), nil
}
