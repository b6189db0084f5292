// Package mongotest provides an in-memory product collection for tests.
package mongotest

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/query"
	"github.com/nguyentranbao-ct/product-gateway/internal/repo/mongodb"
)

var _ mongodb.ProductRepository = (*Products)(nil)

// Products keeps documents in insertion order and counts store calls. Set
// Fail to make every call return that error.
type Products struct {
	mu    sync.Mutex
	docs  []models.Product
	calls int
	Fail  error
}

func (r *Products) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *Products) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func (r *Products) call() error {
	r.calls++
	return r.Fail
}

func (r *Products) Find(_ context.Context, spec query.Spec) (*models.ProductPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return nil, err
	}

	matched := []models.Product{}
	for _, p := range r.docs {
		if spec.Filter.Match(p.Name, p.Price) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if spec.Page.Direction == query.Descending {
			a, b = b, a
		}
		if spec.Page.SortBy == query.SortByPrice {
			return a.Price < b.Price
		}
		return a.Name < b.Name
	})

	total := int64(len(matched))
	start := min(spec.Page.Skip, total)
	end := min(start+spec.Page.Limit, total)
	items := make([]*models.Product, 0, end-start)
	for i := start; i < end; i++ {
		p := matched[i]
		items = append(items, &p)
	}
	return &models.ProductPage{Items: items, Total: total}, nil
}

func (r *Products) FindOne(_ context.Context, filter query.Predicate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return nil, err
	}
	for _, p := range r.docs {
		if filter.Match(p.Name, p.Price) {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *Products) InsertOne(_ context.Context, fields models.ProductFields) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return "", err
	}
	return r.insert(fields), nil
}

func (r *Products) insert(fields models.ProductFields) string {
	id := models.NewObjectID(primitive.NewObjectID())
	r.docs = append(r.docs, models.Product{ID: id, Name: fields.Name, Price: fields.Price})
	return id.String()
}

func (r *Products) UpdateOne(_ context.Context, id primitive.ObjectID, fields models.ProductFields) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return 0, err
	}
	for i := range r.docs {
		if r.docs[i].ID == models.NewObjectID(id) {
			r.docs[i].Name = fields.Name
			r.docs[i].Price = fields.Price
			return 1, nil
		}
	}
	return 0, nil
}

func (r *Products) DeleteOne(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return 0, err
	}
	for i := range r.docs {
		if r.docs[i].ID == models.NewObjectID(id) {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *Products) InsertMany(_ context.Context, products []models.ProductFields) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, r.insert(p))
	}
	return ids, nil
}

func (r *Products) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(); err != nil {
		return 0, err
	}
	n := int64(len(r.docs))
	r.docs = nil
	return n, nil
}

func (r *Products) EnsureIndexes(context.Context) error {
	return nil
}
