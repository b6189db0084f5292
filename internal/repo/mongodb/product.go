package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/query"
	"github.com/nguyentranbao-ct/product-gateway/pkg/util"
)

// ProductRepository is the product document collection.
type ProductRepository interface {
	Find(ctx context.Context, spec query.Spec) (*models.ProductPage, error)
	FindOne(ctx context.Context, filter query.Predicate) (*models.Product, error)
	InsertOne(ctx context.Context, fields models.ProductFields) (string, error)
	UpdateOne(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) (int64, error)
	DeleteOne(ctx context.Context, id primitive.ObjectID) (int64, error)

	InsertMany(ctx context.Context, products []models.ProductFields) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type productRepo struct {
	baseRepo[models.Product]
	metrics *prometheus.HistogramVec
}

func NewProductRepository(db *DB, collection string) (ProductRepository, error) {
	metrics, err := util.GetHistogramVec("store_duration_seconds", "Time spent in product store calls.", "op", "status")
	if err != nil {
		return nil, fmt.Errorf("product store metrics: %w", err)
	}
	return &productRepo{
		baseRepo: newBaseRepo[models.Product](db.Database, collection),
		metrics:  metrics,
	}, nil
}

func (r *productRepo) observe(op string, start time.Time, err *error) {
	status := "ok"
	if *err != nil && !errors.Is(*err, models.ErrNotFound) {
		status = "error"
	}
	r.metrics.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

func (r *productRepo) Find(ctx context.Context, spec query.Spec) (page *models.ProductPage, err error) {
	defer r.observe("find", time.Now(), &err)

	opts := options.Find().SetSort(sortDocument(spec.Page))
	res, err := r.FindPage(ctx, filterDocument(spec.Filter), spec.Page.Limit, spec.Page.Skip, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	items := util.ConvertList(res.Items, func(p models.Product) *models.Product { return &p })
	return &models.ProductPage{Items: items, Total: res.Total}, nil
}

func (r *productRepo) FindOne(ctx context.Context, filter query.Predicate) (p *models.Product, err error) {
	defer r.observe("find_one", time.Now(), &err)

	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.baseRepo.FindOne(ctx, filterDocument(filter), opts)
}

func (r *productRepo) InsertOne(ctx context.Context, fields models.ProductFields) (id string, err error) {
	defer r.observe("insert_one", time.Now(), &err)

	return r.Insert(ctx, models.Product{Name: fields.Name, Price: fields.Price})
}

func (r *productRepo) UpdateOne(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) (matched int64, err error) {
	defer r.observe("update_one", time.Now(), &err)

	return r.UpdateByID(ctx, id, models.Product{Name: fields.Name, Price: fields.Price})
}

func (r *productRepo) DeleteOne(ctx context.Context, id primitive.ObjectID) (deleted int64, err error) {
	defer r.observe("delete_one", time.Now(), &err)

	return r.DeleteByID(ctx, id)
}

func (r *productRepo) InsertMany(ctx context.Context, products []models.ProductFields) ([]string, error) {
	docs := util.ConvertList(products, func(f models.ProductFields) models.Product {
		return models.Product{Name: f.Name, Price: f.Price}
	})
	return r.baseRepo.InsertMany(ctx, docs)
}

func (r *productRepo) DeleteAll(ctx context.Context) (int64, error) {
	return r.DeleteMany(ctx, bson.M{})
}

func (r *productRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("name_id"),
		},
		{
			Keys:    bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("price_id"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

// filterDocument translates a predicate into a Mongo filter.
func filterDocument(p query.Predicate) bson.M {
	filter := bson.M{}
	if p.NameContains != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(p.NameContains), Options: "i"}
	}
	price := bson.M{}
	if p.MinPrice != nil {
		price["$gte"] = *p.MinPrice
	}
	if p.MaxPrice != nil {
		price["$lte"] = *p.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

// sortDocument orders by the requested field, breaking ties by _id so
// paging is stable.
func sortDocument(page query.Page) bson.D {
	return bson.D{
		{Key: string(page.SortBy), Value: int(page.Direction)},
		{Key: "_id", Value: 1},
	}
}
