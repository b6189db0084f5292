package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

// keep the baseRepo implementation in sync with Repository interface
var _ Repository[models.Product] = (*baseRepo[models.Product])(nil)

// Entity is a document type stored by baseRepo.
type Entity interface {
	CollectionName() string
	// GetUpdates returns the $set document for a full-field update.
	GetUpdates() any
	GetObjectID() models.ObjectID
}

// Page is one window of a filtered read plus the size of the whole match.
type Page[E any] struct {
	Total int64
	Items []E
}

type Repository[E Entity] interface {
	Insert(ctx context.Context, entity E, opts ...*options.InsertOneOptions) (string, error)
	InsertMany(ctx context.Context, entities []E, opts ...*options.InsertManyOptions) ([]string, error)
	FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error)
	FindPage(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) (*Page[E], error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, entity E) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

type baseRepo[E Entity] struct {
	coll *mongo.Collection
}

// newBaseRepo binds the repo to name, or to the entity's default collection
// when name is empty.
func newBaseRepo[E Entity](dbc *mongo.Database, name string) baseRepo[E] {
	if name == "" {
		var entity E
		name = entity.CollectionName()
	}
	return baseRepo[E]{
		coll: dbc.Collection(name),
	}
}

func (r *baseRepo[E]) Insert(ctx context.Context, entity E, opts ...*options.InsertOneOptions) (string, error) {
	result, err := r.coll.InsertOne(ctx, entity, opts...)
	if err != nil {
		return "", fmt.Errorf("insert one: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("invalid inserted id: %T %+v", result.InsertedID, result.InsertedID)
	}

	return oid.Hex(), nil
}

func (r *baseRepo[E]) InsertMany(ctx context.Context, entities []E, opts ...*options.InsertManyOptions) ([]string, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	docs := make([]any, 0, len(entities))
	for _, e := range entities {
		docs = append(docs, e)
	}
	result, err := r.coll.InsertMany(ctx, docs, opts...)
	if err != nil {
		return nil, fmt.Errorf("insert many: %w", err)
	}
	ids := make([]string, len(result.InsertedIDs))
	for i, id := range result.InsertedIDs {
		oid, ok := id.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("invalid inserted id: %T %+v", id, id)
		}
		ids[i] = oid.Hex()
	}

	return ids, nil
}

func (r *baseRepo[E]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error) {
	var entity E
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &entity, nil
}

// UpdateByID replaces the entity's updatable fields and reports how many
// documents matched.
func (r *baseRepo[E]) UpdateByID(ctx context.Context, id primitive.ObjectID, entity E) (int64, error) {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": entity.GetUpdates(),
	})
	if err != nil {
		return 0, fmt.Errorf("update one: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *baseRepo[E]) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete one: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *baseRepo[E]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return result.DeletedCount, nil
}

// FindPage runs the windowed find and the unwindowed count concurrently.
func (r *baseRepo[E]) FindPage(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) (*Page[E], error) {
	group, ctx := errgroup.WithContext(ctx)
	entities := []E{}
	var total int64

	group.Go(func() error {
		opts = append(opts, options.Find().SetSkip(skip).SetLimit(limit))
		cursor, err := r.coll.Find(ctx, filter, opts...)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if err := cursor.All(ctx, &entities); err != nil {
			return fmt.Errorf("cursor all: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		total, err = r.coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Page[E]{Total: total, Items: entities}, nil
}
