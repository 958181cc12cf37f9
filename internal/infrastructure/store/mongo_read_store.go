package store

import (
	"context"
	"fmt"
	"time"

	"github.com/example/bazaarlink/internal/readmodel"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoOpTimeout = 5 * time.Second

// MongoReadStore keeps read models as documents, one collection per model
// kind. Documents are decoded back into the typed read models so callers can
// keep using plain type assertions, same as with the in-memory store.
type MongoReadStore struct {
	db *mongo.Database
}

func NewMongoReadStore(db *mongo.Database) *MongoReadStore {
	return &MongoReadStore{db: db}
}

// Set stores a read model, replacing any previous document
func (rs *MongoReadStore) Set(collection, id string, data any) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	_, err := rs.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id},
		data,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Get retrieves a read model by id
func (rs *MongoReadStore) Get(collection, id string) (any, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	result := rs.db.Collection(collection).FindOne(ctx, bson.M{"_id": id})
	model, err := decodeReadModel(collection, result.Decode)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return model, true, nil
}

// GetAll retrieves all items in a collection, oldest first
func (rs *MongoReadStore) GetAll(collection string) ([]any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := rs.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []any
	for cursor.Next(ctx) {
		model, err := decodeReadModel(collection, cursor.Decode)
		if err != nil {
			continue
		}
		items = append(items, model)
	}
	return items, cursor.Err()
}

// Delete removes a read model
func (rs *MongoReadStore) Delete(collection, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	_, err := rs.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Update modifies a read model using an update function
func (rs *MongoReadStore) Update(collection, id string, updateFn func(current any) any) (bool, error) {
	current, ok, err := rs.Get(collection, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return true, rs.Set(collection, id, updateFn(current))
}

// GetUserByPhone looks up a user by phone number
func (rs *MongoReadStore) GetUserByPhone(phone string) (*readmodel.UserReadModel, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	var user readmodel.UserReadModel
	err := rs.db.Collection(CollectionUsers).FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

// decodeReadModel decodes a document into the typed model for its collection
func decodeReadModel(collection string, decode func(any) error) (any, error) {
	switch collection {
	case CollectionProducts:
		var m readmodel.ProductReadModel
		if err := decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case CollectionOrders:
		var m readmodel.OrderReadModel
		if err := decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case CollectionUsers:
		var m readmodel.UserReadModel
		if err := decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case CollectionReviews:
		var m readmodel.ReviewReadModel
		if err := decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("unknown read model collection %q", collection)
	}
}
