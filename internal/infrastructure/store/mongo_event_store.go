package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/bazaarlink/internal/infrastructure/kafka"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEventStore stores events in MongoDB. A unique compound index on
// (aggregate_id, version) makes the conditional append atomic: the losing
// writer of a race gets a duplicate-key error, reported as ErrVersionConflict.
type MongoEventStore struct {
	events    *mongo.Collection
	snapshots *mongo.Collection
	producer  *kafka.Producer
}

// mongoEvent is the document shape for stored events
type mongoEvent struct {
	ID            string    `bson:"id"`
	AggregateID   string    `bson:"aggregate_id"`
	AggregateType string    `bson:"aggregate_type"`
	EventType     string    `bson:"event_type"`
	Data          string    `bson:"data"`
	Version       int       `bson:"version"`
	CreatedAt     time.Time `bson:"created_at"`
}

type mongoSnapshot struct {
	AggregateID   string    `bson:"_id"`
	AggregateType string    `bson:"aggregate_type"`
	Version       int       `bson:"version"`
	State         string    `bson:"state"`
	CreatedAt     time.Time `bson:"created_at"`
}

func NewMongoEventStore(db *mongo.Database, producer *kafka.Producer) (*MongoEventStore, error) {
	events := db.Collection("events")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The version check relies on this index
	_, err := events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "aggregate_id", Value: 1}, {Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoEventStore{
		events:    events,
		snapshots: db.Collection("snapshots"),
		producer:  producer,
	}, nil
}

// Append stores an event at the aggregate's next version
func (es *MongoEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	version, err := es.nextVersion(ctx, aggregateID)
	if err != nil {
		return nil, err
	}
	return es.insert(ctx, aggregateID, aggregateType, eventType, data, version)
}

// AppendExpecting stores an event only if the aggregate is still at expectedVersion
func (es *MongoEventStore) AppendExpecting(ctx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*Event, error) {
	return es.insert(ctx, aggregateID, aggregateType, eventType, data, expectedVersion+1)
}

func (es *MongoEventStore) nextVersion(ctx context.Context, aggregateID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	var last mongoEvent
	err := es.events.FindOne(ctx, bson.M{"aggregate_id": aggregateID}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Version + 1, nil
}

func (es *MongoEventStore) insert(ctx context.Context, aggregateID, aggregateType, eventType string, data any, version int) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}

	_, err = es.events.InsertOne(ctx, mongoEvent{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Data:          string(event.Data),
		Version:       event.Version,
		CreatedAt:     event.Timestamp,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}

	// Publish to Kafka
	if es.producer != nil {
		if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate in version order
func (es *MongoEventStore) GetEvents(aggregateID string) []Event {
	return es.find(bson.M{"aggregate_id": aggregateID}, bson.D{{Key: "version", Value: 1}})
}

// GetAllEvents returns all events in chronological order
func (es *MongoEventStore) GetAllEvents() []Event {
	return es.find(bson.M{}, bson.D{{Key: "created_at", Value: 1}})
}

// GetEventsFromVersion returns events for an aggregate after a specific version
func (es *MongoEventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event {
	return es.find(
		bson.M{"aggregate_id": aggregateID, "version": bson.M{"$gt": fromVersion}},
		bson.D{{Key: "version", Value: 1}},
	)
}

func (es *MongoEventStore) find(filter bson.M, sort bson.D) []Event {
	ctx := context.Background()
	cursor, err := es.events.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil
	}
	defer cursor.Close(ctx)

	var events []Event
	for cursor.Next(ctx) {
		var me mongoEvent
		if err := cursor.Decode(&me); err != nil {
			continue
		}
		events = append(events, Event{
			ID:            me.ID,
			AggregateID:   me.AggregateID,
			AggregateType: me.AggregateType,
			EventType:     me.EventType,
			Data:          json.RawMessage(me.Data),
			Timestamp:     me.CreatedAt,
			Version:       me.Version,
		})
	}
	return events
}

// GetSnapshot retrieves the latest snapshot for an aggregate
func (es *MongoEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	var ms mongoSnapshot
	err := es.snapshots.FindOne(ctx, bson.M{"_id": aggregateID}).Decode(&ms)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		AggregateID:   ms.AggregateID,
		AggregateType: ms.AggregateType,
		Version:       ms.Version,
		State:         json.RawMessage(ms.State),
		CreatedAt:     ms.CreatedAt,
	}, nil
}

// SaveSnapshot stores a snapshot, replacing any previous one
func (es *MongoEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	_, err := es.snapshots.ReplaceOne(ctx,
		bson.M{"_id": snapshot.AggregateID},
		mongoSnapshot{
			AggregateID:   snapshot.AggregateID,
			AggregateType: snapshot.AggregateType,
			Version:       snapshot.Version,
			State:         string(snapshot.State),
			CreatedAt:     snapshot.CreatedAt,
		},
		options.Replace().SetUpsert(true),
	)
	return err
}

// ConnectMongo establishes a connection to MongoDB
func ConnectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
