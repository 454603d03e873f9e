package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknest/services/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bsonRecord is a raw Mongo document.
type bsonRecord bson.Raw

func (r bsonRecord) Decode(v any) error {
	return bson.Unmarshal(r, v)
}

// MongoCatalog serves hotels, places and rooms from MongoDB.
type MongoCatalog struct {
	db      *mongo.Database
	timeout time.Duration
}

var _ session.DataGateway = (*MongoCatalog)(nil)

// NewMongoCatalog returns a catalog reading db. Each read is bounded by timeout.
func NewMongoCatalog(db *mongo.Database, timeout time.Duration) *MongoCatalog {
	return &MongoCatalog{db: db, timeout: timeout}
}

func (m *MongoCatalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

func (t target) bsonFilter() bson.D {
	filter := bson.D{}
	for _, f := range t.filters {
		filter = append(filter, bson.E{Key: f[0], Value: f[1]})
	}
	return filter
}

func (m *MongoCatalog) find(ctx context.Context, t target) ([]session.Record, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	cursor, err := m.db.Collection(t.collection).Find(ctx, t.bsonFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.collection, err)
	}
	defer cursor.Close(ctx)

	records := []session.Record{}
	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		records = append(records, bsonRecord(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.collection, err)
	}
	return records, nil
}

func (m *MongoCatalog) GetCollection(ctx context.Context, path string) ([]session.Record, error) {
	t, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return m.find(ctx, t)
}

func (m *MongoCatalog) GetFiltered(ctx context.Context, path, field, equals string) ([]session.Record, error) {
	t, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return m.find(ctx, t.with(field, equals))
}

// GetDocument looks a document up by its "id" field.
func (m *MongoCatalog) GetDocument(ctx context.Context, path, id string) (session.Record, error) {
	t, err := resolve(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	raw, err := m.db.Collection(t.collection).FindOne(ctx, t.with("id", id).bsonFilter()).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", t.collection, id, err)
	}
	return bsonRecord(raw), nil
}

// EnsureIndexes creates the indexes the session queries rely on.
func (m *MongoCatalog) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		session.PathHotels: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "location", Value: 1}}},
		},
		session.PathPlaces: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		session.PathRooms: {
			{Keys: bson.D{{Key: "hotelId", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := m.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}
