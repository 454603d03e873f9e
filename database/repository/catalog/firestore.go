package catalogRepo

import (
	"context"
	"fmt"

	"booknest/services/session"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreRecord wraps a Firestore document snapshot.
type firestoreRecord struct {
	snap *firestore.DocumentSnapshot
}

func (r firestoreRecord) Decode(v any) error {
	return r.snap.DataTo(v)
}

// FirestoreCatalog serves the catalog from Cloud Firestore, using the same
// collection layout as MongoCatalog.
type FirestoreCatalog struct {
	client *firestore.Client
}

var _ session.DataGateway = (*FirestoreCatalog)(nil)

func NewFirestoreCatalog(client *firestore.Client) *FirestoreCatalog {
	return &FirestoreCatalog{client: client}
}

func (f *FirestoreCatalog) query(t target) firestore.Query {
	q := f.client.Collection(t.collection).Query
	for _, flt := range t.filters {
		q = q.Where(flt[0], "==", flt[1])
	}
	return q
}

func (f *FirestoreCatalog) getAll(ctx context.Context, t target) ([]session.Record, error) {
	snaps, err := f.query(t).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.collection, err)
	}
	records := make([]session.Record, 0, len(snaps))
	for _, snap := range snaps {
		records = append(records, firestoreRecord{snap: snap})
	}
	return records, nil
}

func (f *FirestoreCatalog) GetCollection(ctx context.Context, path string) ([]session.Record, error) {
	t, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return f.getAll(ctx, t)
}

func (f *FirestoreCatalog) GetFiltered(ctx context.Context, path, field, equals string) ([]session.Record, error) {
	t, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return f.getAll(ctx, t.with(field, equals))
}

// GetDocument reads the document whose Firestore id is id. Nested paths are
// matched on the "id" field instead, as their documents are keyed by parent.
func (f *FirestoreCatalog) GetDocument(ctx context.Context, path, id string) (session.Record, error) {
	t, err := resolve(path)
	if err != nil {
		return nil, err
	}
	if len(t.filters) > 0 {
		records, err := f.getAll(ctx, t.with("id", id))
		if err != nil || len(records) == 0 {
			return nil, err
		}
		return records[0], nil
	}

	snap, err := f.client.Collection(t.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", t.collection, id, err)
	}
	return firestoreRecord{snap: snap}, nil
}
