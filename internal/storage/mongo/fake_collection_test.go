package mongo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection keeps documents in memory and answers the filters the store
// sends. rivalWrites makes that many UpdateOne calls lose to another writer,
// who appends a click and bumps the version first.
type fakeCollection struct {
	mu sync.Mutex

	docs []linkDoc

	insertErr   error
	insertLimit int // documents stored before insertErr is returned
	deleteErr   error
	rivalWrites int

	deleted     []bson.M
	updateCalls int
}

func (f *fakeCollection) Find(_ context.Context, _ any, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	docs := make([]any, 0, len(f.docs))
	for _, d := range f.docs {
		docs = append(docs, d)
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (f *fakeCollection) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i := f.indexOf(filter.(bson.M)["shortcode"]); i >= 0 {
		return mongo.NewSingleResultFromDocument(f.docs[i], nil, nil)
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (f *fakeCollection) InsertMany(_ context.Context, documents []any, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, d := range documents {
		if f.insertErr != nil && i == f.insertLimit {
			return nil, f.insertErr
		}
		f.docs = append(f.docs, d.(linkDoc))
	}
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeCollection) DeleteMany(_ context.Context, filter any, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := filter.(bson.M)
	f.deleted = append(f.deleted, m)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}

	kept := f.docs[:0]
	var n int64
	for _, d := range f.docs {
		if d.BatchID == m["batchId"] {
			n++
			continue
		}
		kept = append(kept, d)
	}
	f.docs = kept
	return &mongo.DeleteResult{DeletedCount: n}, nil
}

func (f *fakeCollection) UpdateOne(_ context.Context, filter any, update any, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	m := filter.(bson.M)
	i := f.indexOf(m["shortcode"])
	if i < 0 {
		return &mongo.UpdateResult{}, nil
	}

	if f.rivalWrites > 0 {
		f.rivalWrites--
		f.docs[i].Clicks = append(f.docs[i].Clicks, clickDoc{Source: "rival"})
		f.docs[i].Version++
	}
	if f.docs[i].Version != m["version"].(int64) {
		return &mongo.UpdateResult{}, nil
	}

	push := update.(bson.M)["$push"].(bson.M)["clicks"].(bson.M)["$each"].([]clickDoc)
	f.docs[i].Clicks = append(f.docs[i].Clicks, push...)
	f.docs[i].Version++
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeCollection) indexOf(shortcode any) int {
	for i, d := range f.docs {
		if d.Shortcode == shortcode {
			return i
		}
	}
	return -1
}
