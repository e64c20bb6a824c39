package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/db"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	linksCollectionName = "links"

	defaultMaxUpdateRetries = 5
)

// LinksStore implements links.Store on a MongoDB collection. Per-link updates
// use a version field as an optimistic lock.
//
// A batch is written without a transaction. Until AppendAll returns, readers
// may see part of it, and a click recorded on one of those documents is lost
// if the batch is then rolled back. Both need a replica set session to close.
type LinksStore struct {
	coll       linksCollection
	maxRetries int
}

// linksCollection is the part of *mongo.Collection the store uses.
type linksCollection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type linkDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Shortcode       string             `bson:"shortcode"`
	LongURL         string             `bson:"longUrl"`
	ValidityMinutes int                `bson:"validityMinutes"`
	CreatedAt       time.Time          `bson:"createdAt"`
	ExpiresAt       time.Time          `bson:"expiresAt"`
	Clicks          []clickDoc         `bson:"clicks"`
	BatchID         string             `bson:"batchId"`
	Version         int64              `bson:"version"`
}

type clickDoc struct {
	Timestamp time.Time `bson:"timestamp"`
	Source    string    `bson:"source"`
	Location  string    `bson:"location"`
}

// NewLinksStore ensures the collection indexes before returning.
func NewLinksStore(ctx context.Context, m *db.Mongo) (*LinksStore, error) {
	coll := m.Collection(linksCollectionName)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shortcode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shortcode"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("createdAt_asc"),
		},
		{
			Keys:    bson.D{{Key: "batchId", Value: 1}},
			Options: options.Index().SetName("batchId"),
		},
	})
	if err != nil {
		return nil, err
	}

	return newLinksStore(coll, defaultMaxUpdateRetries), nil
}

func newLinksStore(coll linksCollection, maxRetries int) *LinksStore {
	return &LinksStore{coll: coll, maxRetries: maxRetries}
}

func (s *LinksStore) ListAll(ctx context.Context) ([]links.LinkRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []links.LinkRecord{}
	for cursor.Next(ctx) {
		var doc linkDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, doc.record())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// AppendAll inserts the batch tagged with one batch id. If the insert fails
// part way, the documents already written for that batch are deleted.
func (s *LinksStore) AppendAll(ctx context.Context, records []links.LinkRecord) error {
	if len(records) == 0 {
		return nil
	}

	batchID := uuid.NewString()
	docs := make([]any, 0, len(records))
	for _, rec := range records {
		docs = append(docs, newLinkDoc(rec, batchID))
	}

	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}

	if _, delErr := s.coll.DeleteMany(context.WithoutCancel(ctx), bson.M{"batchId": batchID}); delErr != nil {
		logger.Error("failed to roll back partial link batch",
			zap.Error(delErr),
			zap.String("batch_id", batchID),
		)
	}

	if mongo.IsDuplicateKeyError(err) {
		return links.ErrShortcodeCollision
	}
	return err
}

// Update reads the document, applies mutate to a copy and pushes the appended
// clicks only if the version is unchanged. A lost race is retried.
func (s *LinksStore) Update(ctx context.Context, shortcode string, mutate links.Mutator) error {
	for range s.maxRetries {
		var doc linkDoc
		err := s.coll.FindOne(ctx, bson.M{"shortcode": shortcode}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return links.ErrNotFound
		}
		if err != nil {
			return err
		}

		current := doc.record()
		next := current.Clone()
		if err := mutate(&next); err != nil {
			return err
		}

		added, err := links.AppendedClicks(current, next)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			return nil
		}

		res, err := s.coll.UpdateOne(ctx,
			bson.M{"shortcode": shortcode, "version": doc.Version},
			bson.M{
				"$push": bson.M{"clicks": bson.M{"$each": clickDocs(added)}},
				"$inc":  bson.M{"version": 1},
			},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}

		logger.Debug("link version changed, retrying update", zap.String("shortcode", shortcode))
	}

	return links.ErrConcurrentUpdate
}

func newLinkDoc(rec links.LinkRecord, batchID string) linkDoc {
	return linkDoc{
		Shortcode:       rec.Shortcode,
		LongURL:         rec.LongURL,
		ValidityMinutes: rec.ValidityMinutes,
		CreatedAt:       rec.CreatedAt.UTC(),
		ExpiresAt:       rec.ExpiresAt.UTC(),
		Clicks:          clickDocs(rec.Clicks),
		BatchID:         batchID,
	}
}

func (d linkDoc) record() links.LinkRecord {
	clicks := make([]links.ClickEvent, 0, len(d.Clicks))
	for _, c := range d.Clicks {
		clicks = append(clicks, links.ClickEvent{
			Timestamp: c.Timestamp.UTC(),
			Source:    c.Source,
			Location:  c.Location,
		})
	}

	return links.LinkRecord{
		Shortcode:       d.Shortcode,
		LongURL:         d.LongURL,
		ValidityMinutes: d.ValidityMinutes,
		CreatedAt:       d.CreatedAt.UTC(),
		ExpiresAt:       d.ExpiresAt.UTC(),
		Clicks:          clicks,
	}
}

func clickDocs(clicks []links.ClickEvent) []clickDoc {
	out := make([]clickDoc, 0, len(clicks))
	for _, c := range clicks {
		out = append(out, clickDoc{
			Timestamp: c.Timestamp.UTC(),
			Source:    c.Source,
			Location:  c.Location,
		})
	}
	return out
}

var _ links.Store = (*LinksStore)(nil)

var _ linksCollection = (*mongo.Collection)(nil)
