package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"vaultcast/internal/repository"
)

var now = func() time.Time { return time.Now().UTC() }

// RecordsMongo is a MongoDB implementation of repository.DocumentRepository.
// Each record collection maps to a MongoDB collection of the same name.
type RecordsMongo struct {
	db *mongo.Database
}

// NewRecordsMongo creates a new RecordsMongo repository.
func NewRecordsMongo(db *mongo.Database) *RecordsMongo {
	return &RecordsMongo{db: db}
}

var _ repository.DocumentRepository = (*RecordsMongo)(nil)

// storedDocument is the persisted shape. Data keeps the record's JSON text
// verbatim: user maps may carry keys such as "$date" that BSON would reinterpret.
type storedDocument struct {
	ID        string    `bson:"_id"`
	Key       string    `bson:"key,omitempty"`
	Title     string    `bson:"title"`
	Data      string    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *RecordsMongo) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// EnsureIndexes creates the partial unique index on key for each collection.
func (r *RecordsMongo) EnsureIndexes(ctx context.Context, collections ...string) error {
	for _, name := range collections {
		model := mongo.IndexModel{
			Keys: bson.D{{Key: "key", Value: 1}},
			Options: options.Index().
				SetName("uniq_key").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "key", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		}
		if _, err := r.collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
		created := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}
		if _, err := r.collection(name).Indexes().CreateOne(ctx, created); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

func toDocument(collection string, s *storedDocument) *repository.Document {
	return &repository.Document{
		Collection: collection,
		ID:         s.ID,
		Key:        s.Key,
		Title:      s.Title,
		Data:       []byte(s.Data),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

// Create inserts a new document and returns the stored form.
func (r *RecordsMongo) Create(ctx context.Context, doc *repository.Document) (*repository.Document, error) {
	ts := now()
	stored := storedDocument{
		ID:        doc.ID,
		Key:       doc.Key,
		Title:     doc.Title,
		Data:      string(doc.Data),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.collection(doc.Collection).InsertOne(ctx, stored); err != nil {
		return nil, translate(err)
	}
	out := *doc
	out.CreatedAt = ts
	out.UpdatedAt = ts
	return &out, nil
}

func (r *RecordsMongo) findOne(ctx context.Context, collection string, filter bson.D) (*repository.Document, error) {
	var stored storedDocument
	if err := r.collection(collection).FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, translate(err)
	}
	return toDocument(collection, &stored), nil
}

// FindByID fetches a document by its ID.
func (r *RecordsMongo) FindByID(ctx context.Context, collection, id string) (*repository.Document, error) {
	return r.findOne(ctx, collection, bson.D{{Key: "_id", Value: id}})
}

// FindByKey fetches a document by its unique key.
func (r *RecordsMongo) FindByKey(ctx context.Context, collection, key string) (*repository.Document, error) {
	return r.findOne(ctx, collection, bson.D{{Key: "key", Value: key}})
}

// searchFilter matches key or title case-insensitively.
func searchFilter(search string) bson.D {
	s := strings.TrimSpace(search)
	if s == "" {
		return bson.D{}
	}
	re := bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "key", Value: re}},
		bson.D{{Key: "title", Value: re}},
	}}}
}

// List returns documents newest first with skip/limit pagination and a total count.
func (r *RecordsMongo) List(ctx context.Context, collection string, pq repository.PageQuery) (*repository.PageResult[repository.Document], error) {
	coll := r.collection(collection)
	filter := searchFilter(pq.Search)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if pq.Limit > 0 {
		opts.SetLimit(int64(pq.Limit))
	}
	if pq.Offset > 0 {
		opts.SetSkip(int64(pq.Offset))
	}
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var loaded []storedDocument
	if err := cur.All(ctx, &loaded); err != nil {
		return nil, err
	}

	items := make([]repository.Document, 0, len(loaded))
	for i := range loaded {
		items = append(items, *toDocument(collection, &loaded[i]))
	}
	return &repository.PageResult[repository.Document]{Items: items, Total: int(total)}, nil
}

// Update replaces key, title and data of an existing document.
func (r *RecordsMongo) Update(ctx context.Context, doc *repository.Document) (*repository.Document, error) {
	set := bson.D{
		{Key: "title", Value: doc.Title},
		{Key: "data", Value: string(doc.Data)},
		{Key: "updated_at", Value: now()},
	}
	update := bson.D{}
	if doc.Key != "" {
		set = append(set, bson.E{Key: "key", Value: doc.Key})
		update = append(update, bson.E{Key: "$set", Value: set})
	} else {
		update = append(update,
			bson.E{Key: "$set", Value: set},
			bson.E{Key: "$unset", Value: bson.D{{Key: "key", Value: ""}}},
		)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var stored storedDocument
	err := r.collection(doc.Collection).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: doc.ID}}, update, opts).
		Decode(&stored)
	if err != nil {
		return nil, translate(err)
	}
	return toDocument(doc.Collection, &stored), nil
}

// Delete removes a document by ID.
func (r *RecordsMongo) Delete(ctx context.Context, collection, id string) error {
	res, err := r.collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
