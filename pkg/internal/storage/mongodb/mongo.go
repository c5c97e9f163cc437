// Package mongodb implements the asset metadata store on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	nlog "github.com/ridgeline/mediavault/pkg/log"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("asset record not found")

// AssetStore handles MongoDB operations for asset metadata.
type AssetStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// New connects to MongoDB and prepares the assets collection. A unique sparse
// index on remote_id guards against double-registering the same hosted asset;
// url is indexed for the scanner's locator lookups.
func New(ctx context.Context, cfg configs.MongoConfig) (*AssetStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.GetConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "remote_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "url", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}, {Key: "section", Value: 1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	nlog.Logger().Info().Str("database", cfg.Database).Str("collection", cfg.Collection).Msg("mongodb connected")

	return &AssetStore{client: client, collection: collection}, nil
}

// Insert stores a new record and returns its assigned id.
func (s *AssetStore) Insert(ctx context.Context, rec *model.AssetRecord) (string, error) {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	res, err := s.collection.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("insert asset: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	rec.ID = oid

	return oid.Hex(), nil
}

// FindByID fetches one record by id.
func (s *AssetStore) FindByID(ctx context.Context, id string) (*model.AssetRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}

	var rec model.AssetRecord
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("find asset %s: %w", id, err)
	}

	return &rec, nil
}

// List returns one page of records plus the unpaged total.
func (s *AssetStore) List(ctx context.Context, q types.ListQuery) ([]model.AssetRecord, int64, error) {
	filter := listFilter(q)

	page := q.Page
	if page < 1 {
		page = 1
	}

	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(listSort(q.Sort))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer cursor.Close(ctx)

	var items []model.AssetRecord
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode assets: %w", err)
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	return items, total, nil
}

// UpdateByID applies the non-nil fields of patch and returns the updated
// record.
func (s *AssetStore) UpdateByID(ctx context.Context, id string, patch model.AssetPatch) (*model.AssetRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}

	set := bson.M{"updated_at": time.Now().UTC()}

	if patch.Type != nil {
		set["type"] = *patch.Type
	}

	if patch.Section != nil {
		set["section"] = *patch.Section
	}

	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}

	if patch.Alt != nil {
		set["alt"] = *patch.Alt
	}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}

	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	if patch.Order != nil {
		set["order"] = *patch.Order
	}

	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	var rec model.AssetRecord

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("update asset %s: %w", id, err)
	}

	return &rec, nil
}

// DeleteByID removes one record.
func (s *AssetStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", id, err)
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete asset %s: %w", id, err)
	}

	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// DistinctLocators returns every known storage locator (url values plus
// remote ids) as a set. The scanner uses this one bulk fetch instead of one
// query per file.
func (s *AssetStore) DistinctLocators(ctx context.Context) (map[string]struct{}, error) {
	set := make(map[string]struct{})

	for _, field := range []string{"url", "remote_id"} {
		values, err := s.collection.Distinct(ctx, field, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", field, err)
		}

		for _, v := range values {
			if str, ok := v.(string); ok && str != "" {
				set[str] = struct{}{}
			}
		}
	}

	return set, nil
}

// HealthCheck pings the server.
func (s *AssetStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *AssetStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// listFilter builds the bson filter for a list query.
func listFilter(q types.ListQuery) bson.M {
	filter := bson.M{}

	if q.Type != "" {
		filter["type"] = q.Type
	}

	if q.Section != "" {
		filter["section"] = q.Section
	}

	if q.IsActive != "" {
		filter["is_active"] = q.IsActive == "true"
	}

	if q.Tags != "" {
		if tags := splitCSV(q.Tags); len(tags) > 0 {
			filter["tags"] = bson.M{"$in": tags}
		}
	}

	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"alt": pattern},
			bson.M{"description": pattern},
			bson.M{"url": pattern},
		}
	}

	return filter
}

// splitCSV splits a comma-separated list, dropping empty entries.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// listSort maps the sort parameter to a bson sort document. The default is
// manual ordering, newest first within equal order values.
func listSort(sort string) bson.D {
	switch sort {
	case "newest":
		return bson.D{{Key: "created_at", Value: -1}}
	case "oldest":
		return bson.D{{Key: "created_at", Value: 1}}
	case "order":
		return bson.D{{Key: "order", Value: 1}}
	default:
		return bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}
	}
}
