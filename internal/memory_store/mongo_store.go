/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package memory_store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wso2/plant-data-service/internal/system/config"
	"github.com/wso2/plant-data-service/internal/system/log"
)

const (
	defaultCollection = "plant_memories"
	opTimeout         = 5 * time.Second
)

// MongoStore keeps memory records in one MongoDB collection with a text index on content.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection

	indexMu sync.Mutex
	indexed bool
}

var _ MemoryStore = (*MongoStore)(nil)

type mongoRecord struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	OwnerTag  string             `bson:"owner_tag"`
	Metadata  map[string]any     `bson:"metadata"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	Score     float64            `bson:"score,omitempty"`
}

func (r mongoRecord) toRecord() Record {
	return Record{
		ID:        r.ID.Hex(),
		Content:   r.Content,
		OwnerTag:  r.OwnerTag,
		Metadata:  normalize(r.Metadata),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Score:     r.Score,
	}
}

// Connect opens a client for cfg. The driver dials lazily, so an unreachable server is only
// logged: contributions are then stored without memory records and reconciled later. Indexes
// are created on connect when possible and otherwise on first use.
func Connect(ctx context.Context, cfg config.MemoryStoreConfig) (*MongoStore, error) {

	if cfg.URI == "" {
		return nil, errors.New("memory store uri is not configured")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure the memory store client")
	}

	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}
	store := NewMongoStore(client, client.Database(cfg.Database).Collection(collection))
	logger := log.GetLogger().With(log.String("database", cfg.Database), log.String("collection", collection))
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		logger.Warn("Memory store unreachable, starting without it", log.Error(err))
		return store, nil
	}
	if err := store.ensureIndexes(connectCtx); err != nil {
		logger.Warn("Memory store indexes not created yet", log.Error(err))
		return store, nil
	}
	logger.Info("Connected to memory store")
	return store, nil
}

func NewMongoStore(client *mongo.Client, collection *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, collection: collection}
}

// ensureIndexes runs EnsureIndexes until it succeeds once.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {

	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if s.indexed {
		return nil
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		return err
	}
	s.indexed = true
	return nil
}

// EnsureIndexes creates the content text index and the owner index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {

	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "content", Value: "text"}},
			Options: options.Index().SetName("content_text"),
		},
		{
			Keys:    bson.D{{Key: "owner_tag", Value: 1}},
			Options: options.Index().SetName("owner_tag"),
		},
	})
	return errors.Wrap(err, "failed to create memory store indexes")
}

func (s *MongoStore) Create(ctx context.Context, content, ownerTag string, metadata map[string]any) (string, error) {

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if metadata == nil {
		metadata = map[string]any{}
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	doc := mongoRecord{
		ID:        primitive.NewObjectID(),
		Content:   content,
		OwnerTag:  ownerTag,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return "", errors.Wrap(err, "failed to create memory record")
	}
	return doc.ID.Hex(), nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc mongoRecord
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read memory record %s", id)
	}
	record := doc.toRecord()
	return &record, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, partial Partial) error {

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if partial.Content != nil {
		set["content"] = *partial.Content
	}
	for key, value := range partial.SetMetadata {
		set["metadata."+key] = value
	}
	update := bson.M{"$set": set}
	if len(partial.AppendMetadata) > 0 {
		push := bson.M{}
		for key, value := range partial.AppendMetadata {
			push["metadata."+key] = value
		}
		update["$push"] = push
	}

	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return errors.Wrapf(err, "failed to update memory record %s", id)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrapf(err, "failed to delete memory record %s", id)
	}
	return nil
}

func (s *MongoStore) Search(ctx context.Context, query, ownerTag string, limit int) ([]Record, error) {

	if limit <= 0 {
		return []Record{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	filter := bson.M{"$text": bson.M{"$search": query}}
	if ownerTag != "" {
		filter["owner_tag"] = ownerTag
	}
	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search memory records")
	}
	defer cursor.Close(ctx)

	var docs []mongoRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode memory search results")
	}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.toRecord())
	}
	return records, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect memory store: %w", err)
	}
	return nil
}

// normalize converts the bson container types the driver decodes into plain maps and slices.
func normalize(m map[string]any) map[string]any {

	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {

	switch t := v.(type) {
	case primitive.M:
		return normalize(t)
	case map[string]any:
		return normalize(t)
	case primitive.D:
		return normalize(t.Map())
	case primitive.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
