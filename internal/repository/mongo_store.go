package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore отображает каждую коллекцию хранилища на одноименную коллекцию MongoDB,
// ключ записи лежит в _id.
type mongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	logger  zerolog.Logger
}

func NewMongoStore(client *mongo.Client, database string, logger zerolog.Logger) DocumentStore {
	return &mongoStore{
		client:  client,
		db:      client.Database(database),
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

func (s *mongoStore) Fetch(ctx context.Context, collection models.Collection) (map[string]json.RawMessage, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.db.Collection(collection.String()).Find(queryCtx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}
	defer cursor.Close(queryCtx)

	result := make(map[string]json.RawMessage)
	for cursor.Next(queryCtx) {
		id, data, err := fromBSON(cursor.Current)
		if err != nil {
			s.logger.Warn().Err(err).Str("collection", collection.String()).Msg("Skipping undecodable document")
			continue
		}
		result[id] = data
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}

	return result, nil
}

func (s *mongoStore) Get(ctx context.Context, collection models.Collection, id string) (json.RawMessage, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.db.Collection(collection.String()).FindOne(queryCtx, bson.M{"_id": id}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	_, data, err := fromBSON(raw)
	return data, err
}

func (s *mongoStore) Push(ctx context.Context, collection models.Collection, doc interface{}) (string, error) {
	id := newID()
	data, err := withID(doc, id)
	if err != nil {
		return "", err
	}

	if err := s.replace(ctx, collection, id, data); err != nil {
		return "", fmt.Errorf("failed to push into %s: %w", collection, err)
	}
	return id, nil
}

func (s *mongoStore) Set(ctx context.Context, collection models.Collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := s.replace(ctx, collection, id, data); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *mongoStore) replace(ctx context.Context, collection models.Collection, id string, data []byte) error {
	var doc bson.M
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}
	doc["_id"] = id

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.Collection(collection.String()).ReplaceOne(queryCtx, bson.M{"_id": id}, doc,
		options.Replace().SetUpsert(true))
	return err
}

func (s *mongoStore) Update(ctx context.Context, collection models.Collection, id string, patch map[string]interface{}) error {
	set := make(map[string]interface{}, len(patch))
	unset := bson.M{}
	for key, value := range patch {
		if value == nil {
			unset[key] = ""
			continue
		}
		set[key] = value
	}

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}
	var setDoc bson.M
	if err := bson.UnmarshalExtJSON(data, false, &setDoc); err != nil {
		return fmt.Errorf("failed to convert patch: %w", err)
	}

	update := bson.M{}
	if len(setDoc) > 0 {
		update["$set"] = setDoc
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		return nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.db.Collection(collection.String()).UpdateOne(queryCtx, bson.M{"_id": id}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *mongoStore) Remove(ctx context.Context, collection models.Collection, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.Collection(collection.String()).DeleteOne(queryCtx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.Ping(ctx, nil)
}

func (s *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

// fromBSON переводит документ Mongo в JSON записи без служебного _id.
func fromBSON(raw bson.Raw) (string, json.RawMessage, error) {
	idValue, err := raw.LookupErr("_id")
	if err != nil {
		return "", nil, fmt.Errorf("document without _id: %w", err)
	}
	id, ok := idValue.StringValueOK()
	if !ok {
		id = idValue.String()
	}

	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}

	ext, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", nil, fmt.Errorf("failed to convert document %s: %w", id, err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(ext, &fields); err != nil {
		return "", nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	delete(fields, "_id")

	data, err := json.Marshal(fields)
	if err != nil {
		return "", nil, err
	}
	return id, data, nil
}
