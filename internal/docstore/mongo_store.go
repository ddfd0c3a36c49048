package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore - Store поверх MongoDB, одна коллекция Mongo на коллекцию хранилища, _id = ключ
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore создает хранилище поверх базы Mongo
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// ConnectMongo открывает клиент и проверяет соединение
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("docstore: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("docstore: ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}

	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, byID(id)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	delete(raw, "_id")

	doc, _ := normalizeBSON(raw).(Document)
	return doc, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	replacement := make(bson.M, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		replacement[k] = v
	}

	_, err := s.db.Collection(collection).ReplaceOne(ctx, byID(id), replacement, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	coll := s.db.Collection(collection)

	// $set с пустым документом Mongo отклоняет - только проверяем существование
	if len(fields) == 0 {
		n, err := coll.CountDocuments(ctx, byID(id))
		if err != nil {
			return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	set := make(bson.M, len(fields))
	for k, v := range fields {
		set[k] = v
	}
	res, err := coll.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// normalizeBSON переводит bson.M/bson.D/bson.A в map[string]any и []any,
// чтобы вызывающий видел те же типы, что и у остальных реализаций
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalizeBSON(val))
		}
		return out
	default:
		return v
	}
}
