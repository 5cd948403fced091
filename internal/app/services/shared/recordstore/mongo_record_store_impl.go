package recordstore

import (
	"context"
	"errors"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	fieldVersion   = "version"
	fieldUpdatedAt = "updatedAt"
)

type mongoRecordStore struct {
	Database *mongo.Database
	now      func() time.Time
}

func NewMongoRecordStore(db *mongo.Client, dbName string) contracts.RecordStore {
	return &mongoRecordStore{
		Database: db.Database(dbName),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *mongoRecordStore) Find(ctx context.Context, collection string, spec contracts.FindSpec, out interface{}) error {
	filter, err := BuildFilter(spec.Predicates)
	if err != nil {
		return exceptions.ErrMongoDBUnsupportedOperator(err, "find")
	}

	opts := options.Find().SetSort(BuildSort(spec.Sort))
	if spec.Skip > 0 {
		opts.SetSkip(spec.Skip)
	}
	if spec.Limit > 0 {
		opts.SetLimit(spec.Limit)
	}

	cursor, err := s.Database.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return exceptions.ErrMongoDBDecodeDocument(err)
	}
	return nil
}

func (s *mongoRecordStore) Count(ctx context.Context, collection string, predicates []contracts.Predicate) (int64, error) {
	filter, err := BuildFilter(predicates)
	if err != nil {
		return 0, exceptions.ErrMongoDBUnsupportedOperator(err, "count")
	}

	total, err := s.Database.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBCountDocument(err)
	}
	return total, nil
}

func (s *mongoRecordStore) FindOne(ctx context.Context, collection string, predicates []contracts.Predicate, out interface{}) (bool, error) {
	filter, err := BuildFilter(predicates)
	if err != nil {
		return false, exceptions.ErrMongoDBUnsupportedOperator(err, "findOne")
	}

	err = s.Database.Collection(collection).FindOne(ctx, filter).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, exceptions.ErrMongoDBFindDocument(err)
	}
	return true, nil
}

func (s *mongoRecordStore) Insert(ctx context.Context, collection string, document interface{}) error {
	_, err := s.Database.Collection(collection).InsertOne(ctx, document)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrConflict(err, collection)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (s *mongoRecordStore) Save(ctx context.Context, collection, id string, expectedVersion int64, set map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return exceptions.ErrInvalidIdentifier(err, collection)
	}

	filter := bson.M{fieldID: objectID, fieldVersion: expectedVersion}
	update := BuildUpdate(set, s.now())

	result, err := s.Database.Collection(collection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrConflict(err, collection)
		}
		return exceptions.ErrMongoDBUpdateDocument(err)
	}

	if result.MatchedCount == 0 {
		exists, err := s.Database.Collection(collection).CountDocuments(ctx, bson.M{fieldID: objectID})
		if err != nil {
			return exceptions.ErrMongoDBCountDocument(err)
		}
		if exists == 0 {
			return exceptions.ErrNotFound(nil, collection)
		}
		return exceptions.ErrStaleWrite(nil, collection, id, expectedVersion)
	}
	return nil
}

// BuildUpdate sets the given fields and updatedAt, and bumps the version.
// Callers cannot set the version themselves.
func BuildUpdate(set map[string]interface{}, now time.Time) bson.M {
	fields := bson.M{}
	for key, value := range set {
		if key == fieldVersion || key == fieldID {
			continue
		}
		fields[key] = value
	}
	fields[fieldUpdatedAt] = now

	return bson.M{
		"$set": fields,
		"$inc": bson.M{fieldVersion: 1},
	}
}
