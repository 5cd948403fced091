package recordstore

import (
	"context"
	"fmt"
	"medblock-service/internal/pkg/constvars"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes lists the indexes each collection needs. Unique indexes back the
// Conflict errors returned on insert; the rest serve the default scoping
// filters and sort.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		constvars.CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_email").SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "verification.status", Value: 1}}, Options: options.Index().SetName("role_verification")},
			{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("live_newest")},
		},
		constvars.CollectionPatients: {
			{Keys: bson.D{{Key: "nationalId", Value: 1}}, Options: options.Index().SetName("uniq_national_id").SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "departmentId", Value: 1}, {Key: "isDeleted", Value: 1}}, Options: options.Index().SetName("department_live")},
			{Keys: bson.D{{Key: "createdBy", Value: 1}}, Options: options.Index().SetName("created_by")},
			{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("live_newest")},
		},
	}
}

// EnsureIndexes creates every index from Indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) (map[string][]string, error) {
	created := make(map[string][]string)
	for collection, models := range Indexes() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return created, fmt.Errorf("create indexes on %s: %w", collection, err)
		}
		created[collection] = names
	}
	return created, nil
}
