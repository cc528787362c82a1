package bootstrap

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"lsx-portal/internal/repository"
)

// EnsureSnapshotIndexes keeps one archived leaderboard per civil day.
func EnsureSnapshotIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repository.SnapshotCollection).Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "taken_on", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_taken_on"),
		},
	)
	return err
}
