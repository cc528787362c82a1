package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"lsx-portal/internal/models"
)

const SnapshotCollection = "ranking_snapshots"

type SnapshotRepository struct {
	col *mongo.Collection
}

func NewSnapshotRepository(db *mongo.Database) *SnapshotRepository {
	return &SnapshotRepository{col: db.Collection(SnapshotCollection)}
}

// Save upserts the snapshot of its civil day.
func (r *SnapshotRepository) Save(ctx context.Context, s models.RankingSnapshot) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"taken_on": s.TakenOn},
		bson.M{"$set": bson.M{
			"taken_on": s.TakenOn,
			"taken_at": s.TakenAt,
			"overall":  s.Overall,
			"junior":   s.Junior,
			"partial":  s.Partial,
		}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

// Recent returns up to limit snapshots, newest first.
func (r *SnapshotRepository) Recent(ctx context.Context, limit int64) ([]models.RankingSnapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "taken_on", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	snapshots := []models.RankingSnapshot{}
	if err := cur.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
