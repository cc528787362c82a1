package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type SnapshotRow struct {
	MemberID    string  `bson:"member_id" json:"member_id"`
	DisplayName string  `bson:"display_name" json:"display_name"`
	DisplayRank int     `bson:"display_rank" json:"display_rank"`
	Score       float64 `bson:"score" json:"score"`
	RankGroup   string  `bson:"rank_group,omitempty" json:"rank_group,omitempty"`
}

// RankingSnapshot archives both views for one civil day.
type RankingSnapshot struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TakenOn string        `bson:"taken_on" json:"taken_on"`
	TakenAt time.Time     `bson:"taken_at" json:"taken_at"`
	Overall []SnapshotRow `bson:"overall" json:"overall"`
	Junior  []SnapshotRow `bson:"junior" json:"junior"`
	Partial bool          `bson:"partial" json:"partial"`
}
