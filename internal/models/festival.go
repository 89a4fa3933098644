package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Festival holds the festival fields the permission subsystem needs.
// Editions, artists and schedule entries live in their own collections
// and are not loaded here.
type Festival struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string        `bson:"name" json:"name"`
	OwnerUserID string        `bson:"owner_user_id" json:"owner_user_id"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// FestivalSummary is the batch-lookup projection used for enrichment
type FestivalSummary struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	OwnerUserID string        `bson:"owner_user_id" json:"owner_user_id"`
}
