package models

import "time"

// User holds the account fields the permission subsystem needs. User IDs
// are strings issued by the auth service, not ObjectIDs of this database.
type User struct {
	ID          string    `bson:"_id" json:"id"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// UserSummary is the batch-lookup projection used for enrichment
type UserSummary struct {
	ID          string `bson:"_id" json:"id"`
	Email       string `bson:"email" json:"email"`
	DisplayName string `bson:"display_name" json:"display_name"`
}
