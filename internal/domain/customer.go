package domain

import "time"

// Customer is a buyer profile normalized across channels. ExternalID is the
// channel-native identifier (typically email) and the upsert uniqueness key.
type Customer struct {
	ExternalID string    `json:"external_id" bson:"external_id"`
	FirstName  string    `json:"first_name" bson:"first_name"`
	LastName   string    `json:"last_name" bson:"last_name"`
	City       string    `json:"city" bson:"city"`
	Country    string    `json:"country" bson:"country"`
	Phone      string    `json:"phone" bson:"phone"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
