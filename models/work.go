package models

import "time"

// Work is one portfolio image uploaded by a master.
type Work struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"userId" json:"user_id"`
	ObjectKey   string    `bson:"objectKey" json:"-"`
	ContentType string    `bson:"contentType" json:"content_type"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}
