package models

import "time"

// Review is a client's rating of a master.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"user_id"`
	MasterID  string    `bson:"masterId" json:"master_id"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// CreateReviewRequest is the body of POST /reviews/.
type CreateReviewRequest struct {
	MasterID string `json:"master_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

// UpdateReviewRequest is the body of PUT /reviews/{id}.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
