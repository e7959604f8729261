package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote is a citizen's up or down vote on an issue, with an optional comment.
// There is at most one per (citizen, issue).
type Vote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Upvote    bool               `bson:"upvote" json:"upvote"`
	Comment   *string            `bson:"comment,omitempty" json:"comment,omitempty"`
	CitizenID primitive.ObjectID `bson:"citizen_id" json:"citizen_id"`
	IssueID   primitive.ObjectID `bson:"issue_id" json:"issue_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (v *Vote) GetID() primitive.ObjectID   { return v.ID }
func (v *Vote) SetID(id primitive.ObjectID) { v.ID = id }

// VoteTally is the upvote/downvote count for one issue.
type VoteTally struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}
