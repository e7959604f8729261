// Package storage declares the persistence contracts. The mongostore and
// memory packages implement them.
package storage

import (
	"context"
	"errors"

	"citycare-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// AccountStore is one account collection. Save upserts by id and assigns a
// new id when the record has none.
type AccountStore[T any] interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindByEmail(ctx context.Context, email string) (*T, error)
	Save(ctx context.Context, account *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]*T, error)
	Count(ctx context.Context) (int64, error)
}

type TechnicianStore interface {
	AccountStore[models.Technician]
	// FindByIDs returns the technicians that exist; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Technician, error)
	ListByOfficer(ctx context.Context, officerID primitive.ObjectID) ([]*models.Technician, error)
}

type IssueStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	Save(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]*models.Issue, error)
	ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*models.Issue, error)
	ListByTechnician(ctx context.Context, technicianID primitive.ObjectID) ([]*models.Issue, error)
	// PullTechnician removes technicianID from every assignment set.
	PullTechnician(ctx context.Context, technicianID primitive.ObjectID) error
}

type VoteStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vote, error)
	FindByCitizenAndIssue(ctx context.Context, citizenID, issueID primitive.ObjectID) (*models.Vote, error)
	// Upsert writes the vote keyed by (citizen, issue) in one atomic step
	// and returns the stored record.
	Upsert(ctx context.Context, vote *models.Vote) (*models.Vote, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByIssue(ctx context.Context, issueID primitive.ObjectID) error
	ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]*models.Vote, error)
	CountByIssue(ctx context.Context, issueID primitive.ObjectID, upvote bool) (int64, error)
}

type VerificationCodeStore interface {
	FindByEmail(ctx context.Context, email string) (*models.VerificationCode, error)
	// Save replaces any code stored for the same email.
	Save(ctx context.Context, code *models.VerificationCode) error
	DeleteByEmail(ctx context.Context, email string) error
	// Take atomically removes and returns the code for email if it matches
	// otp. Only one of several concurrent callers can succeed.
	Take(ctx context.Context, email, otp string) (*models.VerificationCode, error)
}

// Store bundles every collection the services need.
type Store struct {
	Citizens    AccountStore[models.Citizen]
	Technicians TechnicianStore
	Officers    AccountStore[models.Officer]
	Heads       AccountStore[models.Head]
	Issues      IssueStore
	Votes       VoteStore
	Codes       VerificationCodeStore
}
