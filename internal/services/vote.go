package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citycare-backend/internal/metrics"
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteService keeps at most one vote per (citizen, issue). Counts are read
// live from the store on every call.
type VoteService struct {
	store   *storage.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewVoteService(store *storage.Store, m *metrics.Metrics) *VoteService {
	return &VoteService{store: store, metrics: m, now: time.Now}
}

// Cast creates the citizen's vote on the issue or overwrites it in place.
func (s *VoteService) Cast(ctx context.Context, issueID, citizenID primitive.ObjectID, upvote bool, comment *string) (*models.Vote, error) {
	if err := s.requireIssue(ctx, issueID); err != nil {
		return nil, err
	}

	vote, err := s.store.Votes.Upsert(ctx, &models.Vote{
		Upvote:    upvote,
		Comment:   comment,
		CitizenID: citizenID,
		IssueID:   issueID,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	s.metrics.IncrementVotesCast(upvote)
	return vote, nil
}

func (s *VoteService) Delete(ctx context.Context, voteID, citizenID primitive.ObjectID) error {
	vote, err := s.store.Votes.FindByID(ctx, voteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := RequireOwner(citizenID, vote.CitizenID); err != nil {
		return err
	}
	if err := s.store.Votes.Delete(ctx, voteID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (s *VoteService) CountUpvotes(ctx context.Context, issueID primitive.ObjectID) (int64, error) {
	return s.count(ctx, issueID, true)
}

func (s *VoteService) CountDownvotes(ctx context.Context, issueID primitive.ObjectID) (int64, error) {
	return s.count(ctx, issueID, false)
}

// Tally returns both counts for the issue.
func (s *VoteService) Tally(ctx context.Context, issueID primitive.ObjectID) (*models.VoteTally, error) {
	up, err := s.CountUpvotes(ctx, issueID)
	if err != nil {
		return nil, err
	}
	down, err := s.CountDownvotes(ctx, issueID)
	if err != nil {
		return nil, err
	}
	return &models.VoteTally{Upvotes: up, Downvotes: down}, nil
}

// Mine returns the citizen's vote on the issue, or nil if there is none.
func (s *VoteService) Mine(ctx context.Context, issueID, citizenID primitive.ObjectID) (*models.Vote, error) {
	vote, err := s.store.Votes.FindByCitizenAndIssue(ctx, citizenID, issueID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return vote, nil
}

func (s *VoteService) ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]*models.Vote, error) {
	return s.store.Votes.ListByIssue(ctx, issueID)
}

func (s *VoteService) count(ctx context.Context, issueID primitive.ObjectID, upvote bool) (int64, error) {
	if err := s.requireIssue(ctx, issueID); err != nil {
		return 0, err
	}
	return s.store.Votes.CountByIssue(ctx, issueID, upvote)
}

func (s *VoteService) requireIssue(ctx context.Context, issueID primitive.ObjectID) error {
	if _, err := s.store.Issues.FindByID(ctx, issueID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
