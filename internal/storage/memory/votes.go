package memory

import (
	"context"
	"sort"
	"sync"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type voteKey struct {
	citizenID primitive.ObjectID
	issueID   primitive.ObjectID
}

// VoteStore indexes votes by id and by (citizen, issue), mirroring the
// unique compound index in Mongo.
type VoteStore struct {
	mu     sync.RWMutex
	votes  map[primitive.ObjectID]models.Vote
	byPair map[voteKey]primitive.ObjectID
}

func NewVoteStore() *VoteStore {
	return &VoteStore{
		votes:  make(map[primitive.ObjectID]models.Vote),
		byPair: make(map[voteKey]primitive.ObjectID),
	}
}

func (s *VoteStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if vote, ok := s.votes[id]; ok {
		return &vote, nil
	}
	return nil, storage.ErrNotFound
}

func (s *VoteStore) FindByCitizenAndIssue(_ context.Context, citizenID, issueID primitive.ObjectID) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byPair[voteKey{citizenID, issueID}]; ok {
		vote := s.votes[id]
		return &vote, nil
	}
	return nil, storage.ErrNotFound
}

func (s *VoteStore) Upsert(_ context.Context, vote *models.Vote) (*models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{vote.CitizenID, vote.IssueID}
	if id, ok := s.byPair[key]; ok {
		existing := s.votes[id]
		existing.Upvote = vote.Upvote
		existing.Comment = vote.Comment
		existing.UpdatedAt = vote.UpdatedAt
		s.votes[id] = existing
		return &existing, nil
	}

	stored := *vote
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	s.votes[stored.ID] = stored
	s.byPair[key] = stored.ID
	return &stored, nil
}

func (s *VoteStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vote, ok := s.votes[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.votes, id)
	delete(s.byPair, voteKey{vote.CitizenID, vote.IssueID})
	return nil
}

func (s *VoteStore) DeleteByIssue(_ context.Context, issueID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, vote := range s.votes {
		if vote.IssueID == issueID {
			delete(s.votes, id)
			delete(s.byPair, voteKey{vote.CitizenID, vote.IssueID})
		}
	}
	return nil
}

func (s *VoteStore) ListByIssue(_ context.Context, issueID primitive.ObjectID) ([]*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Vote, 0)
	for _, vote := range s.votes {
		if vote.IssueID == issueID {
			vote := vote
			out = append(out, &vote)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out, nil
}

func (s *VoteStore) CountByIssue(_ context.Context, issueID primitive.ObjectID, upvote bool) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, vote := range s.votes {
		if vote.IssueID == issueID && vote.Upvote == upvote {
			n++
		}
	}
	return n, nil
}
