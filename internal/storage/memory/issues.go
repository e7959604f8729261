package memory

import (
	"context"
	"sort"
	"sync"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IssueStore struct {
	mu     sync.RWMutex
	issues map[primitive.ObjectID]models.Issue
}

func NewIssueStore() *IssueStore {
	return &IssueStore{issues: make(map[primitive.ObjectID]models.Issue)}
}

func (s *IssueStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if issue, ok := s.issues[id]; ok {
		return cloneIssue(issue), nil
	}
	return nil, storage.ErrNotFound
}

func (s *IssueStore) Save(_ context.Context, issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	s.issues[issue.ID] = *cloneIssue(*issue)
	return nil
}

func (s *IssueStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.issues, id)
	return nil
}

func (s *IssueStore) List(_ context.Context) ([]*models.Issue, error) {
	return s.filter(func(*models.Issue) bool { return true }), nil
}

func (s *IssueStore) ListByCitizen(_ context.Context, citizenID primitive.ObjectID) ([]*models.Issue, error) {
	return s.filter(func(i *models.Issue) bool { return i.CitizenID == citizenID }), nil
}

func (s *IssueStore) ListByTechnician(_ context.Context, technicianID primitive.ObjectID) ([]*models.Issue, error) {
	return s.filter(func(i *models.Issue) bool { return i.IsAssigned(technicianID) }), nil
}

func (s *IssueStore) PullTechnician(_ context.Context, technicianID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, issue := range s.issues {
		if !issue.IsAssigned(technicianID) {
			continue
		}
		kept := make([]primitive.ObjectID, 0, len(issue.AssignedTechnicianIDs))
		for _, tid := range issue.AssignedTechnicianIDs {
			if tid != technicianID {
				kept = append(kept, tid)
			}
		}
		issue.AssignedTechnicianIDs = kept
		s.issues[id] = issue
	}
	return nil
}

// filter returns matching issues newest first.
func (s *IssueStore) filter(match func(*models.Issue) bool) []*models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Issue, 0)
	for _, issue := range s.issues {
		if match(&issue) {
			out = append(out, cloneIssue(issue))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReportedAt.Equal(out[j].ReportedAt) {
			return lessID(out[j].ID, out[i].ID)
		}
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out
}

func cloneIssue(issue models.Issue) *models.Issue {
	issue.Attachments = append([]models.Attachment(nil), issue.Attachments...)
	issue.AssignedTechnicianIDs = append([]primitive.ObjectID(nil), issue.AssignedTechnicianIDs...)
	if issue.ResolvedAt != nil {
		t := *issue.ResolvedAt
		issue.ResolvedAt = &t
	}
	return &issue
}
