package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"citycare-backend/internal/metrics"
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
	"citycare-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateIssueInput struct {
	Title       string
	Description string
	IssueType   string
	Address     models.Address
	ImageURLs   []string
}

// IssueService runs the issue lifecycle. Status changes are gated by the
// technician assignment set.
type IssueService struct {
	store   *storage.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewIssueService(store *storage.Store, m *metrics.Metrics) *IssueService {
	return &IssueService{store: store, metrics: m, now: time.Now}
}

// Create files a new PENDING issue owned by citizenID. The issue, its
// address and attachments are written as one document.
func (s *IssueService) Create(ctx context.Context, citizenID primitive.ObjectID, in CreateIssueInput) (*models.Issue, error) {
	issueType, ok := models.ParseIssueType(in.IssueType)
	if !ok {
		return nil, ErrInvalidIssueType
	}
	if !utils.ValidCoordinates(in.Address) {
		return nil, ErrInvalidCoordinates
	}

	attachments := make([]models.Attachment, 0, len(in.ImageURLs))
	for _, url := range in.ImageURLs {
		if url = strings.TrimSpace(url); url == "" {
			continue
		}
		attachments = append(attachments, models.Attachment{
			ID:       primitive.NewObjectID(),
			ImageURL: url,
		})
	}

	now := s.now()
	issue := &models.Issue{
		Title:                 in.Title,
		Description:           in.Description,
		IssueType:             issueType,
		Status:                models.IssueStatusPending,
		CitizenID:             citizenID,
		Address:               in.Address,
		Attachments:           attachments,
		AssignedTechnicianIDs: []primitive.ObjectID{},
		ReportedAt:            now,
		UpdatedAt:             now,
	}

	if err := s.store.Issues.Save(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return issue, nil
}

func (s *IssueService) Get(ctx context.Context, issueID primitive.ObjectID) (*models.Issue, error) {
	issue, err := s.store.Issues.FindByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func (s *IssueService) ListAll(ctx context.Context) ([]*models.Issue, error) {
	return s.store.Issues.List(ctx)
}

func (s *IssueService) ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*models.Issue, error) {
	return s.store.Issues.ListByCitizen(ctx, citizenID)
}

// ListForTechnician returns the issues assigned to the technician. When the
// technician has a located address, issues with coordinates come first,
// nearest first.
func (s *IssueService) ListForTechnician(ctx context.Context, tech *models.Technician) ([]*models.Issue, error) {
	issues, err := s.store.Issues.ListByTechnician(ctx, tech.ID)
	if err != nil {
		return nil, err
	}
	if !utils.HasCoordinates(tech.Address) {
		return issues, nil
	}

	home := *tech.Address
	sort.SliceStable(issues, func(i, j int) bool {
		li, lj := utils.HasCoordinates(&issues[i].Address), utils.HasCoordinates(&issues[j].Address)
		if li != lj {
			return li
		}
		if !li {
			return false
		}
		return utils.CalculateDistance(home, issues[i].Address) < utils.CalculateDistance(home, issues[j].Address)
	})
	return issues, nil
}

// Delete removes an issue owned by citizenID along with its votes. There is
// no status restriction.
func (s *IssueService) Delete(ctx context.Context, issueID, citizenID primitive.ObjectID) error {
	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return err
	}
	if err := RequireOwner(citizenID, issue.CitizenID); err != nil {
		return err
	}

	if err := s.store.Issues.Delete(ctx, issueID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete issue: %w", err)
	}
	if err := s.store.Votes.DeleteByIssue(ctx, issueID); err != nil {
		return fmt.Errorf("delete issue votes: %w", err)
	}
	return nil
}

// AssignTechnicians replaces the assignment set with the ids that resolve
// to existing technicians. Unknown ids are dropped without error.
func (s *IssueService) AssignTechnicians(ctx context.Context, caller *models.Identity, issueID primitive.ObjectID, technicianIDs []primitive.ObjectID) (*models.Issue, error) {
	if err := RequireRole(caller, models.RoleOfficer); err != nil {
		return nil, err
	}

	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}

	techs, err := s.store.Technicians.FindByIDs(ctx, technicianIDs)
	if err != nil {
		return nil, fmt.Errorf("load technicians: %w", err)
	}

	assigned := make([]primitive.ObjectID, 0, len(techs))
	for _, t := range techs {
		assigned = append(assigned, t.ID)
	}
	issue.AssignedTechnicianIDs = assigned

	if len(assigned) > 0 && issue.Status == models.IssueStatusPending {
		issue.Status = models.IssueStatusAssigned
		s.metrics.IncrementStatusChanges(string(issue.Status))
	}
	issue.UpdatedAt = s.now()

	if err := s.store.Issues.Save(ctx, issue); err != nil {
		return nil, fmt.Errorf("save assignment: %w", err)
	}
	return issue, nil
}

// UpdateStatus lets an assigned technician set any status. Assignment is
// checked before the status value is parsed.
func (s *IssueService) UpdateStatus(ctx context.Context, issueID primitive.ObjectID, status string, technicianID primitive.ObjectID) (*models.Issue, error) {
	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !issue.IsAssigned(technicianID) {
		return nil, ErrNotAssigned
	}

	next, ok := models.ParseIssueStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	now := s.now()
	switch {
	case next == models.IssueStatusResolved && issue.Status != models.IssueStatusResolved:
		issue.ResolvedAt = &now
	case next != models.IssueStatusResolved:
		issue.ResolvedAt = nil
	}
	issue.Status = next
	issue.UpdatedAt = now

	if err := s.store.Issues.Save(ctx, issue); err != nil {
		return nil, fmt.Errorf("save status: %w", err)
	}
	s.metrics.IncrementStatusChanges(string(next))
	return issue, nil
}
