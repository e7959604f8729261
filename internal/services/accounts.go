package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citycare-backend/internal/metrics"
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
	"citycare-backend/internal/utils"
	"citycare-backend/pkg/auth"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NewOfficerInput struct {
	Name  string
	Email string
	Phone string
}

type NewTechnicianInput struct {
	Name    string
	Email   string
	Phone   string
	Skills  []string
	Address *models.Address
}

type ProfileInput struct {
	Name  string
	Phone string
}

type CitizenProfileInput struct {
	ProfileInput
	Addresses []models.Address
}

type TechnicianProfileInput struct {
	ProfileInput
	Skills  []string
	Address *models.Address
}

// AccountService manages account creation by superior roles, rosters,
// profile updates and password changes.
type AccountService struct {
	store    *storage.Store
	notifier Notifier
	metrics  *metrics.Metrics
	log      *logrus.Logger
	now      func() time.Time
}

func NewAccountService(store *storage.Store, notifier Notifier, m *metrics.Metrics, log *logrus.Logger) *AccountService {
	return &AccountService{
		store:    store,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// CreateOfficer creates an officer managed by head and mails it a
// temporary password. When mail fails the officer is still returned
// together with ErrNotificationFailed.
func (s *AccountService) CreateOfficer(ctx context.Context, head *models.Head, in NewOfficerInput) (*models.Officer, error) {
	email := normalizeEmail(in.Email)
	if err := ensureFree(ctx, s.store.Officers.FindByEmail, email); err != nil {
		return nil, err
	}

	password := uuid.NewString()[:8]
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	officer := &models.Officer{
		AccountBase: models.AccountBase{
			Name:         in.Name,
			Email:        email,
			Phone:        in.Phone,
			PasswordHash: hash,
			Role:         models.RoleOfficer,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		HeadID: head.ID,
	}
	if err := s.store.Officers.Save(ctx, officer); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create officer: %w", err)
	}

	current, err := s.reloadHead(ctx, head.ID)
	if err != nil {
		return nil, err
	}
	current.OfficerIDs = append(current.OfficerIDs, officer.ID)
	current.UpdatedAt = now
	if err := s.store.Heads.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("link officer to head: %w", err)
	}
	s.metrics.IncrementAccountsCreated(string(models.RoleOfficer))

	return officer, s.sendCredentials(ctx, email, password, models.RoleOfficer)
}

func (s *AccountService) DeleteOfficer(ctx context.Context, head *models.Head, officerID primitive.ObjectID) error {
	officer, err := s.store.Officers.FindByID(ctx, officerID)
	if err != nil {
		return notFound(err)
	}
	if err := RequireOwner(head.ID, officer.HeadID); err != nil {
		return err
	}
	if err := s.store.Officers.Delete(ctx, officerID); err != nil {
		return notFound(err)
	}

	current, err := s.reloadHead(ctx, head.ID)
	if err != nil {
		return err
	}
	kept := make([]primitive.ObjectID, 0, len(current.OfficerIDs))
	for _, id := range current.OfficerIDs {
		if id != officerID {
			kept = append(kept, id)
		}
	}
	current.OfficerIDs = kept
	current.UpdatedAt = s.now()
	if err := s.store.Heads.Save(ctx, current); err != nil {
		return fmt.Errorf("unlink officer from head: %w", err)
	}
	return nil
}

func (s *AccountService) ListOfficers(ctx context.Context, head *models.Head) ([]*models.Officer, error) {
	all, err := s.store.Officers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Officer, 0, len(all))
	for _, o := range all {
		if o.HeadID == head.ID {
			out = append(out, o)
		}
	}
	return out, nil
}

// CreateTechnician creates a technician owned by officer and mails it a
// six-digit temporary password.
func (s *AccountService) CreateTechnician(ctx context.Context, officer *models.Officer, in NewTechnicianInput) (*models.Technician, error) {
	email := normalizeEmail(in.Email)
	skills, err := parseSkills(in.Skills)
	if err != nil {
		return nil, err
	}
	if in.Address != nil && !utils.ValidCoordinates(*in.Address) {
		return nil, ErrInvalidCoordinates
	}
	if err := ensureFree(ctx, s.store.Technicians.FindByEmail, email); err != nil {
		return nil, err
	}

	password, err := GenerateNumericCode(otpDigits)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	tech := &models.Technician{
		AccountBase: models.AccountBase{
			Name:         in.Name,
			Email:        email,
			Phone:        in.Phone,
			PasswordHash: hash,
			Role:         models.RoleTechnician,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		Skills:    skills,
		CreatedBy: officer.ID,
		Address:   in.Address,
	}
	if err := s.store.Technicians.Save(ctx, tech); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create technician: %w", err)
	}
	s.metrics.IncrementAccountsCreated(string(models.RoleTechnician))

	return tech, s.sendCredentials(ctx, email, password, models.RoleTechnician)
}

// DeleteTechnician removes a technician created by officer and drops it
// from every issue's assignment set.
func (s *AccountService) DeleteTechnician(ctx context.Context, officer *models.Officer, technicianID primitive.ObjectID) error {
	tech, err := s.store.Technicians.FindByID(ctx, technicianID)
	if err != nil {
		return notFound(err)
	}
	if err := RequireOwner(officer.ID, tech.CreatedBy); err != nil {
		return err
	}
	if err := s.store.Technicians.Delete(ctx, technicianID); err != nil {
		return notFound(err)
	}
	if err := s.store.Issues.PullTechnician(ctx, technicianID); err != nil {
		return fmt.Errorf("unassign deleted technician: %w", err)
	}
	return nil
}

func (s *AccountService) ListTechnicians(ctx context.Context, officer *models.Officer) ([]*models.Technician, error) {
	return s.store.Technicians.ListByOfficer(ctx, officer.ID)
}

// UpdatePassword replaces the caller's password after verifying the old
// one. On mismatch the stored hash is left untouched.
func (s *AccountService) UpdatePassword(ctx context.Context, id *models.Identity, oldPassword, newPassword string) error {
	if !auth.CheckPassword(id.PasswordHash(), oldPassword) {
		return ErrInvalidCredential
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	base := id.Base()
	base.PasswordHash = hash
	base.UpdatedAt = s.now()
	return s.save(ctx, id)
}

func (s *AccountService) UpdateCitizenProfile(ctx context.Context, c *models.Citizen, in CitizenProfileInput) (*models.Citizen, error) {
	for _, addr := range in.Addresses {
		if !utils.ValidCoordinates(addr) {
			return nil, ErrInvalidCoordinates
		}
	}
	applyProfile(&c.AccountBase, in.ProfileInput, s.now())
	if in.Addresses != nil {
		c.Addresses = in.Addresses
	}
	if err := s.store.Citizens.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("update citizen: %w", err)
	}
	return c, nil
}

func (s *AccountService) UpdateTechnicianProfile(ctx context.Context, t *models.Technician, in TechnicianProfileInput) (*models.Technician, error) {
	if in.Skills != nil {
		skills, err := parseSkills(in.Skills)
		if err != nil {
			return nil, err
		}
		t.Skills = skills
	}
	if in.Address != nil {
		if !utils.ValidCoordinates(*in.Address) {
			return nil, ErrInvalidCoordinates
		}
		t.Address = in.Address
	}
	applyProfile(&t.AccountBase, in.ProfileInput, s.now())
	if err := s.store.Technicians.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("update technician: %w", err)
	}
	return t, nil
}

func (s *AccountService) UpdateOfficerProfile(ctx context.Context, o *models.Officer, in ProfileInput) (*models.Officer, error) {
	applyProfile(&o.AccountBase, in, s.now())
	if err := s.store.Officers.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("update officer: %w", err)
	}
	return o, nil
}

func (s *AccountService) UpdateHeadProfile(ctx context.Context, h *models.Head, in ProfileInput) (*models.Head, error) {
	applyProfile(&h.AccountBase, in, s.now())
	if err := s.store.Heads.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("update head: %w", err)
	}
	return h, nil
}

// SeedHead creates the initial head when the heads collection is empty.
// It returns false when a head already exists.
func (s *AccountService) SeedHead(ctx context.Context, name, email, password string) (bool, error) {
	n, err := s.store.Heads.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count heads: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	head := &models.Head{
		AccountBase: models.AccountBase{
			Name:         name,
			Email:        normalizeEmail(email),
			PasswordHash: hash,
			Role:         models.RoleHead,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		OfficerIDs: []primitive.ObjectID{},
	}
	if err := s.store.Heads.Save(ctx, head); err != nil {
		return false, fmt.Errorf("seed head: %w", err)
	}
	s.log.WithField("email", head.Email).Info("initial head account created")
	return true, nil
}

func (s *AccountService) save(ctx context.Context, id *models.Identity) error {
	var err error
	switch id.Role {
	case models.RoleCitizen:
		err = s.store.Citizens.Save(ctx, id.Citizen)
	case models.RoleTechnician:
		err = s.store.Technicians.Save(ctx, id.Technician)
	case models.RoleOfficer:
		err = s.store.Officers.Save(ctx, id.Officer)
	case models.RoleHead:
		err = s.store.Heads.Save(ctx, id.Head)
	default:
		return ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *AccountService) reloadHead(ctx context.Context, id primitive.ObjectID) (*models.Head, error) {
	head, err := s.store.Heads.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return head, nil
}

// ensureFree reports ErrAccountExists when email is taken in the collection
// behind find.
func ensureFree[T any](ctx context.Context, find func(context.Context, string) (*T, error), email string) error {
	_, err := find(ctx, email)
	if err == nil {
		return ErrAccountExists
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func (s *AccountService) sendCredentials(ctx context.Context, email, password string, role models.Role) error {
	if err := s.notifier.SendCredentials(ctx, email, password, role); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"email": email,
			"role":  role,
		}).Error("failed to deliver account credentials")
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

func applyProfile(base *models.AccountBase, in ProfileInput, now time.Time) {
	if in.Name != "" {
		base.Name = in.Name
	}
	if in.Phone != "" {
		base.Phone = in.Phone
	}
	base.UpdatedAt = now
}

func parseSkills(raw []string) ([]models.IssueType, error) {
	skills := make([]models.IssueType, 0, len(raw))
	seen := make(map[models.IssueType]bool, len(raw))
	for _, s := range raw {
		t, ok := models.ParseIssueType(s)
		if !ok {
			return nil, ErrInvalidIssueType
		}
		if !seen[t] {
			seen[t] = true
			skills = append(skills, t)
		}
	}
	return skills, nil
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
