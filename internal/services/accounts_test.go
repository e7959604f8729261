package services

import (
	"context"
	"errors"

	"citycare-backend/internal/models"
	"citycare-backend/pkg/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func (s *ServiceSuite) expectCredentials(email string, role models.Role) *string {
	var password string
	s.notifier.EXPECT().
		SendCredentials(gomock.Any(), email, gomock.Any(), role).
		DoAndReturn(func(_ context.Context, _ string, p string, _ models.Role) error {
			password = p
			return nil
		})
	return &password
}

func (s *ServiceSuite) TestCreateOfficer() {
	head := s.seedHead("head@example.com")
	password := s.expectCredentials("off@example.com", models.RoleOfficer)

	officer, err := s.accounts.CreateOfficer(s.ctx, head, NewOfficerInput{Name: "Off", Email: "Off@Example.com"})
	s.Require().NoError(err)
	s.Equal(head.ID, officer.HeadID)
	s.Equal(models.RoleOfficer, officer.Role)

	s.Len(*password, 8)
	s.True(auth.CheckPassword(officer.PasswordHash, *password))

	stored, err := s.store.Heads.FindByID(s.ctx, head.ID)
	s.Require().NoError(err)
	s.Equal([]primitive.ObjectID{officer.ID}, stored.OfficerIDs)

	res, err := s.authn.Login(s.ctx, LoginInput{Email: "off@example.com", Password: *password})
	s.Require().NoError(err)
	s.Equal(models.RoleOfficer, res.Role)

	_, err = s.accounts.CreateOfficer(s.ctx, head, NewOfficerInput{Email: "off@example.com"})
	s.ErrorIs(err, ErrAccountExists)
}

func (s *ServiceSuite) TestCreateOfficer_NotificationFailureKeepsAccount() {
	head := s.seedHead("head@example.com")
	s.notifier.EXPECT().SendCredentials(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("brevo down"))

	officer, err := s.accounts.CreateOfficer(s.ctx, head, NewOfficerInput{Email: "off@example.com"})
	s.ErrorIs(err, ErrNotificationFailed)
	s.Require().NotNil(officer)

	_, err = s.store.Officers.FindByID(s.ctx, officer.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteOfficer_Ownership() {
	head := s.seedHead("head@example.com")
	other := s.seedHead("other@example.com")
	officer := s.seedOfficer("off@example.com", head.ID)
	head.OfficerIDs = []primitive.ObjectID{officer.ID}
	s.Require().NoError(s.store.Heads.Save(s.ctx, head))

	s.ErrorIs(s.accounts.DeleteOfficer(s.ctx, other, officer.ID), ErrUnauthorized)
	s.ErrorIs(s.accounts.DeleteOfficer(s.ctx, head, primitive.NewObjectID()), ErrNotFound)

	s.Require().NoError(s.accounts.DeleteOfficer(s.ctx, head, officer.ID))
	stored, err := s.store.Heads.FindByID(s.ctx, head.ID)
	s.Require().NoError(err)
	s.Empty(stored.OfficerIDs)

	list, err := s.accounts.ListOfficers(s.ctx, head)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestCreateTechnician() {
	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	password := s.expectCredentials("tech@example.com", models.RoleTechnician)

	tech, err := s.accounts.CreateTechnician(s.ctx, officer, NewTechnicianInput{
		Name:   "Tech",
		Email:  "tech@example.com",
		Skills: []string{"pothole", "WATER_LEAK", "Pothole"},
	})
	s.Require().NoError(err)
	s.Equal(officer.ID, tech.CreatedBy)
	s.Equal([]models.IssueType{models.IssueTypePothole, models.IssueTypeWaterLeak}, tech.Skills)
	s.Regexp(`^\d{6}$`, *password)
	s.True(auth.CheckPassword(tech.PasswordHash, *password))

	list, err := s.accounts.ListTechnicians(s.ctx, officer)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.accounts.CreateTechnician(s.ctx, officer, NewTechnicianInput{Email: "x@example.com", Skills: []string{"lasers"}})
	s.ErrorIs(err, ErrInvalidIssueType)
}

func (s *ServiceSuite) TestDeleteTechnician_OwnershipAndUnassign() {
	c := s.seedCitizen("cit@example.com")
	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	rival := s.seedOfficer("rival@example.com", primitive.NewObjectID())
	tech := s.seedTechnician("tech@example.com", officer.ID)
	issue := s.seedIssue(c.ID)

	_, err := s.issues.AssignTechnicians(s.ctx, models.OfficerIdentity(officer), issue.ID, []primitive.ObjectID{tech.ID})
	s.Require().NoError(err)

	s.ErrorIs(s.accounts.DeleteTechnician(s.ctx, rival, tech.ID), ErrUnauthorized)

	s.Require().NoError(s.accounts.DeleteTechnician(s.ctx, officer, tech.ID))

	stored, err := s.issues.Get(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.Empty(stored.AssignedTechnicianIDs)
}

func (s *ServiceSuite) TestUpdatePassword_WrongOldKeepsHash() {
	c := s.seedCitizen("cit@example.com")
	before := c.PasswordHash

	err := s.accounts.UpdatePassword(s.ctx, models.CitizenIdentity(c), "wrong", "new-pass")
	s.ErrorIs(err, ErrInvalidCredential)

	stored, err := s.store.Citizens.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(before, stored.PasswordHash)
}

func (s *ServiceSuite) TestUpdatePassword_AllVariants() {
	head := s.seedHead("head@example.com")
	tech := s.seedTechnician("tech@example.com", primitive.NewObjectID())

	s.Require().NoError(s.accounts.UpdatePassword(s.ctx, models.HeadIdentity(head), "head-pass", "head-new"))
	s.Require().NoError(s.accounts.UpdatePassword(s.ctx, models.TechnicianIdentity(tech), "tech-pass", "tech-new"))

	_, err := s.authn.Login(s.ctx, LoginInput{Email: "head@example.com", Password: "head-new"})
	s.NoError(err)
	_, err = s.authn.Login(s.ctx, LoginInput{Email: "tech@example.com", Password: "tech-pass"})
	s.ErrorIs(err, ErrInvalidCredential)
}

func (s *ServiceSuite) TestUpdateProfiles() {
	c := s.seedCitizen("cit@example.com")
	updated, err := s.accounts.UpdateCitizenProfile(s.ctx, c, CitizenProfileInput{
		ProfileInput: ProfileInput{Name: "Renamed"},
		Addresses:    []models.Address{{City: "Nagpur"}},
	})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
	s.Equal("cit@example.com", updated.Email)
	s.Len(updated.Addresses, 1)

	tech := s.seedTechnician("tech@example.com", primitive.NewObjectID())
	_, err = s.accounts.UpdateTechnicianProfile(s.ctx, tech, TechnicianProfileInput{Skills: []string{"graffiti"}})
	s.ErrorIs(err, ErrInvalidIssueType)

	t2, err := s.accounts.UpdateTechnicianProfile(s.ctx, tech, TechnicianProfileInput{
		ProfileInput: ProfileInput{Phone: "999"},
		Skills:       []string{"vandalism"},
	})
	s.Require().NoError(err)
	s.Equal("999", t2.Phone)
	s.True(t2.HasSkill(models.IssueTypeVandalism))
}

func (s *ServiceSuite) TestSeedHead_OnlyWhenEmpty() {
	created, err := s.accounts.SeedHead(s.ctx, "Head", "Head@Example.com", "secret")
	s.Require().NoError(err)
	s.True(created)

	created, err = s.accounts.SeedHead(s.ctx, "Head 2", "head2@example.com", "secret")
	s.Require().NoError(err)
	s.False(created)

	n, err := s.store.Heads.Count(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	res, err := s.authn.Login(s.ctx, LoginInput{Email: "head@example.com", Password: "secret"})
	s.Require().NoError(err)
	s.Equal(models.RoleHead, res.Role)
}
