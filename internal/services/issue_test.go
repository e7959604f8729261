package services

import (
	"citycare-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *ServiceSuite) TestCreateIssue() {
	c := s.seedCitizen("cit@example.com")
	lat, lng := 18.52, 73.85

	issue, err := s.issues.Create(s.ctx, c.ID, CreateIssueInput{
		Title:       "Broken light",
		Description: "Streetlight out for a week",
		IssueType:   "broken streetlight",
		Address:     models.Address{City: "Pune", Latitude: &lat, Longitude: &lng},
		ImageURLs:   []string{"https://img.example/1.jpg", "  ", "https://img.example/2.jpg"},
	})
	s.Require().NoError(err)

	s.Equal(models.IssueStatusPending, issue.Status)
	s.Equal(models.IssueTypeBrokenStreetlight, issue.IssueType)
	s.Equal(c.ID, issue.CitizenID)
	s.Equal(s.clock, issue.ReportedAt)
	s.Len(issue.Attachments, 2)
	s.Empty(issue.AssignedTechnicianIDs)

	mine, err := s.issues.ListByCitizen(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Len(mine, 1)
}

func (s *ServiceSuite) TestCreateIssue_Validation() {
	c := s.seedCitizen("cit@example.com")

	_, err := s.issues.Create(s.ctx, c.ID, CreateIssueInput{IssueType: "alien invasion"})
	s.ErrorIs(err, ErrInvalidIssueType)

	lat := 120.0
	lng := 0.0
	_, err = s.issues.Create(s.ctx, c.ID, CreateIssueInput{
		IssueType: "OTHER",
		Address:   models.Address{Latitude: &lat, Longitude: &lng},
	})
	s.ErrorIs(err, ErrInvalidCoordinates)
}

func (s *ServiceSuite) TestAssignTechnicians_ReplacesSet() {
	c := s.seedCitizen("cit@example.com")
	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	t10 := s.seedTechnician("t10@example.com", officer.ID)
	t11 := s.seedTechnician("t11@example.com", officer.ID)
	t12 := s.seedTechnician("t12@example.com", officer.ID)
	issue := s.seedIssue(c.ID)
	caller := models.OfficerIdentity(officer)

	got, err := s.issues.AssignTechnicians(s.ctx, caller, issue.ID, []primitive.ObjectID{t10.ID, t11.ID})
	s.Require().NoError(err)
	s.ElementsMatch([]primitive.ObjectID{t10.ID, t11.ID}, got.AssignedTechnicianIDs)
	s.Equal(models.IssueStatusAssigned, got.Status)

	got, err = s.issues.AssignTechnicians(s.ctx, caller, issue.ID, []primitive.ObjectID{t12.ID})
	s.Require().NoError(err)
	s.Equal([]primitive.ObjectID{t12.ID}, got.AssignedTechnicianIDs)

	stored, err := s.issues.Get(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.Equal([]primitive.ObjectID{t12.ID}, stored.AssignedTechnicianIDs)
}

func (s *ServiceSuite) TestAssignTechnicians_DropsUnknownIDs() {
	c := s.seedCitizen("cit@example.com")
	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	tech := s.seedTechnician("t@example.com", officer.ID)
	issue := s.seedIssue(c.ID)

	got, err := s.issues.AssignTechnicians(s.ctx, models.OfficerIdentity(officer), issue.ID,
		[]primitive.ObjectID{primitive.NewObjectID(), tech.ID})
	s.Require().NoError(err)
	s.Equal([]primitive.ObjectID{tech.ID}, got.AssignedTechnicianIDs)

	got, err = s.issues.AssignTechnicians(s.ctx, models.OfficerIdentity(officer), issue.ID,
		[]primitive.ObjectID{primitive.NewObjectID()})
	s.Require().NoError(err)
	s.Empty(got.AssignedTechnicianIDs)
}

func (s *ServiceSuite) TestAssignTechnicians_Guards() {
	c := s.seedCitizen("cit@example.com")
	issue := s.seedIssue(c.ID)

	_, err := s.issues.AssignTechnicians(s.ctx, models.CitizenIdentity(c), issue.ID, nil)
	s.ErrorIs(err, ErrUnauthorized)

	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	_, err = s.issues.AssignTechnicians(s.ctx, models.OfficerIdentity(officer), primitive.NewObjectID(), nil)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestUpdateStatus_RequiresAssignment() {
	c := s.seedCitizen("cit@example.com")
	outsider := s.seedTechnician("out@example.com", primitive.NewObjectID())
	issue := s.seedIssue(c.ID)

	for _, status := range []string{"RESOLVED", "in progress", "PENDING", "nonsense", ""} {
		_, err := s.issues.UpdateStatus(s.ctx, issue.ID, status, outsider.ID)
		s.ErrorIs(err, ErrNotAssigned, status)
	}

	stored, err := s.issues.Get(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.Equal(models.IssueStatusPending, stored.Status)
}

func (s *ServiceSuite) TestUpdateStatus_Transitions() {
	c := s.seedCitizen("cit@example.com")
	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	tech := s.seedTechnician("t@example.com", officer.ID)
	issue := s.seedIssue(c.ID)

	_, err := s.issues.AssignTechnicians(s.ctx, models.OfficerIdentity(officer), issue.ID, []primitive.ObjectID{tech.ID})
	s.Require().NoError(err)

	_, err = s.issues.UpdateStatus(s.ctx, issue.ID, "done-ish", tech.ID)
	s.ErrorIs(err, ErrInvalidStatus)

	got, err := s.issues.UpdateStatus(s.ctx, issue.ID, " in-progress ", tech.ID)
	s.Require().NoError(err)
	s.Equal(models.IssueStatusInProgress, got.Status)
	s.Nil(got.ResolvedAt)

	got, err = s.issues.UpdateStatus(s.ctx, issue.ID, "resolved", tech.ID)
	s.Require().NoError(err)
	s.Equal(models.IssueStatusResolved, got.Status)
	s.Require().NotNil(got.ResolvedAt)
	s.Equal(s.clock, *got.ResolvedAt)

	// moving backward is allowed and clears the resolution time
	got, err = s.issues.UpdateStatus(s.ctx, issue.ID, "PENDING", tech.ID)
	s.Require().NoError(err)
	s.Equal(models.IssueStatusPending, got.Status)
	s.Nil(got.ResolvedAt)
}

func (s *ServiceSuite) TestDeleteIssue_Ownership() {
	owner := s.seedCitizen("owner@example.com")
	other := s.seedCitizen("other@example.com")
	issue := s.seedIssue(owner.ID)

	err := s.issues.Delete(s.ctx, issue.ID, other.ID)
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.issues.Get(s.ctx, issue.ID)
	s.NoError(err, "rejected delete must not mutate")

	s.ErrorIs(s.issues.Delete(s.ctx, primitive.NewObjectID(), owner.ID), ErrNotFound)
}

func (s *ServiceSuite) TestDeleteIssue_RemovesVotes() {
	owner := s.seedCitizen("owner@example.com")
	voter := s.seedCitizen("voter@example.com")
	issue := s.seedIssue(owner.ID)

	_, err := s.votes.Cast(s.ctx, issue.ID, voter.ID, true, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.issues.Delete(s.ctx, issue.ID, owner.ID))

	votes, err := s.votes.ListByIssue(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.Empty(votes)
}

func (s *ServiceSuite) TestListForTechnician_NearestFirst() {
	c := s.seedCitizen("cit@example.com")
	officer := s.seedOfficer("off@example.com", primitive.NewObjectID())
	homeLat, homeLng := 18.52, 73.85
	tech := s.seedTechnician("t@example.com", officer.ID)
	tech.Address = &models.Address{Latitude: &homeLat, Longitude: &homeLng}
	s.Require().NoError(s.store.Technicians.Save(s.ctx, tech))

	at := func(lat, lng float64) *models.Issue {
		issue, err := s.issues.Create(s.ctx, c.ID, CreateIssueInput{
			IssueType: "WATER_LEAK",
			Address:   models.Address{Latitude: &lat, Longitude: &lng},
		})
		s.Require().NoError(err)
		return issue
	}
	far := at(19.07, 72.87)
	near := at(18.53, 73.86)
	unlocated, err := s.issues.Create(s.ctx, c.ID, CreateIssueInput{IssueType: "OTHER"})
	s.Require().NoError(err)

	caller := models.OfficerIdentity(officer)
	for _, issue := range []*models.Issue{far, near, unlocated} {
		_, err := s.issues.AssignTechnicians(s.ctx, caller, issue.ID, []primitive.ObjectID{tech.ID})
		s.Require().NoError(err)
	}

	list, err := s.issues.ListForTechnician(s.ctx, tech)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(near.ID, list[0].ID)
	s.Equal(far.ID, list[1].ID)
	s.Equal(unlocated.ID, list[2].ID)
}
