package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func (s *ServiceSuite) TestCastVote_OverwritesInPlace() {
	owner := s.seedCitizen("owner@example.com")
	voter := s.seedCitizen("voter@example.com")
	issue := s.seedIssue(owner.ID)

	first, err := s.votes.Cast(s.ctx, issue.ID, voter.ID, true, strPtr("c1"))
	s.Require().NoError(err)

	second, err := s.votes.Cast(s.ctx, issue.ID, voter.ID, false, strPtr("c2"))
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	all, err := s.votes.ListByIssue(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.False(all[0].Upvote)
	s.Equal("c2", *all[0].Comment)

	up, err := s.votes.CountUpvotes(s.ctx, issue.ID)
	s.Require().NoError(err)
	down, err := s.votes.CountDownvotes(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.EqualValues(0, up)
	s.EqualValues(1, down)
}

func (s *ServiceSuite) TestTally_CountsEachCitizenOnce() {
	owner := s.seedCitizen("owner@example.com")
	issue := s.seedIssue(owner.ID)

	for i, up := range []bool{true, true, false} {
		voter := s.seedCitizen(string(rune('a'+i)) + "@example.com")
		_, err := s.votes.Cast(s.ctx, issue.ID, voter.ID, up, nil)
		s.Require().NoError(err)
	}

	tally, err := s.votes.Tally(s.ctx, issue.ID)
	s.Require().NoError(err)
	s.EqualValues(2, tally.Upvotes)
	s.EqualValues(1, tally.Downvotes)
}

func (s *ServiceSuite) TestVote_MissingIssue() {
	voter := s.seedCitizen("voter@example.com")
	missing := primitive.NewObjectID()

	_, err := s.votes.Cast(s.ctx, missing, voter.ID, true, nil)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.votes.CountUpvotes(s.ctx, missing)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestDeleteVote_Ownership() {
	owner := s.seedCitizen("owner@example.com")
	voter := s.seedCitizen("voter@example.com")
	issue := s.seedIssue(owner.ID)

	vote, err := s.votes.Cast(s.ctx, issue.ID, voter.ID, true, nil)
	s.Require().NoError(err)

	s.ErrorIs(s.votes.Delete(s.ctx, vote.ID, owner.ID), ErrUnauthorized)
	s.ErrorIs(s.votes.Delete(s.ctx, primitive.NewObjectID(), voter.ID), ErrNotFound)

	s.Require().NoError(s.votes.Delete(s.ctx, vote.ID, voter.ID))

	mine, err := s.votes.Mine(s.ctx, issue.ID, voter.ID)
	s.Require().NoError(err)
	s.Nil(mine)
}
