package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccountStore_SaveAssignsIDAndEnforcesEmail(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore[models.Citizen, *models.Citizen]()

	c := &models.Citizen{AccountBase: models.AccountBase{Email: "a@example.com"}}
	require.NoError(t, store.Save(ctx, c))
	require.False(t, c.ID.IsZero())

	dup := &models.Citizen{AccountBase: models.AccountBase{Email: "a@example.com"}}
	assert.ErrorIs(t, store.Save(ctx, dup), storage.ErrConflict)

	c.Name = "Alice"
	require.NoError(t, store.Save(ctx, c))

	got, err := store.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, store.Delete(ctx, c.ID))
	_, err = store.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, c.ID), storage.ErrNotFound)
}

func TestTechnicianStore_FindByIDsSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewTechnicianStore()
	officer := primitive.NewObjectID()

	tech := &models.Technician{AccountBase: models.AccountBase{Email: "t@example.com"}, CreatedBy: officer}
	require.NoError(t, store.Save(ctx, tech))

	found, err := store.FindByIDs(ctx, []primitive.ObjectID{tech.ID, primitive.NewObjectID(), tech.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, tech.ID, found[0].ID)

	mine, err := store.ListByOfficer(ctx, officer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := store.ListByOfficer(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestIssueStore_PullTechnician(t *testing.T) {
	ctx := context.Background()
	store := NewIssueStore()
	keep, drop := primitive.NewObjectID(), primitive.NewObjectID()

	issue := &models.Issue{AssignedTechnicianIDs: []primitive.ObjectID{keep, drop}, ReportedAt: time.Now()}
	require.NoError(t, store.Save(ctx, issue))

	require.NoError(t, store.PullTechnician(ctx, drop))

	got, err := store.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{keep}, got.AssignedTechnicianIDs)

	assigned, err := store.ListByTechnician(ctx, drop)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestVoteStore_UpsertIsKeyedByPair(t *testing.T) {
	ctx := context.Background()
	store := NewVoteStore()
	citizen, issue := primitive.NewObjectID(), primitive.NewObjectID()

	first, err := store.Upsert(ctx, &models.Vote{CitizenID: citizen, IssueID: issue, Upvote: true, UpdatedAt: time.Now()})
	require.NoError(t, err)

	second, err := store.Upsert(ctx, &models.Vote{CitizenID: citizen, IssueID: issue, Upvote: false, UpdatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Upvote)

	up, _ := store.CountByIssue(ctx, issue, true)
	down, _ := store.CountByIssue(ctx, issue, false)
	assert.EqualValues(t, 0, up)
	assert.EqualValues(t, 1, down)

	require.NoError(t, store.DeleteByIssue(ctx, issue))
	_, err = store.FindByCitizenAndIssue(ctx, citizen, issue)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVerificationCodeStore_TakeOnce(t *testing.T) {
	ctx := context.Background()
	store := NewVerificationCodeStore()
	require.NoError(t, store.Save(ctx, &models.VerificationCode{Email: "a@example.com", OTP: "123456"}))

	_, err := store.Take(ctx, "a@example.com", "000000")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "a@example.com", "123456"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
