package mongostore

import (
	"context"
	"errors"
	"fmt"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VoteStore struct {
	coll *mongo.Collection
}

func NewVoteStore(coll *mongo.Collection) *VoteStore {
	return &VoteStore{coll: coll}
}

func (s *VoteStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vote, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *VoteStore) FindByCitizenAndIssue(ctx context.Context, citizenID, issueID primitive.ObjectID) (*models.Vote, error) {
	return s.findOne(ctx, bson.M{"citizen_id": citizenID, "issue_id": issueID})
}

// Upsert relies on the unique (citizen_id, issue_id) index: two concurrent
// first votes cannot both insert.
func (s *VoteStore) Upsert(ctx context.Context, vote *models.Vote) (*models.Vote, error) {
	filter := bson.M{"citizen_id": vote.CitizenID, "issue_id": vote.IssueID}

	set := bson.M{
		"upvote":     vote.Upvote,
		"updated_at": vote.UpdatedAt,
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"created_at": vote.UpdatedAt,
		},
	}
	if vote.Comment != nil {
		set["comment"] = *vote.Comment
	} else {
		update["$unset"] = bson.M{"comment": ""}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Vote
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// lost the insert race; the other writer's document now exists
		err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert vote: %w", err)
	}
	return &stored, nil
}

func (s *VoteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *VoteStore) DeleteByIssue(ctx context.Context, issueID primitive.ObjectID) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"issue_id": issueID}); err != nil {
		return fmt.Errorf("delete votes for issue: %w", err)
	}
	return nil
}

func (s *VoteStore) ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]*models.Vote, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"issue_id": issueID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer cursor.Close(ctx)

	votes := make([]*models.Vote, 0)
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, fmt.Errorf("decode votes: %w", err)
	}
	return votes, nil
}

func (s *VoteStore) CountByIssue(ctx context.Context, issueID primitive.ObjectID, upvote bool) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"issue_id": issueID, "upvote": upvote})
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

func (s *VoteStore) findOne(ctx context.Context, filter bson.M) (*models.Vote, error) {
	var vote models.Vote
	if err := s.coll.FindOne(ctx, filter).Decode(&vote); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &vote, nil
}
