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

type IssueStore struct {
	coll *mongo.Collection
}

func NewIssueStore(coll *mongo.Collection) *IssueStore {
	return &IssueStore{coll: coll}
}

func (s *IssueStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return &issue, nil
}

// Save writes the issue with its embedded address and attachments as a
// single document.
func (s *IssueStore) Save(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": issue.ID}, issue, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save issue: %w", err)
	}
	return nil
}

func (s *IssueStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *IssueStore) List(ctx context.Context) ([]*models.Issue, error) {
	return s.find(ctx, bson.M{})
}

func (s *IssueStore) ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*models.Issue, error) {
	return s.find(ctx, bson.M{"citizen_id": citizenID})
}

func (s *IssueStore) ListByTechnician(ctx context.Context, technicianID primitive.ObjectID) ([]*models.Issue, error) {
	return s.find(ctx, bson.M{"assigned_technician_ids": technicianID})
}

func (s *IssueStore) PullTechnician(ctx context.Context, technicianID primitive.ObjectID) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"assigned_technician_ids": technicianID},
		bson.M{"$pull": bson.M{"assigned_technician_ids": technicianID}},
	)
	if err != nil {
		return fmt.Errorf("unassign technician: %w", err)
	}
	return nil
}

func (s *IssueStore) find(ctx context.Context, filter bson.M) ([]*models.Issue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reported_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := make([]*models.Issue, 0)
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}
