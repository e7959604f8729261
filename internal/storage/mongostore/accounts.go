// Package mongostore implements the storage contracts on MongoDB.
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

type accountPtr[T any] interface {
	*T
	models.Account
}

type AccountStore[T any, P accountPtr[T]] struct {
	coll *mongo.Collection
}

func NewAccountStore[T any, P accountPtr[T]](coll *mongo.Collection) *AccountStore[T, P] {
	return &AccountStore[T, P]{coll: coll}
}

func (s *AccountStore[T, P]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *AccountStore[T, P]) FindByEmail(ctx context.Context, email string) (*T, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *AccountStore[T, P]) Save(ctx context.Context, account *T) error {
	p := P(account)
	if p.GetID().IsZero() {
		p.SetID(primitive.NewObjectID())
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.GetID()}, account, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("save %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *AccountStore[T, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", s.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *AccountStore[T, P]) List(ctx context.Context) ([]*T, error) {
	return s.find(ctx, bson.M{})
}

func (s *AccountStore[T, P]) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *AccountStore[T, P]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var out T
	if err := s.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", s.coll.Name(), err)
	}
	return &out, nil
}

func (s *AccountStore[T, P]) find(ctx context.Context, filter bson.M) ([]*T, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	for cursor.Next(ctx) {
		var rec T
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
		}
		out = append(out, &rec)
	}
	return out, cursor.Err()
}

type TechnicianStore struct {
	*AccountStore[models.Technician, *models.Technician]
}

func NewTechnicianStore(coll *mongo.Collection) *TechnicianStore {
	return &TechnicianStore{AccountStore: NewAccountStore[models.Technician, *models.Technician](coll)}
}

func (s *TechnicianStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Technician, error) {
	if len(ids) == 0 {
		return []*models.Technician{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *TechnicianStore) ListByOfficer(ctx context.Context, officerID primitive.ObjectID) ([]*models.Technician, error) {
	return s.find(ctx, bson.M{"created_by": officerID})
}
