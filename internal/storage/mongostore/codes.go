package mongostore

import (
	"context"
	"errors"
	"fmt"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VerificationCodeStore struct {
	coll *mongo.Collection
}

func NewVerificationCodeStore(coll *mongo.Collection) *VerificationCodeStore {
	return &VerificationCodeStore{coll: coll}
}

func (s *VerificationCodeStore) FindByEmail(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&code); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find verification code: %w", err)
	}
	return &code, nil
}

func (s *VerificationCodeStore) Save(ctx context.Context, code *models.VerificationCode) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"email": code.Email}, code, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

func (s *VerificationCodeStore) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

func (s *VerificationCodeStore) Take(ctx context.Context, email, otp string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	err := s.coll.FindOneAndDelete(ctx, bson.M{"email": email, "otp": otp}).Decode(&code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("take verification code: %w", err)
	}
	return &code, nil
}
