// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"time"

	"citycare-backend/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CitizensCollection          = "citizens"
	TechniciansCollection       = "technicians"
	OfficersCollection          = "officers"
	HeadsCollection             = "heads"
	IssuesCollection            = "issues"
	VotesCollection             = "votes"
	VerificationCodesCollection = "verification_codes"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.MongoTimeout)*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	database := client.Database(cfg.DatabaseName)

	logrus.WithField("database", cfg.DatabaseName).Info("connected to MongoDB")

	return &MongoDB{
		Client:   client,
		Database: database,
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect from MongoDB: %w", err)
	}

	logrus.Info("disconnected from MongoDB")
	return nil
}

// Ping is used by the readiness probe.
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// CreateIndexes creates the indexes for every collection.
// Keys use bson.D so that compound key order is preserved.
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	// Email is unique per account collection only; the same address may
	// exist as both a citizen and a technician.
	for _, name := range []string{CitizensCollection, TechniciansCollection, OfficersCollection, HeadsCollection} {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "created_at", Value: -1}},
			},
		}
		if _, err := m.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
	}

	technicianIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_by", Value: 1}},
		},
	}
	if _, err := m.Collection(TechniciansCollection).Indexes().CreateMany(ctx, technicianIndexes); err != nil {
		return fmt.Errorf("create indexes for technicians: %w", err)
	}

	issueIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "citizen_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assigned_technician_ids", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "issue_type", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "reported_at", Value: -1}},
		},
	}
	if _, err := m.Collection(IssuesCollection).Indexes().CreateMany(ctx, issueIndexes); err != nil {
		return fmt.Errorf("create indexes for issues: %w", err)
	}

	voteIndexes := []mongo.IndexModel{
		{
			// one vote per citizen per issue
			Keys: bson.D{
				{Key: "citizen_id", Value: 1},
				{Key: "issue_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "issue_id", Value: 1},
				{Key: "upvote", Value: 1},
			},
		},
	}
	if _, err := m.Collection(VotesCollection).Indexes().CreateMany(ctx, voteIndexes); err != nil {
		return fmt.Errorf("create indexes for votes: %w", err)
	}

	codeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.Collection(VerificationCodesCollection).Indexes().CreateMany(ctx, codeIndexes); err != nil {
		return fmt.Errorf("create indexes for verification codes: %w", err)
	}

	logrus.Info("indexes created for all collections")
	return nil
}
