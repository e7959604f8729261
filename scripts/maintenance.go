// One-off maintenance against the CityCare database: backfills the role
// field on account documents and purges expired verification codes.
package main

import (
	"context"
	"time"

	"citycare-backend/internal/config"
	"citycare-backend/internal/database"
	"citycare-backend/internal/logger"
	"citycare-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.NewMongoDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// each account collection holds exactly one role; $ne also matches a missing field
	roles := map[string]models.Role{
		database.CitizensCollection:    models.RoleCitizen,
		database.TechniciansCollection: models.RoleTechnician,
		database.OfficersCollection:    models.RoleOfficer,
		database.HeadsCollection:       models.RoleHead,
	}
	for name, role := range roles {
		result, err := db.Collection(name).UpdateMany(
			ctx,
			bson.M{"role": bson.M{"$ne": role}},
			bson.M{"$set": bson.M{"role": role}},
		)
		if err != nil {
			log.WithError(err).WithField("collection", name).Fatal("role backfill failed")
		}
		log.WithField("collection", name).Infof("backfilled role on %d accounts", result.ModifiedCount)
	}

	result, err := db.Collection(database.VerificationCodesCollection).DeleteMany(ctx, bson.M{
		"expiry_time": bson.M{"$lte": time.Now()},
	})
	if err != nil {
		log.WithError(err).Fatal("purging expired codes failed")
	}
	log.Infof("purged %d expired verification codes", result.DeletedCount)
}
