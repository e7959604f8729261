package mongostore

import (
	"citycare-backend/internal/database"
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
)

// NewStore wires every collection of db into a Store.
func NewStore(db *database.MongoDB) *storage.Store {
	return &storage.Store{
		Citizens:    NewAccountStore[models.Citizen, *models.Citizen](db.Collection(database.CitizensCollection)),
		Technicians: NewTechnicianStore(db.Collection(database.TechniciansCollection)),
		Officers:    NewAccountStore[models.Officer, *models.Officer](db.Collection(database.OfficersCollection)),
		Heads:       NewAccountStore[models.Head, *models.Head](db.Collection(database.HeadsCollection)),
		Issues:      NewIssueStore(db.Collection(database.IssuesCollection)),
		Votes:       NewVoteStore(db.Collection(database.VotesCollection)),
		Codes:       NewVerificationCodeStore(db.Collection(database.VerificationCodesCollection)),
	}
}
