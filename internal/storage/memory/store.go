package memory

import (
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
)

// NewStore returns a Store backed entirely by memory.
func NewStore() *storage.Store {
	return &storage.Store{
		Citizens:    NewAccountStore[models.Citizen, *models.Citizen](),
		Technicians: NewTechnicianStore(),
		Officers:    NewAccountStore[models.Officer, *models.Officer](),
		Heads:       NewAccountStore[models.Head, *models.Head](),
		Issues:      NewIssueStore(),
		Votes:       NewVoteStore(),
		Codes:       NewVerificationCodeStore(),
	}
}
