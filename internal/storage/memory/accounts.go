// Package memory keeps every collection in process memory. It backs the
// tests and STORE_DRIVER=memory; records do not survive a restart.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type accountPtr[T any] interface {
	*T
	models.Account
}

// AccountStore holds one account collection. Email is unique within it.
type AccountStore[T any, P accountPtr[T]] struct {
	mu      sync.RWMutex
	records map[primitive.ObjectID]T
}

func NewAccountStore[T any, P accountPtr[T]]() *AccountStore[T, P] {
	return &AccountStore[T, P]{records: make(map[primitive.ObjectID]T)}
}

func (s *AccountStore[T, P]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[id]; ok {
		return &rec, nil
	}
	return nil, storage.ErrNotFound
}

func (s *AccountStore[T, P]) FindByEmail(_ context.Context, email string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if P(&rec).GetEmail() == email {
			return &rec, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *AccountStore[T, P]) Save(_ context.Context, account *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := P(account)
	for id, rec := range s.records {
		if id != p.GetID() && P(&rec).GetEmail() == p.GetEmail() {
			return storage.ErrConflict
		}
	}
	if p.GetID().IsZero() {
		p.SetID(primitive.NewObjectID())
	}
	s.records[p.GetID()] = *account
	return nil
}

func (s *AccountStore[T, P]) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *AccountStore[T, P]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*T) bool { return true }), nil
}

func (s *AccountStore[T, P]) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// collect returns copies of matching records ordered by id. Callers hold
// the lock.
func (s *AccountStore[T, P]) collect(match func(*T) bool) []*T {
	out := make([]*T, 0, len(s.records))
	for _, rec := range s.records {
		if match(&rec) {
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessID(P(out[i]).GetID(), P(out[j]).GetID())
	})
	return out
}

type TechnicianStore struct {
	*AccountStore[models.Technician, *models.Technician]
}

func NewTechnicianStore() *TechnicianStore {
	return &TechnicianStore{AccountStore: NewAccountStore[models.Technician, *models.Technician]()}
}

func (s *TechnicianStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Technician, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if rec, ok := s.records[id]; ok {
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (s *TechnicianStore) ListByOfficer(_ context.Context, officerID primitive.ObjectID) ([]*models.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(t *models.Technician) bool { return t.CreatedBy == officerID }), nil
}

func lessID(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
