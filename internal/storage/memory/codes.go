package memory

import (
	"context"
	"sync"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
)

type VerificationCodeStore struct {
	mu    sync.Mutex
	codes map[string]models.VerificationCode
}

func NewVerificationCodeStore() *VerificationCodeStore {
	return &VerificationCodeStore{codes: make(map[string]models.VerificationCode)}
}

func (s *VerificationCodeStore) FindByEmail(_ context.Context, email string) (*models.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.codes[email]; ok {
		return &code, nil
	}
	return nil, storage.ErrNotFound
}

func (s *VerificationCodeStore) Save(_ context.Context, code *models.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.Email] = *code
	return nil
}

func (s *VerificationCodeStore) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

func (s *VerificationCodeStore) Take(_ context.Context, email, otp string) (*models.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[email]
	if !ok || code.OTP != otp {
		return nil, storage.ErrNotFound
	}
	delete(s.codes, email)
	return &code, nil
}
