package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"citycare-backend/internal/metrics"
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"

	"github.com/sirupsen/logrus"
)

const otpDigits = 6

// OTPIssuer owns the verification_codes collection. At most one live code
// exists per email.
type OTPIssuer struct {
	codes    storage.VerificationCodeStore
	notifier Notifier
	ttl      time.Duration
	metrics  *metrics.Metrics
	log      *logrus.Logger
	now      func() time.Time
}

func NewOTPIssuer(codes storage.VerificationCodeStore, notifier Notifier, ttl time.Duration, m *metrics.Metrics, log *logrus.Logger) *OTPIssuer {
	return &OTPIssuer{
		codes:    codes,
		notifier: notifier,
		ttl:      ttl,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Send replaces any existing code for email with a fresh one and delivers
// it. The stored code survives a delivery failure.
func (s *OTPIssuer) Send(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if err := s.codes.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("clear previous otp: %w", err)
	}

	code, err := GenerateNumericCode(otpDigits)
	if err != nil {
		return err
	}

	if err := s.codes.Save(ctx, &models.VerificationCode{
		Email:      email,
		OTP:        code,
		ExpiryTime: s.now().Add(s.ttl),
	}); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	s.metrics.IncrementOTPSent()

	if err := s.notifier.SendOTP(ctx, email, code); err != nil {
		s.log.WithError(err).WithField("email", email).Error("failed to deliver otp")
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// Verify checks otp without consuming it.
func (s *OTPIssuer) Verify(ctx context.Context, email, otp string) error {
	code, err := s.codes.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidOtp
		}
		return err
	}
	if code.OTP != otp || code.Expired(s.now()) {
		return ErrInvalidOtp
	}
	return nil
}

// Consume atomically removes a matching code. An expired match is removed
// as well but still rejected.
func (s *OTPIssuer) Consume(ctx context.Context, email, otp string) error {
	if otp == "" {
		return ErrInvalidOtp
	}
	code, err := s.codes.Take(ctx, normalizeEmail(email), otp)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidOtp
		}
		return err
	}
	if code.Expired(s.now()) {
		return ErrInvalidOtp
	}
	return nil
}

// GenerateNumericCode returns a uniformly random string of n decimal digits.
func GenerateNumericCode(n int) (string, error) {
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
