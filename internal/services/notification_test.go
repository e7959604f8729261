package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"citycare-backend/internal/config"
	"citycare-backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmailNotifier(t *testing.T, handler http.HandlerFunc) *EmailNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log, _ := test.NewNullLogger()
	return NewEmailNotifier(&config.Config{
		BrevoBaseURL:    srv.URL,
		BrevoAPIKey:     "test-key",
		MailSenderName:  "City Care",
		MailSenderEmail: "no-reply@citycare.test",
	}, log)
}

func TestEmailNotifier_SendOTP(t *testing.T) {
	var got brevoEmail
	n := newTestEmailNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/smtp/email", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, n.SendOTP(context.Background(), "alice@example.com", "123456"))

	assert.Equal(t, "City Care", got.Sender.Name)
	require.Len(t, got.To, 1)
	assert.Equal(t, "alice@example.com", got.To[0].Email)
	assert.Contains(t, got.HTMLContent, "123456")
}

func TestEmailNotifier_SendCredentials(t *testing.T) {
	var got brevoEmail
	n := newTestEmailNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, n.SendCredentials(context.Background(), "bob@example.com", "tmp12345", models.RoleOfficer))

	assert.Equal(t, "Your City Care Account Credentials", got.Subject)
	assert.Contains(t, got.HTMLContent, "tmp12345")
	assert.Contains(t, got.HTMLContent, "Officer")
}

func TestEmailNotifier_ErrorStatus(t *testing.T) {
	n := newTestEmailNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := n.SendOTP(context.Background(), "alice@example.com", "123456")
	assert.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	log, hook := test.NewNullLogger()
	n := NewLogNotifier(log)

	require.NoError(t, n.SendOTP(context.Background(), "alice@example.com", "654321"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "654321", hook.LastEntry().Data["otp"])
}
