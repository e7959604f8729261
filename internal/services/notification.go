package services

import (
	"context"
	"fmt"
	"time"

	"citycare-backend/internal/config"
	"citycare-backend/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Notifier delivers one-time codes and initial credentials to an account
// holder. Delivery happens after the related write has committed.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
	SendCredentials(ctx context.Context, email, password string, role models.Role) error
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// EmailNotifier sends transactional mail through the Brevo HTTP API.
type EmailNotifier struct {
	client *resty.Client
	sender brevoContact
	log    *logrus.Logger
}

func NewEmailNotifier(cfg *config.Config, log *logrus.Logger) *EmailNotifier {
	client := resty.New().
		SetBaseURL(cfg.BrevoBaseURL).
		SetTimeout(30*time.Second).
		SetHeader("api-key", cfg.BrevoAPIKey).
		SetHeader("Accept", "application/json")

	return &EmailNotifier{
		client: client,
		sender: brevoContact{Name: cfg.MailSenderName, Email: cfg.MailSenderEmail},
		log:    log,
	}
}

func (n *EmailNotifier) SendOTP(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("<p>Your One-Time Password (OTP) for login/signup is: <b>%s</b></p>"+
		"<p>It is valid for a few minutes. Do not share it with anyone.</p>", code)
	return n.send(ctx, email, "Your City Care verification code", body)
}

func (n *EmailNotifier) SendCredentials(ctx context.Context, email, password string, role models.Role) error {
	body := fmt.Sprintf("<p>Your City Care %s account has been created.</p>"+
		"<p>Email: <b>%s</b><br>Temporary password: <b>%s</b></p>"+
		"<p>Please change your password after the first login.</p>", role.Label(), email, password)
	return n.send(ctx, email, "Your City Care Account Credentials", body)
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, html string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(brevoEmail{
			Sender:      n.sender,
			To:          []brevoContact{{Email: to}},
			Subject:     subject,
			HTMLContent: html,
		}).
		Post("/smtp/email")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.IsError() {
		n.log.WithFields(logrus.Fields{
			"status":  resp.StatusCode(),
			"subject": subject,
		}).Warn("brevo rejected email")
		return fmt.Errorf("send email: brevo responded %d", resp.StatusCode())
	}
	return nil
}

// LogNotifier writes messages to the log instead of sending them. It is
// used when no Brevo API key is configured.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendOTP(_ context.Context, email, code string) error {
	n.log.WithFields(logrus.Fields{"email": email, "otp": code}).Info("otp issued")
	return nil
}

func (n *LogNotifier) SendCredentials(_ context.Context, email, _ string, role models.Role) error {
	n.log.WithFields(logrus.Fields{"email": email, "role": role}).Info("account credentials issued")
	return nil
}
