package models

import "time"

// VerificationCode is the live one-time code for an email. Issuing a new
// code replaces the previous one.
type VerificationCode struct {
	Email      string    `bson:"email" json:"email"`
	OTP        string    `bson:"otp" json:"-"`
	ExpiryTime time.Time `bson:"expiry_time" json:"expiry_time"`
}

// Expired reports whether the code is past its expiry at now.
func (v *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(v.ExpiryTime)
}
