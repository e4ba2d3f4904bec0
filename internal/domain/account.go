package domain

import (
	"strings"
	"time"
)

// Account is one registered user, keyed by its normalized email.
// OTP and OTPExpiry are either both set or both nil; use SetOTP and ClearOTP.
type Account struct {
	ID           string     `json:"id" dynamodbav:"user_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	IsVerified   bool       `json:"isVerified" dynamodbav:"is_verified"`
	OTP          *string    `json:"-" dynamodbav:"otp,omitempty"`
	OTPExpiry    *time.Time `json:"-" dynamodbav:"otp_expiry,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

// SetOTP installs a new outstanding challenge, replacing any previous one.
func (a *Account) SetOTP(code string, expiry time.Time) {
	a.OTP = &code
	a.OTPExpiry = &expiry
}

// ClearOTP removes the outstanding challenge.
func (a *Account) ClearOTP() {
	a.OTP = nil
	a.OTPExpiry = nil
}

// OTPExpired reports whether there is no live challenge at now.
func (a *Account) OTPExpired(now time.Time) bool {
	return a.OTP == nil || a.OTPExpiry == nil || a.OTPExpiry.Before(now)
}

// OTPMatches reports whether code equals the outstanding challenge.
func (a *Account) OTPMatches(code string) bool {
	return a.OTP != nil && *a.OTP == code
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest carries just an address (resend-otp, forgot-password).
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// OTPRequest is the body of verify-otp and verify-reset-otp.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,bcryptlen"`
}
