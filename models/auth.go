// models/auth.go

package models

import "time"

type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// OTPIssuedData is returned after an OTP has been dispatched.
type OTPIssuedData struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginData is returned after a successful login verification.
type LoginData struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Bio      string `json:"bio,omitempty"`
}
