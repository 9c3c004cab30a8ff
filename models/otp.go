// models/otp.go
package models

import "time"

// Challenge purposes. A registration challenge advances the account to
// pending_approval when consumed; a login challenge mints a session.
const (
	PurposeRegistration = "registration"
	PurposeLogin        = "login"
)

// OTPChallenge is the single outstanding OTP for a phone number. Issuing a new
// one replaces the document wholesale, so the Version token changes and any
// in-flight verification of the old code loses its conditional consume.
type OTPChallenge struct {
	Phone     string    `bson:"phone"`
	CodeHash  string    `bson:"codeHash"`
	Purpose   string    `bson:"purpose"`
	Version   string    `bson:"version"`
	Attempts  int       `bson:"attempts"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
}
