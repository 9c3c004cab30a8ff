// services/otp_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/utils"
)

const (
	otpLength      = 6
	otpTTL         = 5 * time.Minute
	maxOTPAttempts = 5
	resendInterval = 60 * time.Second
)

// ChallengeStore persists the single outstanding OTP challenge per phone
// number. Replace swaps the whole document; Consume and IncrementAttempts are
// conditional on the challenge version so a reissue racing a verification
// leaves exactly one winner.
type ChallengeStore interface {
	// Replace upserts the challenge for ch.Phone, discarding any prior one.
	Replace(ctx context.Context, ch *models.OTPChallenge) error
	// Find returns the outstanding challenge, or models.ErrNoActiveChallenge.
	Find(ctx context.Context, phone string) (*models.OTPChallenge, error)
	// Consume deletes the challenge iff its version still matches. The
	// returned bool reports whether this caller consumed it.
	Consume(ctx context.Context, phone, version string) (bool, error)
	// IncrementAttempts bumps the failure counter iff the version still
	// matches, returning the new count.
	IncrementAttempts(ctx context.Context, phone, version string) (int, error)
}

// OTPService issues and verifies one-time codes for phone ownership proof.
type OTPService struct {
	challenges ChallengeStore
	messenger  Messenger
	redis      *redis.Client
	logger     *log.Logger
	now        func() time.Time
}

// NewOTPService creates a new OTP service
func NewOTPService(challenges ChallengeStore, messenger Messenger, rdb *redis.Client) *OTPService {
	return &OTPService{
		challenges: challenges,
		messenger:  messenger,
		redis:      rdb,
		logger:     log.New(os.Stdout, "[OTP] ", log.LstdFlags),
		now:        time.Now,
	}
}

// Issue creates a fresh challenge for the phone number, replacing any prior
// one, and dispatches the code over WhatsApp. The challenge is persisted
// before the send: a delivery failure returns models.ErrMessagingDelivery but
// leaves the stored challenge valid, so the user can retry or request a
// resend. Issuances are throttled to one per phone per minute.
func (s *OTPService) Issue(ctx context.Context, phone, purpose string) (*models.OTPChallenge, error) {
	if err := utils.CheckResendThrottle(ctx, s.redis, phone, resendInterval); err != nil {
		return nil, err
	}

	code, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return nil, fmt.Errorf("%w: generating code: %v", models.ErrPersistence, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing code: %v", models.ErrPersistence, err)
	}

	now := s.now()
	ch := &models.OTPChallenge{
		Phone:     phone,
		CodeHash:  string(hash),
		Purpose:   purpose,
		Version:   uuid.NewString(),
		Attempts:  0,
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	}

	if err := s.challenges.Replace(ctx, ch); err != nil {
		return nil, fmt.Errorf("%w: storing challenge: %v", models.ErrPersistence, err)
	}

	if err := s.messenger.SendMessage(ctx, phone, otpMessage(purpose, code)); err != nil {
		s.logger.Printf("OTP delivery failed for %s: %v", phone, err)
		return ch, models.ErrMessagingDelivery
	}

	s.logger.Printf("OTP issued for %s (purpose=%s, expires %s)", phone, purpose, ch.ExpiresAt.Format(time.RFC3339))
	return ch, nil
}

// Reissue replaces the outstanding challenge with a fresh code of the same
// purpose. Fails with models.ErrNoActiveChallenge when there is nothing to
// resend.
func (s *OTPService) Reissue(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	ch, err := s.challenges.Find(ctx, phone)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveChallenge) {
			return nil, models.ErrNoActiveChallenge
		}
		return nil, fmt.Errorf("%w: loading challenge: %v", models.ErrPersistence, err)
	}
	return s.Issue(ctx, phone, ch.Purpose)
}

// Verify checks a submitted code against the outstanding challenge of the
// given purpose and consumes the challenge on success. A challenge of a
// different purpose reports NoActiveChallenge before any code comparison and
// stays intact, so submitting a registration code on the login endpoint
// neither burns an attempt nor destroys the challenge. Expired and locked-out
// challenges are invalidated as a side effect. The code comparison goes
// through bcrypt, which does not short-circuit on mismatched prefixes.
func (s *OTPService) Verify(ctx context.Context, phone, code, purpose string) error {
	ch, err := s.challenges.Find(ctx, phone)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveChallenge) {
			return models.ErrNoActiveChallenge
		}
		return fmt.Errorf("%w: loading challenge: %v", models.ErrPersistence, err)
	}

	if ch.Purpose != purpose {
		return models.ErrNoActiveChallenge
	}

	if s.now().After(ch.ExpiresAt) {
		if _, derr := s.challenges.Consume(ctx, phone, ch.Version); derr != nil {
			s.logger.Printf("Failed to discard expired challenge for %s: %v", phone, derr)
		}
		return models.ErrExpired
	}

	if ch.Attempts >= maxOTPAttempts {
		if _, derr := s.challenges.Consume(ctx, phone, ch.Version); derr != nil {
			s.logger.Printf("Failed to discard locked challenge for %s: %v", phone, derr)
		}
		return models.ErrAttemptsExceeded
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)); err != nil {
		if _, ierr := s.challenges.IncrementAttempts(ctx, phone, ch.Version); ierr != nil {
			s.logger.Printf("Failed to record OTP attempt for %s: %v", phone, ierr)
		}
		return models.ErrCodeMismatch
	}

	consumed, err := s.challenges.Consume(ctx, phone, ch.Version)
	if err != nil {
		return fmt.Errorf("%w: consuming challenge: %v", models.ErrPersistence, err)
	}
	if !consumed {
		// A newer challenge replaced this one mid-flight; only its code is
		// valid now.
		return models.ErrNoActiveChallenge
	}

	return nil
}

func otpMessage(purpose, code string) string {
	switch purpose {
	case models.PurposeLogin:
		return fmt.Sprintf("Kode login Galeri Anda: %s. Berlaku 5 menit. Jangan bagikan kode ini.", code)
	default:
		return fmt.Sprintf("Kode verifikasi Galeri Anda: %s. Berlaku 5 menit. Jangan bagikan kode ini.", code)
	}
}
