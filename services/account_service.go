// services/account_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rwahyudi/galeri_backend/models"
	"github.com/rwahyudi/galeri_backend/utils"
)

// AccountStore persists accounts keyed by canonical phone number. FindByPhone
// and FindByID return models.ErrAccountNotFound when nothing matches;
// UpdateStatus is conditional on the current status and returns
// models.ErrInvalidTransition when the account is no longer in `from`.
type AccountStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.User, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.AccountStatus) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, bio string) error
	UpdateProfilePic(ctx context.Context, id primitive.ObjectID, path string) error
	GrantAdmin(ctx context.Context, id primitive.ObjectID) error
}

// NotificationStore records in-app notifications for members.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// AccountService owns registration, login challenges and the account status
// lifecycle.
type AccountService struct {
	accounts      AccountStore
	notifications NotificationStore
	otp           *OTPService
	messenger     Messenger
	logger        *log.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accounts AccountStore, notifications NotificationStore, otp *OTPService, messenger Messenger) *AccountService {
	return &AccountService{
		accounts:      accounts,
		notifications: notifications,
		otp:           otp,
		messenger:     messenger,
		logger:        log.New(os.Stdout, "[ACCOUNT] ", log.LstdFlags),
	}
}

// Register creates an unverified account for the phone number and issues a
// registration OTP. Registering again before verifying simply reissues the
// code; a verified account makes the phone number unavailable.
func (s *AccountService) Register(ctx context.Context, rawPhone, fullName string) (*models.OTPChallenge, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	existing, err := s.accounts.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.Status != models.StatusUnverified {
			return nil, models.ErrPhoneTaken
		}
		// Registration was started but never verified; treat as a resend.
		return s.otp.Issue(ctx, phone, models.PurposeRegistration)
	case errors.Is(err, models.ErrAccountNotFound):
		// New registration
	default:
		return nil, fmt.Errorf("%w: looking up account: %v", models.ErrPersistence, err)
	}

	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Phone:     phone,
		FullName:  fullName,
		Role:      models.RoleMember,
		Status:    models.StatusUnverified,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrPhoneTaken) {
			return nil, models.ErrPhoneTaken
		}
		return nil, fmt.Errorf("%w: creating account: %v", models.ErrPersistence, err)
	}

	return s.otp.Issue(ctx, phone, models.PurposeRegistration)
}

// RequestLogin issues a login OTP for an existing account. Unverified
// accounts get a registration code instead, since they still owe a phone
// proof; rejected accounts are refused outright.
func (s *AccountService) RequestLogin(ctx context.Context, rawPhone string) (*models.OTPChallenge, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: looking up account: %v", models.ErrPersistence, err)
	}

	if user.Status == models.StatusRejected {
		return nil, models.ErrForbidden
	}

	purpose := models.PurposeLogin
	if user.Status == models.StatusUnverified {
		purpose = models.PurposeRegistration
	}
	return s.otp.Issue(ctx, phone, purpose)
}

// ResendOTP reissues the outstanding challenge for the phone number.
func (s *AccountService) ResendOTP(ctx context.Context, rawPhone string) (*models.OTPChallenge, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}
	return s.otp.Reissue(ctx, phone)
}

// VerifyOTP validates a submitted code for the expected purpose and applies
// the side effects of a successful proof: registration challenges advance the
// account unverified → pending_approval, login challenges just resolve the
// account so the caller can mint a session. A challenge of the wrong purpose
// reports NoActiveChallenge rather than leaking what is outstanding, and the
// purpose is checked before the code so the mismatch costs nothing.
func (s *AccountService) VerifyOTP(ctx context.Context, rawPhone, code, wantPurpose string) (*models.User, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	if err := s.otp.Verify(ctx, phone, code, wantPurpose); err != nil {
		return nil, err
	}

	user, err := s.accounts.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: looking up account: %v", models.ErrPersistence, err)
	}

	if wantPurpose == models.PurposeRegistration {
		if err := s.accounts.UpdateStatus(ctx, user.ID, models.StatusUnverified, models.StatusPendingApproval); err != nil {
			return nil, err
		}
		user.Status = models.StatusPendingApproval
		s.logger.Printf("Account %s verified, awaiting approval", phone)
	}

	return user, nil
}

// Approve promotes a pending account to active. Only admins may call this;
// anyone else gets ErrForbidden and the target account is left untouched.
func (s *AccountService) Approve(ctx context.Context, actor *models.User, targetID primitive.ObjectID) (*models.User, error) {
	return s.decide(ctx, actor, targetID, models.StatusActive)
}

// Reject moves a pending account to the rejected terminal state. Admin only.
func (s *AccountService) Reject(ctx context.Context, actor *models.User, targetID primitive.ObjectID) (*models.User, error) {
	return s.decide(ctx, actor, targetID, models.StatusRejected)
}

func (s *AccountService) decide(ctx context.Context, actor *models.User, targetID primitive.ObjectID, to models.AccountStatus) (*models.User, error) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}

	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: looking up account: %v", models.ErrPersistence, err)
	}

	if !models.CanTransition(target.Status, to) {
		return nil, models.ErrInvalidTransition
	}
	if err := s.accounts.UpdateStatus(ctx, target.ID, target.Status, to); err != nil {
		return nil, err
	}
	target.Status = to

	// Post-commit notifications; failures are logged, never unwound.
	s.notifyDecision(ctx, target, to)

	return target, nil
}

func (s *AccountService) notifyDecision(ctx context.Context, target *models.User, to models.AccountStatus) {
	var title, message string
	if to == models.StatusActive {
		title = "Akun disetujui"
		message = fmt.Sprintf("Halo %s, akun Galeri Anda telah disetujui. Silakan masuk dan mulai mengunggah foto.", target.FullName)
	} else {
		title = "Pendaftaran ditolak"
		message = fmt.Sprintf("Halo %s, mohon maaf, pendaftaran Galeri Anda tidak dapat kami setujui.", target.FullName)
	}

	if err := s.messenger.SendMessage(ctx, target.Phone, message); err != nil {
		s.logger.Printf("WhatsApp notification failed for %s: %v", target.Phone, err)
	}
	notification := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    target.ID,
		Title:     title,
		Message:   message,
		Type:      "account_decision",
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Printf("Failed to save notification for %s: %v", target.Phone, err)
	}
}

// UpdateProfile mutates the caller's own display fields.
func (s *AccountService) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, bio string) (*models.User, error) {
	if err := s.accounts.UpdateProfile(ctx, id, fullName, bio); err != nil {
		return nil, fmt.Errorf("%w: updating profile: %v", models.ErrPersistence, err)
	}
	return s.accounts.FindByID(ctx, id)
}

// UpdateAvatar records a new avatar URL for the caller.
func (s *AccountService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, path string) error {
	if err := s.accounts.UpdateProfilePic(ctx, id, path); err != nil {
		return fmt.Errorf("%w: updating avatar: %v", models.ErrPersistence, err)
	}
	return nil
}

// ListPending returns accounts awaiting an admin decision.
func (s *AccountService) ListPending(ctx context.Context) ([]models.User, error) {
	return s.accounts.ListByStatus(ctx, models.StatusPendingApproval)
}

// FindByID resolves an account by its ID.
func (s *AccountService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.accounts.FindByID(ctx, id)
}

// EnsureAdmin is the fixed bootstrap mechanism for the admin role: the
// account behind ADMIN_PHONE is created active (or promoted) at startup.
// Every other admin grant must come from an existing admin.
func (s *AccountService) EnsureAdmin(ctx context.Context, rawPhone string) error {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	existing, err := s.accounts.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin && existing.Status == models.StatusActive {
			return nil
		}
		return s.accounts.GrantAdmin(ctx, existing.ID)
	case errors.Is(err, models.ErrAccountNotFound):
		now := time.Now()
		admin := &models.User{
			ID:        primitive.NewObjectID(),
			Phone:     phone,
			FullName:  "Administrator",
			Role:      models.RoleAdmin,
			Status:    models.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.accounts.Create(ctx, admin)
	default:
		return fmt.Errorf("%w: looking up admin account: %v", models.ErrPersistence, err)
	}
}
