package services

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwahyudi/galeri_backend/models"
)

// fakeChallengeStore keeps at most one challenge per phone, mirroring the
// Mongo repository's conditional semantics.
type fakeChallengeStore struct {
	challenges map[string]*models.OTPChallenge
	replaceErr error
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{challenges: make(map[string]*models.OTPChallenge)}
}

func (f *fakeChallengeStore) Replace(ctx context.Context, ch *models.OTPChallenge) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	cp := *ch
	f.challenges[ch.Phone] = &cp
	return nil
}

func (f *fakeChallengeStore) Find(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	ch, ok := f.challenges[phone]
	if !ok {
		return nil, models.ErrNoActiveChallenge
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeChallengeStore) Consume(ctx context.Context, phone, version string) (bool, error) {
	ch, ok := f.challenges[phone]
	if !ok || ch.Version != version {
		return false, nil
	}
	delete(f.challenges, phone)
	return true, nil
}

func (f *fakeChallengeStore) IncrementAttempts(ctx context.Context, phone, version string) (int, error) {
	ch, ok := f.challenges[phone]
	if !ok || ch.Version != version {
		return 0, nil
	}
	ch.Attempts++
	return ch.Attempts, nil
}

// fakeMessenger records every message and optionally fails delivery.
type fakeMessenger struct {
	sent    []string
	targets []string
	err     error
}

func (f *fakeMessenger) SendMessage(ctx context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.targets = append(f.targets, phone)
	f.sent = append(f.sent, message)
	return nil
}

var otpCodeRegex = regexp.MustCompile(`\b(\d{6})\b`)

// lastCode pulls the six-digit code out of the most recent message.
func (f *fakeMessenger) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	m := otpCodeRegex.FindStringSubmatch(f.sent[len(f.sent)-1])
	require.Len(t, m, 2, "no code in message %q", f.sent[len(f.sent)-1])
	return m[1]
}

func newTestOTPService(store ChallengeStore, messenger Messenger) *OTPService {
	svc := NewOTPService(store, messenger, nil)
	svc.logger = log.New(io.Discard, "", 0)
	return svc
}

const testPhone = "6285157300793"

func TestIssueAndVerify(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	ch, err := svc.Issue(context.Background(), testPhone, models.PurposeRegistration)
	require.NoError(t, err)
	assert.Equal(t, testPhone, ch.Phone)
	assert.Equal(t, []string{testPhone}, messenger.targets)

	// Only the hash is at rest.
	code := messenger.lastCode(t)
	assert.NotContains(t, ch.CodeHash, code)

	err = svc.Verify(context.Background(), testPhone, code, models.PurposeRegistration)
	require.NoError(t, err)
}

func TestVerifyConsumesChallenge(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeLogin)
	require.NoError(t, err)
	code := messenger.lastCode(t)

	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	require.NoError(t, err)

	// Replaying the same code finds nothing to verify against.
	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)
}

func TestVerifyWithoutChallenge(t *testing.T) {
	svc := newTestOTPService(newFakeChallengeStore(), &fakeMessenger{})

	err := svc.Verify(context.Background(), testPhone, "123456", models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)
}

func TestVerifyWrongPurposeKeepsChallenge(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeRegistration)
	require.NoError(t, err)
	code := messenger.lastCode(t)

	// The correct registration code on the login path is refused without
	// touching the challenge.
	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)

	stored, err := store.Find(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Attempts)

	// The challenge survives and still verifies for its own purpose.
	err = svc.Verify(context.Background(), testPhone, code, models.PurposeRegistration)
	require.NoError(t, err)
}

func TestVerifyExpired(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeLogin)
	require.NoError(t, err)
	code := messenger.lastCode(t)

	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrExpired), "got %v", err)

	// The expired challenge is gone; the correct code is no longer enough.
	svc.now = time.Now
	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)
}

func TestVerifyAttemptLimit(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeLogin)
	require.NoError(t, err)
	code := messenger.lastCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < maxOTPAttempts; i++ {
		err = svc.Verify(context.Background(), testPhone, wrong, models.PurposeLogin)
		assert.True(t, errors.Is(err, models.ErrCodeMismatch), "attempt %d: got %v", i+1, err)
	}

	// Locked out now, even with the right code.
	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrAttemptsExceeded), "got %v", err)

	// The lockout discarded the challenge entirely.
	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)
}

func TestReissueInvalidatesOldCode(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeRegistration)
	require.NoError(t, err)
	oldCode := messenger.lastCode(t)

	ch, err := svc.Reissue(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, models.PurposeRegistration, ch.Purpose)
	newCode := messenger.lastCode(t)

	if oldCode != newCode {
		err = svc.Verify(context.Background(), testPhone, oldCode, models.PurposeRegistration)
		assert.True(t, errors.Is(err, models.ErrCodeMismatch), "got %v", err)
	}

	err = svc.Verify(context.Background(), testPhone, newCode, models.PurposeRegistration)
	require.NoError(t, err)
}

func TestReissueWithoutChallenge(t *testing.T) {
	svc := newTestOTPService(newFakeChallengeStore(), &fakeMessenger{})

	_, err := svc.Reissue(context.Background(), testPhone)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)
}

func TestIssueDeliveryFailureKeepsChallenge(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{err: errors.New("gateway down")}
	svc := newTestOTPService(store, messenger)

	ch, err := svc.Issue(context.Background(), testPhone, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrMessagingDelivery), "got %v", err)
	require.NotNil(t, ch)

	// The challenge was persisted before the send, so a resend can reuse it.
	stored, err := store.Find(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, ch.Version, stored.Version)

	messenger.err = nil
	_, err = svc.Reissue(context.Background(), testPhone)
	assert.NoError(t, err)
}

func TestIssuePersistenceFailure(t *testing.T) {
	store := newFakeChallengeStore()
	store.replaceErr = errors.New("write concern failed")
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrPersistence), "got %v", err)
	// Nothing was sent for a challenge that never existed.
	assert.Empty(t, messenger.sent)
}

// staleReadStore serves Find from a fixed snapshot while writes go to the
// real store, simulating a reissue landing between a verifier's read and its
// consume.
type staleReadStore struct {
	*fakeChallengeStore
	stale *models.OTPChallenge
}

func (s *staleReadStore) Find(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	cp := *s.stale
	return &cp, nil
}

func TestVerifyLosesRaceToReissue(t *testing.T) {
	store := newFakeChallengeStore()
	messenger := &fakeMessenger{}
	svc := newTestOTPService(store, messenger)

	_, err := svc.Issue(context.Background(), testPhone, models.PurposeLogin)
	require.NoError(t, err)
	code := messenger.lastCode(t)
	snapshot := *store.challenges[testPhone]

	// The reissue wins: a fresh challenge replaces the one the verifier read.
	_, err = svc.Reissue(context.Background(), testPhone)
	require.NoError(t, err)

	svc.challenges = &staleReadStore{fakeChallengeStore: store, stale: &snapshot}

	err = svc.Verify(context.Background(), testPhone, code, models.PurposeLogin)
	assert.True(t, errors.Is(err, models.ErrNoActiveChallenge), "got %v", err)

	// The replacement challenge is untouched and its code still works.
	svc.challenges = store
	newCode := messenger.lastCode(t)
	err = svc.Verify(context.Background(), testPhone, newCode, models.PurposeLogin)
	require.NoError(t, err)
}
