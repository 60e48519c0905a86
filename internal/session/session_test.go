package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/auth"
	"medrecord-api/internal/model"
)

// memStore is a single-user in-memory CredentialStore. afterRead, when
// set, runs after UserByID snapshots the row, to wedge a concurrent
// mutation between the read and the rotate.
type memStore struct {
	user        *model.User
	rotateCalls int
	afterRead   func()
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	u := *m.user
	return &u, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*model.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	u := *m.user
	if m.afterRead != nil {
		m.afterRead()
	}
	return &u, nil
}

func (m *memStore) StartSession(_ context.Context, userID, refreshHash string, startedAt time.Time, rememberMe bool) error {
	m.user.RefreshTokenHash = &refreshHash
	m.user.SessionStartedAt = &startedAt
	m.user.RememberMe = rememberMe
	return nil
}

func (m *memStore) RotateRefreshToken(_ context.Context, userID, oldHash, newHash string) (bool, error) {
	m.rotateCalls++
	if m.user.RefreshTokenHash == nil || *m.user.RefreshTokenHash != oldHash {
		return false, nil
	}
	m.user.RefreshTokenHash = &newHash
	return true, nil
}

func (m *memStore) ClearRefreshToken(_ context.Context, userID string) error {
	m.user.RefreshTokenHash = nil
	m.user.SessionStartedAt = nil
	return nil
}

func (m *memStore) ClearRefreshTokenByHash(_ context.Context, refreshHash string) error {
	if m.user.RefreshTokenHash != nil && *m.user.RefreshTokenHash == refreshHash {
		m.user.RefreshTokenHash = nil
		m.user.SessionStartedAt = nil
	}
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memStore) {
	t.Helper()
	hash, err := auth.HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	st := &memStore{user: &model.User{
		ID:           "user-1",
		Email:        "a@b.com",
		PasswordHash: hash,
		Role:         model.RoleProvider,
	}}
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)
	m := NewManager(st, tokens, 7*24*time.Hour, 30*24*time.Hour, zerolog.Nop())
	return m, st
}

func TestLoginStartsSession(t *testing.T) {
	m, st := newTestManager(t)

	u, pair, err := m.Login(context.Background(), "a@b.com", "testpass123", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}
	if u.SessionStartedAt == nil {
		t.Fatal("session start not recorded")
	}
	if st.user.RefreshTokenHash == nil {
		t.Fatal("refresh hash not stored")
	}
	if *st.user.RefreshTokenHash != auth.HashRefreshToken(pair.RefreshToken) {
		t.Error("stored hash does not match the issued token")
	}
}

func TestLoginErrorsAreIdentical(t *testing.T) {
	m, _ := newTestManager(t)

	_, _, errWrongPW := m.Login(context.Background(), "a@b.com", "wrong", false)
	_, _, errUnknown := m.Login(context.Background(), "nobody@nowhere.com", "wrong", false)

	if errWrongPW == nil || errUnknown == nil {
		t.Fatal("expected both logins to fail")
	}
	if errWrongPW.Error() != errUnknown.Error() {
		t.Errorf("errors differ: %q vs %q", errWrongPW, errUnknown)
	}
	if !apperr.Is(errWrongPW, apperr.InvalidCredentials) || !apperr.Is(errUnknown, apperr.InvalidCredentials) {
		t.Error("expected InvalidCredentials for both")
	}
}

func TestRefreshRotates(t *testing.T) {
	m, st := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", false)

	_, pair2, err := m.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair2.RefreshToken == pair.RefreshToken {
		t.Error("refresh token not rotated")
	}
	if *st.user.RefreshTokenHash != auth.HashRefreshToken(pair2.RefreshToken) {
		t.Error("store holds stale hash after rotation")
	}
}

func TestRefreshReuseDetected(t *testing.T) {
	m, _ := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", false)

	if _, _, err := m.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	_, _, err := m.Refresh(context.Background(), pair.RefreshToken)
	if !apperr.Is(err, apperr.TokenReuseDetected) {
		t.Errorf("expected TokenReuseDetected, got %v", err)
	}
}

func TestRefreshRotationRaceLost(t *testing.T) {
	m, st := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", false)

	// another rotation lands between the read and the swap, so the
	// conditional update matches zero rows
	st.afterRead = func() {
		other := "someone-else-rotated"
		st.user.RefreshTokenHash = &other
	}

	_, _, err := m.Refresh(context.Background(), pair.RefreshToken)
	if !apperr.Is(err, apperr.TokenReuseDetected) {
		t.Errorf("expected TokenReuseDetected, got %v", err)
	}
	if st.rotateCalls != 1 {
		t.Errorf("expected the conditional rotate to run once, got %d", st.rotateCalls)
	}
}

func TestRefreshEmptyToken(t *testing.T) {
	m, _ := newTestManager(t)
	_, _, err := m.Refresh(context.Background(), "")
	// an absent token is reported distinctly from a forged one, both 401
	if !apperr.Is(err, apperr.MissingToken) {
		t.Errorf("expected MissingToken, got %v", err)
	}
	if apperr.MissingToken.HTTPStatus() != http.StatusUnauthorized {
		t.Error("missing token must map to 401")
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	m, _ := newTestManager(t)
	_, _, err := m.Refresh(context.Background(), "not.a.token")
	if !apperr.Is(err, apperr.InvalidToken) {
		t.Errorf("expected InvalidToken, got %v", err)
	}
}

func TestSessionAgeCeiling(t *testing.T) {
	m, st := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", false)

	// just inside the 7 day window
	m.now = func() time.Time { return st.user.SessionStartedAt.Add(7*24*time.Hour - time.Millisecond) }
	_, pair2, err := m.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh inside window: %v", err)
	}

	// just past it
	m.now = func() time.Time { return st.user.SessionStartedAt.Add(7*24*time.Hour + time.Millisecond) }
	_, _, err = m.Refresh(context.Background(), pair2.RefreshToken)
	if !apperr.Is(err, apperr.SessionExpired) {
		t.Fatalf("expected SessionExpired, got %v", err)
	}
	if st.user.RefreshTokenHash != nil {
		t.Error("expired session should clear the stored token")
	}
}

func TestSessionAgePreservedAcrossRefreshes(t *testing.T) {
	m, st := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", false)
	started := *st.user.SessionStartedAt

	// refresh every day; session age still counts from login
	tok := pair.RefreshToken
	for day := 1; day <= 7; day++ {
		m.now = func() time.Time { return started.Add(time.Duration(day)*24*time.Hour - time.Hour) }
		_, next, err := m.Refresh(context.Background(), tok)
		if err != nil {
			t.Fatalf("day %d refresh: %v", day, err)
		}
		tok = next.RefreshToken
	}

	m.now = func() time.Time { return started.Add(7*24*time.Hour + time.Hour) }
	if _, _, err := m.Refresh(context.Background(), tok); !apperr.Is(err, apperr.SessionExpired) {
		t.Errorf("expected SessionExpired past the ceiling, got %v", err)
	}
}

func TestRememberMeExtendsCeiling(t *testing.T) {
	m, st := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", true)
	started := *st.user.SessionStartedAt

	// day 10 would kill a normal session but not a remembered one
	m.now = func() time.Time { return started.Add(10 * 24 * time.Hour) }
	_, pair2, err := m.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("remembered session at day 10: %v", err)
	}

	m.now = func() time.Time { return started.Add(30*24*time.Hour + time.Millisecond) }
	if _, _, err := m.Refresh(context.Background(), pair2.RefreshToken); !apperr.Is(err, apperr.SessionExpired) {
		t.Errorf("expected SessionExpired past 30 days, got %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	m, st := newTestManager(t)
	_, pair, _ := m.Login(context.Background(), "a@b.com", "testpass123", false)

	m.Logout(context.Background(), pair.RefreshToken)
	if st.user.RefreshTokenHash != nil {
		t.Error("logout should clear the stored hash")
	}

	// repeat and garbage logouts are quiet no-ops
	m.Logout(context.Background(), pair.RefreshToken)
	m.Logout(context.Background(), "garbage")
	m.Logout(context.Background(), "")
}
