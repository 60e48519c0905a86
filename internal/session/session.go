package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/auth"
	"medrecord-api/internal/model"
)

// CredentialStore is the persistence surface the session lifecycle needs.
// Implementations return an apperr with kind NotFound when no user matches.
type CredentialStore interface {
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	// StartSession overwrites any prior refresh token for the user. This is
	// the rotation point for login.
	StartSession(ctx context.Context, userID, refreshHash string, startedAt time.Time, rememberMe bool) error
	// RotateRefreshToken swaps the stored hash only if it still equals
	// oldHash, as a single conditional update. A false return means the
	// presented token lost a rotation race or was already superseded.
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID string) error
	// ClearRefreshTokenByHash clears whichever user currently holds the
	// hash; clearing nothing is not an error.
	ClearRefreshTokenByHash(ctx context.Context, refreshHash string) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Manager drives the Anonymous -> Authenticated -> (Refreshed)* ->
// Terminated lifecycle over a CredentialStore and the token service.
type Manager struct {
	store          CredentialStore
	tokens         *auth.TokenService
	maxAge         time.Duration
	maxAgeRemember time.Duration
	log            zerolog.Logger

	// now is swappable for session-age tests.
	now func() time.Time
}

func NewManager(store CredentialStore, tokens *auth.TokenService, maxAge, maxAgeRemember time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		store:          store,
		tokens:         tokens,
		maxAge:         maxAge,
		maxAgeRemember: maxAgeRemember,
		log:            log,
		now:            time.Now,
	}
}

// invalidCredentials is the single error shape for every login failure, so
// a caller cannot tell an unknown email from a wrong password.
func invalidCredentials() error {
	return apperr.New(apperr.InvalidCredentials, "invalid email or password")
}

func (m *Manager) Login(ctx context.Context, email, password string, rememberMe bool) (*model.User, TokenPair, error) {
	u, err := m.store.UserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, TokenPair{}, invalidCredentials()
		}
		return nil, TokenPair{}, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, TokenPair{}, invalidCredentials()
	}

	pair, err := m.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	startedAt := m.now()
	if err := m.store.StartSession(ctx, u.ID, auth.HashRefreshToken(pair.RefreshToken), startedAt, rememberMe); err != nil {
		return nil, TokenPair{}, err
	}

	u.SessionStartedAt = &startedAt
	u.RememberMe = rememberMe
	return u, pair, nil
}

// Refresh rotates the session. Step order matters: signature, identity,
// stored-token match, session age, then the conditional swap.
func (m *Manager) Refresh(ctx context.Context, presented string) (*model.User, TokenPair, error) {
	if presented == "" {
		return nil, TokenPair{}, apperr.New(apperr.MissingToken, "refresh token is required")
	}

	claims, err := m.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return nil, TokenPair{}, apperr.Wrap(apperr.InvalidToken, "invalid refresh token", err)
	}

	u, err := m.store.UserByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, TokenPair{}, apperr.New(apperr.InvalidToken, "invalid refresh token")
		}
		return nil, TokenPair{}, err
	}

	presentedHash := auth.HashRefreshToken(presented)
	if u.RefreshTokenHash == nil || *u.RefreshTokenHash != presentedHash {
		// Signature is valid but the token has been superseded: either
		// replay of a rotated-out token or a stolen token racing the
		// legitimate client.
		m.log.Warn().Str("user_id", u.ID).Msg("refresh token reuse detected")
		return nil, TokenPair{}, apperr.New(apperr.TokenReuseDetected, "refresh token reused or invalid")
	}

	if u.SessionStartedAt != nil {
		ceiling := m.maxAge
		if u.RememberMe {
			ceiling = m.maxAgeRemember
		}
		if m.now().Sub(*u.SessionStartedAt) > ceiling {
			if err := m.store.ClearRefreshToken(ctx, u.ID); err != nil {
				m.log.Error().Err(err).Str("user_id", u.ID).Msg("failed to clear expired session")
			}
			return nil, TokenPair{}, apperr.New(apperr.SessionExpired, "session expired")
		}
	}

	pair, err := m.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	// Compare-and-rotate in one statement; the losing side of two
	// concurrent refreshes lands here with zero rows updated. The original
	// sessionStartedAt is preserved so age is measured from login.
	ok, err := m.store.RotateRefreshToken(ctx, u.ID, presentedHash, auth.HashRefreshToken(pair.RefreshToken))
	if err != nil {
		return nil, TokenPair{}, err
	}
	if !ok {
		m.log.Warn().Str("user_id", u.ID).Msg("refresh token rotation race lost")
		return nil, TokenPair{}, apperr.New(apperr.TokenReuseDetected, "refresh token reused or invalid")
	}

	return u, pair, nil
}

// UserByID is the lookup behind the current-user endpoint.
func (m *Manager) UserByID(ctx context.Context, id string) (*model.User, error) {
	return m.store.UserByID(ctx, id)
}

// Logout is best-effort and idempotent: clearing a token nobody holds is a
// success, and store failures are logged rather than surfaced.
func (m *Manager) Logout(ctx context.Context, presented string) {
	if presented == "" {
		return
	}
	if err := m.store.ClearRefreshTokenByHash(ctx, auth.HashRefreshToken(presented)); err != nil {
		m.log.Error().Err(err).Msg("logout: failed to clear refresh token")
	}
}

func (m *Manager) issuePair(u *model.User) (TokenPair, error) {
	access, err := m.tokens.IssueAccessToken(u)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.StoreFailure, "failed to issue token", err)
	}
	refresh, err := m.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.StoreFailure, "failed to issue token", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
