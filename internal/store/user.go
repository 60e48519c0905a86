package store

import (
	"context"
	"time"

	"medrecord-api/internal/model"
)

const userCols = `id, email, password_hash, role, provider_id, patient_id,
	refresh_token_hash, session_started_at, remember_me, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, provider_id, patient_id)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.ProviderID, u.PatientID,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.ProviderID, &u.PatientID,
		&u.RefreshTokenHash, &u.SessionStartedAt, &u.RememberMe, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.ProviderID, &u.PatientID,
		&u.RefreshTokenHash, &u.SessionStartedAt, &u.RememberMe, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// StartSession stores a fresh refresh-token hash, the session start and the
// remember-me flag, overwriting any prior token for the user.
func (s *Store) StartSession(ctx context.Context, userID, refreshHash string, startedAt time.Time, rememberMe bool) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET refresh_token_hash = $2, session_started_at = $3, remember_me = $4, updated_at = NOW()
		 WHERE id = $1`,
		userID, refreshHash, startedAt, rememberMe,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// RotateRefreshToken swaps the stored hash in one conditional update so two
// concurrent refreshes cannot both win. session_started_at is untouched:
// session age is measured from the original login.
func (s *Store) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $3, updated_at = NOW()
		 WHERE id = $1 AND refresh_token_hash = $2`,
		userID, oldHash, newHash,
	)
	if err != nil {
		return false, storeErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// ClearRefreshTokenByHash backs logout: zero matched rows is still success.
func (s *Store) ClearRefreshTokenByHash(ctx context.Context, refreshHash string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL, updated_at = NOW()
		 WHERE refresh_token_hash = $1`,
		refreshHash,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
