package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"medrecord-api/internal/model"
)

const providerCols = `id, user_id, first_name, last_name, specialty, email, phone, created_at, updated_at`

func (s *Store) CreateProvider(ctx context.Context, p *model.Provider) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO providers (id, user_id, first_name, last_name, specialty, email, phone)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Specialty, p.Email, p.Phone,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetProvider(ctx context.Context, id string) (*model.Provider, error) {
	p := &model.Provider{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+providerCols+` FROM providers WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "provider")
	}
	return p, nil
}

func (s *Store) GetProviderByUserID(ctx context.Context, userID string) (*model.Provider, error) {
	p := &model.Provider{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+providerCols+` FROM providers WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "provider")
	}
	return p, nil
}

// GetProviderByEmail returns (nil, nil) when no provider holds the email,
// so uniqueness checks don't have to unwrap a not-found error.
func (s *Store) GetProviderByEmail(ctx context.Context, email string) (*model.Provider, error) {
	p := &model.Provider{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+providerCols+` FROM providers WHERE email = $1`, email,
	).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return p, nil
}

func (s *Store) ListProviders(ctx context.Context, limit, offset int) ([]model.Provider, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&total); err != nil {
		return nil, 0, storeErr(err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+providerCols+` FROM providers ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	var out []model.Provider
	for rows.Next() {
		var p model.Provider
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, storeErr(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr(err)
	}
	return out, total, nil
}

func (s *Store) UpdateProvider(ctx context.Context, p *model.Provider) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE providers
		 SET first_name=$2, last_name=$3, specialty=$4, email=$5, phone=$6, updated_at=NOW()
		 WHERE id=$1`,
		p.ID, p.FirstName, p.LastName, p.Specialty, p.Email, p.Phone,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) DeleteProvider(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
