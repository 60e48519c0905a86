package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/model"
)

const availCols = `id, provider_id, start_time, end_time, working_days, created_at, updated_at`

func (s *Store) CreateAvailability(ctx context.Context, a *model.ProviderAvailability) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO provider_availability (id, provider_id, start_time, end_time, working_days)
		 VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.ProviderID, a.StartTime, a.EndTime, a.WorkingDays,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.SchedulingConflict, "availability already exists for this provider")
		}
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetAvailability(ctx context.Context, id string) (*model.ProviderAvailability, error) {
	a := &model.ProviderAvailability{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+availCols+` FROM provider_availability WHERE id = $1`, id,
	).Scan(&a.ID, &a.ProviderID, &a.StartTime, &a.EndTime, &a.WorkingDays, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "provider availability")
	}
	return a, nil
}

// GetAvailabilityByProvider returns (nil, nil) when the provider has no
// availability yet; a missing row is an expected state here.
func (s *Store) GetAvailabilityByProvider(ctx context.Context, providerID string) (*model.ProviderAvailability, error) {
	a := &model.ProviderAvailability{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+availCols+` FROM provider_availability WHERE provider_id = $1`, providerID,
	).Scan(&a.ID, &a.ProviderID, &a.StartTime, &a.EndTime, &a.WorkingDays, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return a, nil
}

func (s *Store) UpdateAvailability(ctx context.Context, a *model.ProviderAvailability) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE provider_availability
		 SET start_time=$2, end_time=$3, working_days=$4, updated_at=NOW()
		 WHERE id=$1`,
		a.ID, a.StartTime, a.EndTime, a.WorkingDays,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
