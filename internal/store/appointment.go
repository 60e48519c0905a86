package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"medrecord-api/internal/model"
)

const apptCols = `id, patient_id, provider_id, start_time, end_time, reason,
	status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := row.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.StartTime, &a.EndTime,
		&a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ErrOverlapConstraint signals the no-overlap constraint rejected a write
// that slipped past the application-level check.
var ErrOverlapConstraint = errors.New("appointment overlap constraint violated")

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (id, patient_id, provider_id, start_time, end_time, reason, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.PatientID, a.ProviderID, a.StartTime, a.EndTime, a.Reason, a.Status,
	)
	if err != nil {
		if isExclusionViolation(err) {
			// db exclusion constraint caught a race
			return ErrOverlapConstraint
		}
		return storeErr(err)
	}
	return nil
}

// FindOverlapping returns the first SCHEDULED appointment for the provider
// whose half-open interval overlaps [start, end), skipping excludeID when
// set. (nil, nil) means the slot is free.
func (s *Store) FindOverlapping(ctx context.Context, providerID string, start, end time.Time, excludeID string) (*model.Appointment, error) {
	q := `SELECT ` + apptCols + ` FROM appointments
		WHERE provider_id = $1
		  AND status = 'SCHEDULED'
		  AND start_time < $3
		  AND end_time > $2`

	args := []any{providerID, start, end}

	if excludeID != "" {
		q += ` AND id != $4`
		args = append(args, excludeID)
	}
	q += ` ORDER BY start_time LIMIT 1`

	a, err := scanAppointment(s.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return a, nil
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "appointment")
	}
	return a, nil
}

func (s *Store) ListProviderAppointments(ctx context.Context, providerID string, status model.AppointmentStatus, limit, offset int) ([]model.Appointment, int, error) {
	q := `SELECT ` + apptCols + ` FROM appointments WHERE provider_id = $1`
	countQ := `SELECT COUNT(*) FROM appointments WHERE provider_id = $1`
	args := []any{providerID}

	if status != "" {
		q += ` AND status = $2`
		countQ += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := s.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, storeErr(err)
	}

	q += ` ORDER BY created_at DESC`
	if status != "" {
		q += ` LIMIT $3 OFFSET $4`
	} else {
		q += ` LIMIT $2 OFFSET $3`
	}
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.StartTime, &a.EndTime,
			&a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, storeErr(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr(err)
	}
	return out, total, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE appointments
		 SET patient_id=$2, provider_id=$3, start_time=$4, end_time=$5, reason=$6, status=$7, updated_at=NOW()
		 WHERE id=$1`,
		a.ID, a.PatientID, a.ProviderID, a.StartTime, a.EndTime, a.Reason, a.Status,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrOverlapConstraint
		}
		return storeErr(err)
	}
	return nil
}

// CancelAppointment soft-deletes: cancelled rows leave the conflict
// universe but stay queryable.
func (s *Store) CancelAppointment(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status='CANCELLED', updated_at=NOW() WHERE id=$1`, id,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
