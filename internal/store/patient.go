package store

import (
	"context"

	"github.com/google/uuid"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/model"
)

const patientCols = `id, user_id, first_name, last_name, dob, email, phone, created_at, updated_at`

// CreatePatientWithUser registers the patient and their login account in
// one transaction, so a patient row never exists without credentials.
func (s *Store) CreatePatientWithUser(ctx context.Context, p *model.Patient, passwordHash string) (*model.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	defer tx.Rollback(ctx)

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        p.Email,
		PasswordHash: passwordHash,
		Role:         model.RolePatient,
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role) VALUES ($1,$2,$3,$4)`,
		u.ID, u.Email, u.PasswordHash, u.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.Validation, "email already registered")
		}
		return nil, storeErr(err)
	}

	p.UserID = u.ID
	_, err = tx.Exec(ctx,
		`INSERT INTO patients (id, user_id, first_name, last_name, dob, email, phone)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Dob, p.Email, p.Phone,
	)
	if err != nil {
		return nil, storeErr(err)
	}

	_, err = tx.Exec(ctx, `UPDATE users SET patient_id = $2 WHERE id = $1`, u.ID, p.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	u.PatientID = &p.ID

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

func (s *Store) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Dob, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "patient")
	}
	return p, nil
}

func (s *Store) GetPatientByUserID(ctx context.Context, userID string) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Dob, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "patient")
	}
	return p, nil
}

func (s *Store) ListPatients(ctx context.Context, limit, offset int) ([]model.Patient, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, storeErr(err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	var out []model.Patient
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Dob, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, storeErr(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr(err)
	}
	return out, total, nil
}

func (s *Store) UpdatePatient(ctx context.Context, p *model.Patient) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE patients
		 SET first_name=$2, last_name=$3, dob=$4, email=$5, phone=$6, updated_at=NOW()
		 WHERE id=$1`,
		p.ID, p.FirstName, p.LastName, p.Dob, p.Email, p.Phone,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) DeletePatient(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// FindDuplicatePatient reports any existing patient rows that already carry
// the email or phone. Duplicates are warned about, not rejected.
func (s *Store) FindDuplicatePatient(ctx context.Context, email, phone string) (byEmail, byPhone *model.Patient, err error) {
	row := s.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE email = $1 LIMIT 1`, email)
	p := &model.Patient{}
	scanErr := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Dob, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if scanErr == nil {
		byEmail = p
	}

	row = s.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE phone = $1 LIMIT 1`, phone)
	q := &model.Patient{}
	scanErr = row.Scan(&q.ID, &q.UserID, &q.FirstName, &q.LastName, &q.Dob, &q.Email, &q.Phone, &q.CreatedAt, &q.UpdatedAt)
	if scanErr == nil {
		byPhone = q
	}
	return byEmail, byPhone, nil
}
