package store

import (
	"context"

	"medrecord-api/internal/model"
)

const allergyCols = `id, patient_id, recorded_by_id, category, substance,
	reaction, severity, notes, created_at, updated_at`

func (s *Store) CreateAllergy(ctx context.Context, a *model.Allergy) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO allergies (id, patient_id, recorded_by_id, category, substance, reaction, severity, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.RecordedByID, a.Category, a.Substance, a.Reaction, a.Severity, a.Notes,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetAllergy(ctx context.Context, id string) (*model.Allergy, error) {
	a := &model.Allergy{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+allergyCols+` FROM allergies WHERE id = $1`, id,
	).Scan(&a.ID, &a.PatientID, &a.RecordedByID, &a.Category, &a.Substance,
		&a.Reaction, &a.Severity, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "allergy")
	}
	return a, nil
}

func (s *Store) ListAllergiesByPatient(ctx context.Context, patientID string) ([]model.Allergy, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+allergyCols+` FROM allergies WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []model.Allergy
	for rows.Next() {
		var a model.Allergy
		if err := rows.Scan(&a.ID, &a.PatientID, &a.RecordedByID, &a.Category, &a.Substance,
			&a.Reaction, &a.Severity, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (s *Store) UpdateAllergy(ctx context.Context, a *model.Allergy) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE allergies
		 SET recorded_by_id=$2, category=$3, substance=$4, reaction=$5, severity=$6, notes=$7, updated_at=NOW()
		 WHERE id=$1`,
		a.ID, a.RecordedByID, a.Category, a.Substance, a.Reaction, a.Severity, a.Notes,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) DeleteAllergy(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM allergies WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
