package store

import (
	"context"

	"medrecord-api/internal/model"
)

const medicationCols = `id, patient_id, prescribed_by_id, name, dosage, frequency,
	status, start_date, end_date, notes, created_at, updated_at`

func (s *Store) CreateMedication(ctx context.Context, m *model.Medication) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO medications (id, patient_id, prescribed_by_id, name, dosage, frequency, status, start_date, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.PatientID, m.PrescribedByID, m.Name, m.Dosage, m.Frequency, m.Status, m.StartDate, m.Notes,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetMedication(ctx context.Context, id string) (*model.Medication, error) {
	m := &model.Medication{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+medicationCols+` FROM medications WHERE id = $1`, id,
	).Scan(&m.ID, &m.PatientID, &m.PrescribedByID, &m.Name, &m.Dosage, &m.Frequency,
		&m.Status, &m.StartDate, &m.EndDate, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "medication")
	}
	return m, nil
}

func (s *Store) ListMedicationsByPatient(ctx context.Context, patientID string) ([]model.Medication, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+medicationCols+` FROM medications WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []model.Medication
	for rows.Next() {
		var m model.Medication
		if err := rows.Scan(&m.ID, &m.PatientID, &m.PrescribedByID, &m.Name, &m.Dosage, &m.Frequency,
			&m.Status, &m.StartDate, &m.EndDate, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (s *Store) UpdateMedication(ctx context.Context, m *model.Medication) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE medications
		 SET name=$2, dosage=$3, frequency=$4, status=$5, end_date=$6, notes=$7, updated_at=NOW()
		 WHERE id=$1`,
		m.ID, m.Name, m.Dosage, m.Frequency, m.Status, m.EndDate, m.Notes,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
