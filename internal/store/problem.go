package store

import (
	"context"

	"medrecord-api/internal/model"
)

const problemCols = `id, patient_id, provider_id, name, icd_code, description,
	status, resolved_at, created_at, updated_at`

func (s *Store) CreateProblem(ctx context.Context, p *model.Problem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO problems (id, patient_id, provider_id, name, icd_code, description, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.PatientID, p.ProviderID, p.Name, p.IcdCode, p.Description, p.Status,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetProblem(ctx context.Context, id string) (*model.Problem, error) {
	p := &model.Problem{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+problemCols+` FROM problems WHERE id = $1`, id,
	).Scan(&p.ID, &p.PatientID, &p.ProviderID, &p.Name, &p.IcdCode, &p.Description,
		&p.Status, &p.ResolvedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "problem")
	}
	return p, nil
}

func (s *Store) ListProblemsByPatient(ctx context.Context, patientID string) ([]model.Problem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+problemCols+` FROM problems WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []model.Problem
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.PatientID, &p.ProviderID, &p.Name, &p.IcdCode, &p.Description,
			&p.Status, &p.ResolvedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (s *Store) UpdateProblem(ctx context.Context, p *model.Problem) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE problems
		 SET name=$2, icd_code=$3, description=$4, status=$5, resolved_at=$6, updated_at=NOW()
		 WHERE id=$1`,
		p.ID, p.Name, p.IcdCode, p.Description, p.Status, p.ResolvedAt,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
