package store

import (
	"context"

	"medrecord-api/internal/model"
)

const vitalCols = `id, appointment_id, patient_id, provider_id, heart_rate,
	bp_systolic, bp_diastolic, temperature, weight, oxygen_saturation, created_at, updated_at`

func (s *Store) CreateVital(ctx context.Context, v *model.Vital) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO vitals (id, appointment_id, patient_id, provider_id, heart_rate,
		   bp_systolic, bp_diastolic, temperature, weight, oxygen_saturation)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		v.ID, v.AppointmentID, v.PatientID, v.ProviderID, v.HeartRate,
		v.BloodPressureSystolic, v.BloodPressureDiastolic, v.Temperature, v.Weight, v.OxygenSaturation,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetVital(ctx context.Context, id string) (*model.Vital, error) {
	v := &model.Vital{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+vitalCols+` FROM vitals WHERE id = $1`, id,
	).Scan(&v.ID, &v.AppointmentID, &v.PatientID, &v.ProviderID, &v.HeartRate,
		&v.BloodPressureSystolic, &v.BloodPressureDiastolic, &v.Temperature, &v.Weight,
		&v.OxygenSaturation, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "vital record")
	}
	return v, nil
}

func (s *Store) ListVitalsByAppointment(ctx context.Context, appointmentID string) ([]model.Vital, error) {
	return s.listVitals(ctx,
		`SELECT `+vitalCols+` FROM vitals WHERE appointment_id = $1 ORDER BY created_at`, appointmentID)
}

func (s *Store) ListVitalsByPatient(ctx context.Context, patientID string) ([]model.Vital, error) {
	return s.listVitals(ctx,
		`SELECT `+vitalCols+` FROM vitals WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
}

func (s *Store) listVitals(ctx context.Context, q string, arg any) ([]model.Vital, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []model.Vital
	for rows.Next() {
		var v model.Vital
		if err := rows.Scan(&v.ID, &v.AppointmentID, &v.PatientID, &v.ProviderID, &v.HeartRate,
			&v.BloodPressureSystolic, &v.BloodPressureDiastolic, &v.Temperature, &v.Weight,
			&v.OxygenSaturation, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (s *Store) UpdateVital(ctx context.Context, v *model.Vital) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE vitals
		 SET heart_rate=$2, bp_systolic=$3, bp_diastolic=$4, temperature=$5, weight=$6,
		     oxygen_saturation=$7, updated_at=NOW()
		 WHERE id=$1`,
		v.ID, v.HeartRate, v.BloodPressureSystolic, v.BloodPressureDiastolic,
		v.Temperature, v.Weight, v.OxygenSaturation,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) DeleteVital(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM vitals WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	return nil
}
