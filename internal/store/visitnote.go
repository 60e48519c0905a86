package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"medrecord-api/internal/model"
)

func (s *Store) CreateVisitNote(ctx context.Context, n *model.VisitNote) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO visit_notes (id, appointment_id, provider_id, patient_id, latest_version)
		 VALUES ($1,$2,$3,$4,0)`,
		n.ID, n.AppointmentID, n.ProviderID, n.PatientID,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) GetVisitNote(ctx context.Context, id string) (*model.VisitNote, error) {
	n := &model.VisitNote{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, appointment_id, provider_id, patient_id, latest_version, created_at
		 FROM visit_notes WHERE id = $1`, id,
	).Scan(&n.ID, &n.AppointmentID, &n.ProviderID, &n.PatientID, &n.LatestVersion, &n.CreatedAt)
	if err != nil {
		return nil, notFound(err, "visit note")
	}
	return n, nil
}

// GetVisitNoteByAppointment returns (nil, nil) when the appointment has no
// note yet.
func (s *Store) GetVisitNoteByAppointment(ctx context.Context, appointmentID string) (*model.VisitNote, error) {
	n := &model.VisitNote{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, appointment_id, provider_id, patient_id, latest_version, created_at
		 FROM visit_notes WHERE appointment_id = $1`, appointmentID,
	).Scan(&n.ID, &n.AppointmentID, &n.ProviderID, &n.PatientID, &n.LatestVersion, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return n, nil
}

// AppendVisitNoteEntry writes the next version of a note in one
// transaction: bump latest_version, insert the entry at that version.
// Entries are append-only; prior versions are never rewritten.
func (s *Store) AppendVisitNoteEntry(ctx context.Context, visitNoteID, content, editedByID string) (*model.VisitNoteEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	defer tx.Rollback(ctx)

	var version int
	err = tx.QueryRow(ctx,
		`UPDATE visit_notes SET latest_version = latest_version + 1
		 WHERE id = $1 RETURNING latest_version`, visitNoteID,
	).Scan(&version)
	if err != nil {
		return nil, notFound(err, "visit note")
	}

	e := &model.VisitNoteEntry{
		ID:          uuid.New().String(),
		VisitNoteID: visitNoteID,
		Version:     version,
		Content:     content,
		EditedByID:  editedByID,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO visit_note_entries (id, visit_note_id, version, content, edited_by_id)
		 VALUES ($1,$2,$3,$4,$5) RETURNING created_at`,
		e.ID, e.VisitNoteID, e.Version, e.Content, e.EditedByID,
	).Scan(&e.CreatedAt)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err)
	}
	return e, nil
}

func (s *Store) ListVisitNoteEntries(ctx context.Context, visitNoteID string) ([]model.VisitNoteEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, visit_note_id, version, content, edited_by_id, created_at
		 FROM visit_note_entries WHERE visit_note_id = $1 ORDER BY version`, visitNoteID,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []model.VisitNoteEntry
	for rows.Next() {
		var e model.VisitNoteEntry
		if err := rows.Scan(&e.ID, &e.VisitNoteID, &e.Version, &e.Content, &e.EditedByID, &e.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// GetLatestVisitNoteEntry returns (nil, nil) for a note with no entries.
func (s *Store) GetLatestVisitNoteEntry(ctx context.Context, visitNoteID string) (*model.VisitNoteEntry, error) {
	e := &model.VisitNoteEntry{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, visit_note_id, version, content, edited_by_id, created_at
		 FROM visit_note_entries WHERE visit_note_id = $1
		 ORDER BY version DESC LIMIT 1`, visitNoteID,
	).Scan(&e.ID, &e.VisitNoteID, &e.Version, &e.Content, &e.EditedByID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return e, nil
}
