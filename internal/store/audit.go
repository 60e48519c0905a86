package store

import (
	"context"

	"medrecord-api/internal/model"
)

func (s *Store) InsertAuditLog(ctx context.Context, entry *model.AuditLog) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, user_id, user_role, action, entity, entity_id, details)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, entry.UserID, entry.UserRole, entry.Action, entry.Entity, entry.EntityID, entry.Details,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, entity, entityID string, page, limit int) ([]model.AuditLog, int, error) {
	var total int
	countQ := `SELECT COUNT(*) FROM audit_logs`
	listQ := `SELECT id, user_id, user_role, action, entity, entity_id, details, created_at FROM audit_logs`
	args := []any{}
	if entity != "" {
		countQ += ` WHERE entity = $1 AND entity_id = $2`
		listQ += ` WHERE entity = $1 AND entity_id = $2`
		args = append(args, entity, entityID)
	}
	if err := s.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, storeErr(err)
	}

	offset := (page - 1) * limit
	listQ += ` ORDER BY created_at DESC`
	if entity != "" {
		listQ += ` LIMIT $3 OFFSET $4`
	} else {
		listQ += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, listQ, args...)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	var out []model.AuditLog
	for rows.Next() {
		var a model.AuditLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserRole, &a.Action, &a.Entity, &a.EntityID, &a.Details, &a.CreatedAt); err != nil {
			return nil, 0, storeErr(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr(err)
	}
	return out, total, nil
}
