// Package audit records who did what to which record. Writes are
// best effort: a failed audit insert is logged and never surfaces to
// the caller, so clinical operations do not fail on audit problems.
package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"medrecord-api/internal/model"
)

type Sink interface {
	InsertAuditLog(ctx context.Context, entry *model.AuditLog) error
}

type Recorder struct {
	sink Sink
	log  zerolog.Logger
}

func NewRecorder(sink Sink, log zerolog.Logger) *Recorder {
	return &Recorder{sink: sink, log: log}
}

// Record writes an audit entry. details may be nil; anything else is
// JSON encoded. Errors are swallowed after logging.
func (r *Recorder) Record(ctx context.Context, userID string, role model.Role, action, entity, entityID string, details any) {
	entry := &model.AuditLog{
		ID:       uuid.NewString(),
		UserID:   userID,
		UserRole: role,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			r.log.Error().Err(err).Str("action", action).Msg("audit details not serializable")
		} else {
			entry.Details = b
		}
	}
	if err := r.sink.InsertAuditLog(ctx, entry); err != nil {
		r.log.Error().Err(err).
			Str("action", action).
			Str("entity", entity).
			Str("entityId", entityID).
			Msg("audit write failed")
	}
}
