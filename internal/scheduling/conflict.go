package scheduling

import (
	"context"
	"fmt"
	"time"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/model"
)

// AppointmentFinder is the slice of the appointment store the checker
// needs. FindOverlapping returns the first SCHEDULED appointment for the
// provider whose [start, end) interval overlaps the given one, skipping
// excludeID when non-empty; (nil, nil) means no overlap.
type AppointmentFinder interface {
	FindOverlapping(ctx context.Context, providerID string, start, end time.Time, excludeID string) (*model.Appointment, error)
}

// Checker rejects bookings whose interval overlaps an active appointment
// for the same provider. The overlap rule is half-open: [s1,e1) and
// [s2,e2) conflict iff s1 < e2 && s2 < e1, so back-to-back appointments
// never conflict.
type Checker struct {
	appts AppointmentFinder
}

func NewChecker(appts AppointmentFinder) *Checker {
	return &Checker{appts: appts}
}

// CheckConflict is the fast-path, user-facing check. The database
// exclusion constraint remains the authority under concurrent bookings;
// a violation there maps to the same conflict error.
func (c *Checker) CheckConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) error {
	other, err := c.appts.FindOverlapping(ctx, providerID, start, end, excludeID)
	if err != nil {
		return err
	}
	if other == nil {
		return nil
	}
	return ConflictError(other)
}

// ConflictError builds the scheduling-conflict error carrying the
// conflicting appointment's reference, so callers can report which booking
// is in the way.
func ConflictError(other *model.Appointment) error {
	return apperr.New(apperr.SchedulingConflict, fmt.Sprintf(
		"time conflicts with appointment %s (%s - %s)",
		other.ID,
		other.StartTime.Format(time.RFC3339),
		other.EndTime.Format(time.RFC3339),
	))
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
