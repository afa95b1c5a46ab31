// Package schedule holds the pure scheduling rules: which (start, end) pairs
// are admissible clinic slots, and when two slots collide on a doctor's calendar.
package schedule

import (
	"time"

	"github.com/clinicdesk/clinic-api/internal/model"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

// SlotGranularityMinutes is the clinic's slot alignment. Start and end
// minutes must fall on :00, :15, :30 or :45.
const SlotGranularityMinutes = 15

// ValidateSlot checks a proposed interval against the clinic scheduling rules.
// now is injected so the check is reproducible.
func ValidateSlot(start, end, now time.Time) error {
	if start.Before(now) {
		return apperrors.Validation(apperrors.CodePastSlot, "visits cannot be scheduled in the past")
	}
	if !end.After(start) {
		return apperrors.Validation(apperrors.CodeInvertedInterval, "end time must be after start time")
	}
	if start.Minute()%SlotGranularityMinutes != 0 || end.Minute()%SlotGranularityMinutes != 0 {
		return apperrors.Validation(apperrors.CodeMisalignedSlot,
			"visit times must fall on %d-minute boundaries (00, 15, 30, 45)", SlotGranularityMinutes)
	}
	return nil
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Intervals that merely touch at an endpoint do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// HasConflict reports whether the proposed interval overlaps any existing visit.
func HasConflict(existing []*model.Visit, start, end time.Time) bool {
	for _, v := range existing {
		if Overlaps(v.StartTime, v.EndTime, start, end) {
			return true
		}
	}
	return false
}
