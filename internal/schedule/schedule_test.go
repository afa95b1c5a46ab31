package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicdesk/clinic-api/internal/model"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
)

var now = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 5, day, hour, min, 0, 0, time.UTC)
}

func TestValidateSlot(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantCode string
	}{
		{"valid slot", at(12, 13, 0), at(12, 14, 0), ""},
		{"valid slot on quarter", at(12, 13, 45), at(12, 14, 15), ""},
		{"start in the past", at(12, 13, 0).AddDate(-1, 0, 0), at(12, 14, 0), apperrors.CodePastSlot},
		{"end equals start", at(12, 13, 0), at(12, 13, 0), apperrors.CodeInvertedInterval},
		{"end before start", at(12, 14, 0), at(12, 13, 0), apperrors.CodeInvertedInterval},
		{"misaligned start", at(12, 13, 5), at(12, 14, 0), apperrors.CodeMisalignedSlot},
		{"misaligned end", at(12, 13, 0), at(12, 14, 10), apperrors.CodeMisalignedSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlot(tt.start, tt.end, now)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v, want code %s", err, tt.wantCode)
		})
	}
}

func TestValidateSlotPastWinsOverAlignment(t *testing.T) {
	// A past slot is rejected as past even when it is also misaligned.
	err := ValidateSlot(now.Add(-time.Hour), now.Add(time.Hour), now)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePastSlot))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(12, 13, 0), at(12, 14, 0), at(12, 13, 0), at(12, 14, 0), true},
		{"partial overlap", at(12, 13, 0), at(12, 14, 0), at(12, 13, 30), at(12, 14, 30), true},
		{"contained", at(12, 13, 0), at(12, 15, 0), at(12, 13, 30), at(12, 14, 0), true},
		{"touching endpoints", at(12, 13, 0), at(12, 14, 0), at(12, 14, 0), at(12, 15, 0), false},
		{"disjoint", at(12, 13, 0), at(12, 14, 0), at(12, 15, 0), at(12, 16, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			// Overlap is symmetric in its two intervals.
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []*model.Visit{
		{StartTime: at(12, 13, 0), EndTime: at(12, 14, 0)},
		{StartTime: at(12, 16, 0), EndTime: at(12, 17, 0)},
	}

	assert.True(t, HasConflict(existing, at(12, 13, 30), at(12, 14, 30)))
	assert.True(t, HasConflict(existing, at(12, 16, 30), at(12, 16, 45)))
	assert.False(t, HasConflict(existing, at(12, 14, 0), at(12, 15, 0)))
	assert.False(t, HasConflict(nil, at(12, 13, 0), at(12, 14, 0)))
}
