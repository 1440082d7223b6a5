package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestCheckDateRange(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      DateRangeInput
		opts    DateRangeOpts
		wantErr string
	}{
		{
			name: "valid ordered pair",
			in:   DateRangeInput{Start: strPtr("2026-09-01"), End: strPtr("2026-09-05")},
			opts: DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireBoth},
		},
		{
			name:    "end before start",
			in:      DateRangeInput{Start: strPtr("2026-09-05"), End: strPtr("2026-09-01")},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireBoth},
			wantErr: "check_out must be after check_in",
		},
		{
			name:    "equal rejected by default",
			in:      DateRangeInput{Start: strPtr("2026-09-01"), End: strPtr("2026-09-01")},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireBoth},
			wantErr: "check_out must be strictly after check_in",
		},
		{
			name: "equal accepted with AllowEqual",
			in:   DateRangeInput{Start: strPtr("2026-09-01"), End: strPtr("2026-09-01")},
			opts: DateRangeOpts{StartField: "starts_at", EndField: "ends_at", Require: RequireBoth, AllowEqual: true},
		},
		{
			name:    "missing end with RequireBoth",
			in:      DateRangeInput{Start: strPtr("2026-09-01")},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireBoth},
			wantErr: "is required",
		},
		{
			name:    "both missing with RequireBoth",
			in:      DateRangeInput{},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireBoth},
			wantErr: "both are required",
		},
		{
			name: "absent pair passes with RequireNone",
			in:   DateRangeInput{},
			opts: DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireNone},
		},
		{
			name: "new end validated against persisted start",
			in: DateRangeInput{
				End:          strPtr("2026-08-20"),
				CurrentStart: timePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)),
				CurrentEnd:   timePtr(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)),
			},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireNone},
			wantErr: "check_out must be after check_in",
		},
		{
			name: "new start validated against persisted end",
			in: DateRangeInput{
				Start:      strPtr("2026-09-10"),
				CurrentEnd: timePtr(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)),
			},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireNone},
			wantErr: "check_out must be after check_in",
		},
		{
			name:    "unparseable date",
			in:      DateRangeInput{Start: strPtr("not-a-date"), End: strPtr("2026-09-05")},
			opts:    DateRangeOpts{StartField: "check_in", EndField: "check_out", Require: RequireBoth},
			wantErr: "invalid date",
		},
		{
			name: "advance notice satisfied",
			in:   DateRangeInput{Start: strPtr("2026-08-03T12:00:00Z"), End: strPtr("2026-08-04T12:00:00Z")},
			opts: DateRangeOpts{StartField: "departs_at", EndField: "arrives_at", Require: RequireBoth, MinHoursBeforeStart: Hours(48), Now: now},
		},
		{
			name:    "advance notice violated",
			in:      DateRangeInput{Start: strPtr("2026-08-02T12:00:00Z"), End: strPtr("2026-08-04T12:00:00Z")},
			opts:    DateRangeOpts{StartField: "departs_at", EndField: "arrives_at", Require: RequireBoth, MinHoursBeforeStart: Hours(48), Now: now},
			wantErr: "must be at least 48 hours in the future",
		},
		{
			name:    "zero minimum still rejects the past",
			in:      DateRangeInput{Start: strPtr("2026-07-01T00:00:00Z"), End: strPtr("2026-09-01T00:00:00Z")},
			opts:    DateRangeOpts{StartField: "departs_at", EndField: "arrives_at", Require: RequireBoth, MinHoursBeforeStart: Hours(0), Now: now},
			wantErr: "must not be in the past",
		},
		{
			name: "advance check skipped when payload has no start",
			in: DateRangeInput{
				End:          strPtr("2026-09-05"),
				CurrentStart: timePtr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
			},
			opts: DateRangeOpts{StartField: "departs_at", EndField: "arrives_at", Require: RequireNone, MinHoursBeforeStart: Hours(48), Now: now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDateRange(tt.in, tt.opts)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsViolation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
