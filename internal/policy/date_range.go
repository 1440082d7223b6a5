package policy

import (
	"fmt"
	"time"
)

// DateRangeInput carries the raw payload values of a date pair together
// with the persisted current values used as fallback on partial updates.
type DateRangeInput struct {
	Start *string
	End   *string

	CurrentStart *time.Time
	CurrentEnd   *time.Time
}

// DateRangeOpts configures the date-range assertion.
type DateRangeOpts struct {
	StartField string
	EndField   string
	Require    Presence
	// AllowEqual accepts start == end (single-day ranges).
	AllowEqual bool
	// MinHoursBeforeStart, when set, requires the start to be at least this
	// many hours after Now.  A zero minimum only requires the start not to
	// be in the past.
	MinHoursBeforeStart *int
	// Now overrides the reference clock for the advance check.  Zero means
	// wall-clock at call time.
	Now time.Time
}

// CheckDateRange asserts presence, validity and ordering of a date pair.
// Absent payload fields fall back to the persisted current values before the
// pair check runs, so a partial update that only changes the end is still
// validated against the effective pair.  The advance-notice check applies
// only when the payload itself carries a start value.
func CheckDateRange(in DateRangeInput, opts DateRangeOpts) error {
	if err := checkPresence(opts.Require, in.Start != nil, in.End != nil, opts.StartField, opts.EndField); err != nil {
		return err
	}

	start := in.CurrentStart
	if in.Start != nil {
		t, err := ParseDate(opts.StartField, *in.Start)
		if err != nil {
			return err
		}
		start = &t
	}
	end := in.CurrentEnd
	if in.End != nil {
		t, err := ParseDate(opts.EndField, *in.End)
		if err != nil {
			return err
		}
		end = &t
	}

	if start != nil && end != nil {
		if end.Before(*start) {
			return violation(fmt.Sprintf("%s must be after %s", opts.EndField, opts.StartField), opts.StartField, opts.EndField)
		}
		if !opts.AllowEqual && end.Equal(*start) {
			return violation(fmt.Sprintf("%s must be strictly after %s", opts.EndField, opts.StartField), opts.StartField, opts.EndField)
		}
	}

	if in.Start != nil && opts.MinHoursBeforeStart != nil {
		now := opts.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		min := *opts.MinHoursBeforeStart
		if min > 0 {
			earliest := now.Add(time.Duration(min) * time.Hour)
			if start.Before(earliest) {
				return violation(fmt.Sprintf("must be at least %d hours in the future", min), opts.StartField)
			}
		} else if start.Before(now) {
			return violation("must not be in the past", opts.StartField)
		}
	}
	return nil
}

// Hours is a convenience for setting DateRangeOpts.MinHoursBeforeStart.
func Hours(n int) *int { return &n }
