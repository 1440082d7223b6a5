package policy

import (
	"fmt"
	"strings"
)

// DistinctInput carries two raw payload strings with the persisted current
// values used as fallback on partial updates.
type DistinctInput struct {
	A *string
	B *string

	CurrentA *string
	CurrentB *string
}

// DistinctOpts configures the distinctness assertion.
type DistinctOpts struct {
	AField  string
	BField  string
	Require Presence
	// AllowEqual disables the distinctness check, leaving only presence and
	// non-emptiness (round trips where origin and destination coincide).
	AllowEqual bool
	Trim       bool
	IgnoreCase bool
}

// CheckDistinct asserts that two location-like values are present per the
// mode, non-empty, and distinct after normalization.  Absent payload fields
// fall back to the persisted current values, so updating only one side is
// still validated against the effective pair.
func CheckDistinct(in DistinctInput, opts DistinctOpts) error {
	if err := checkPresence(opts.Require, in.A != nil, in.B != nil, opts.AField, opts.BField); err != nil {
		return err
	}

	normalize := func(s string) string {
		if opts.Trim {
			s = strings.TrimSpace(s)
		}
		if opts.IgnoreCase {
			s = strings.ToLower(s)
		}
		return s
	}

	var a, b *string
	if in.A != nil {
		v := normalize(*in.A)
		if v == "" {
			return violation("must not be empty", opts.AField)
		}
		a = &v
	} else if in.CurrentA != nil {
		v := normalize(*in.CurrentA)
		a = &v
	}
	if in.B != nil {
		v := normalize(*in.B)
		if v == "" {
			return violation("must not be empty", opts.BField)
		}
		b = &v
	} else if in.CurrentB != nil {
		v := normalize(*in.CurrentB)
		b = &v
	}

	if !opts.AllowEqual && a != nil && b != nil && *a == *b {
		return violation(fmt.Sprintf("%s and %s must differ", opts.AField, opts.BField), opts.AField, opts.BField)
	}
	return nil
}
