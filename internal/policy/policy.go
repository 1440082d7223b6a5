// Package policy implements the stateless validation rules asserted against
// create and update payloads before any persistence occurs.  Policies never
// touch storage: they receive the raw payload values plus, for partial
// updates, the persisted current values to merge against.  A failed
// assertion is reported as a *Violation so handlers can answer with a
// client error without opening a transaction.
package policy

import (
	"errors"
	"strings"
)

// Presence controls which of a value pair must be supplied in the payload.
type Presence int

const (
	// RequireNone performs no presence check.  Used on partial updates,
	// where absent fields fall back to the persisted values.
	RequireNone Presence = iota
	// RequireAny requires at least one of the pair to be supplied.
	RequireAny
	// RequireBoth requires both values to be supplied.
	RequireBoth
)

// Violation describes a failed policy assertion.  Fields names the offending
// payload fields so clients can highlight them.
type Violation struct {
	Fields []string
	Reason string
}

func (v *Violation) Error() string {
	if len(v.Fields) == 0 {
		return v.Reason
	}
	return strings.Join(v.Fields, ", ") + ": " + v.Reason
}

func violation(reason string, fields ...string) *Violation {
	return &Violation{Fields: fields, Reason: reason}
}

// IsViolation reports whether err is (or wraps) a policy violation.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

// checkPresence asserts the presence mode over two raw payload values.
func checkPresence(require Presence, aSet, bSet bool, aField, bField string) error {
	switch require {
	case RequireBoth:
		if !aSet && !bSet {
			return violation("both are required", aField, bField)
		}
		if !aSet {
			return violation("is required", aField)
		}
		if !bSet {
			return violation("is required", bField)
		}
	case RequireAny:
		if !aSet && !bSet {
			return violation("at least one is required", aField, bField)
		}
	}
	return nil
}
