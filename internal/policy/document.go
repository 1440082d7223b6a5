package policy

import "strings"

// DocumentsInput carries the identity-document fields of a pax payload.
type DocumentsInput struct {
	PassportNumber *string
	PassportExpiry *string
	DNINumber      *string
	DNIExpiry      *string
}

func set(p *string) bool { return p != nil && strings.TrimSpace(*p) != "" }

// checkDocumentPair enforces the pairing rule for a single document type:
// an expiration without its number is always invalid, while a number without
// an expiration is accepted.  Present expirations must parse as dates.
func checkDocumentPair(number, expiry *string, numberField, expiryField string) error {
	if set(expiry) {
		if !set(number) {
			return violation("requires "+numberField, expiryField)
		}
		if _, err := ParseDate(expiryField, *expiry); err != nil {
			return err
		}
	}
	return nil
}

// CheckDocumentsCreate validates the documents of a pax being created: at
// least one of passport or DNI number must be supplied, and each document
// obeys the pairing rule.
func CheckDocumentsCreate(in DocumentsInput) error {
	if !set(in.PassportNumber) && !set(in.DNINumber) {
		return violation("at least one document is required", "passport_number", "dni_number")
	}
	return checkDocumentPairs(in)
}

// CheckDocumentsUpdate validates partial document changes on an existing
// pax.  The "at least one document" rule was satisfied at creation and is
// not re-checked; the pairing rule still applies to whatever the payload
// carries.
func CheckDocumentsUpdate(in DocumentsInput) error {
	return checkDocumentPairs(in)
}

func checkDocumentPairs(in DocumentsInput) error {
	if err := checkDocumentPair(in.PassportNumber, in.PassportExpiry, "passport_number", "passport_expiry"); err != nil {
		return err
	}
	return checkDocumentPair(in.DNINumber, in.DNIExpiry, "dni_number", "dni_expiry")
}
