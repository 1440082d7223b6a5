package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDocumentsCreate(t *testing.T) {
	tests := []struct {
		name    string
		in      DocumentsInput
		wantErr string
	}{
		{
			name: "passport only",
			in:   DocumentsInput{PassportNumber: strPtr("AA1234567")},
		},
		{
			name: "dni only",
			in:   DocumentsInput{DNINumber: strPtr("30123456")},
		},
		{
			name: "both documents with expirations",
			in: DocumentsInput{
				PassportNumber: strPtr("AA1234567"),
				PassportExpiry: strPtr("2030-01-01"),
				DNINumber:      strPtr("30123456"),
				DNIExpiry:      strPtr("2031-06-15"),
			},
		},
		{
			name:    "no documents",
			in:      DocumentsInput{},
			wantErr: "at least one document is required",
		},
		{
			name:    "blank number counts as absent",
			in:      DocumentsInput{PassportNumber: strPtr("   ")},
			wantErr: "at least one document is required",
		},
		{
			name: "expiry without its number",
			in: DocumentsInput{
				PassportNumber: strPtr("AA1234567"),
				DNIExpiry:      strPtr("2031-06-15"),
			},
			wantErr: "dni_expiry: requires dni_number",
		},
		{
			name: "unparseable expiry",
			in: DocumentsInput{
				PassportNumber: strPtr("AA1234567"),
				PassportExpiry: strPtr("eventually"),
			},
			wantErr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDocumentsCreate(tt.in)
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

func TestCheckDocumentsUpdate(t *testing.T) {
	// The at-least-one rule is a creation rule only.
	assert.NoError(t, CheckDocumentsUpdate(DocumentsInput{}))

	err := CheckDocumentsUpdate(DocumentsInput{PassportExpiry: strPtr("2030-01-01")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passport_expiry: requires passport_number")

	assert.NoError(t, CheckDocumentsUpdate(DocumentsInput{
		PassportNumber: strPtr("AA1234567"),
		PassportExpiry: strPtr("2030-01-01"),
	}))
}
