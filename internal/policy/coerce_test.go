package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"rfc3339", "2026-09-01T15:30:00Z", time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC), true},
		{"rfc3339 with offset", "2026-09-01T12:30:00-03:00", time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC), true},
		{"bare datetime", "2026-09-01T15:30:00", time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC), true},
		{"space datetime", "2026-09-01 15:30:00", time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC), true},
		{"date only", "2026-09-01", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"surrounding whitespace", "  2026-09-01  ", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
		{"wrong order", "01-09-2026", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate("field", tt.raw)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, IsViolation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
		ok   bool
	}{
		{"integer", "100", 10000, true},
		{"dot decimal", "149.90", 14990, true},
		{"comma decimal", "149,90", 14990, true},
		{"zero", "0", 0, true},
		{"one cent", "0.01", 1, true},
		{"sub-cent rounds", "19.999", 2000, true},
		{"whitespace tolerated", " 42.50 ", 4250, true},
		{"empty", "", 0, false},
		{"both separators", "1.234,56", 0, false},
		{"two commas", "1,234,56", 0, false},
		{"negative", "-5", 0, false},
		{"not a number", "abc", 0, false},
		{"infinity", "Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount("field", tt.raw)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, IsViolation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestViolationError(t *testing.T) {
	err := violation("must differ", "origin", "destination")
	assert.Equal(t, "origin, destination: must differ", err.Error())
	assert.Equal(t, "plain reason", violation("plain reason").Error())
}
