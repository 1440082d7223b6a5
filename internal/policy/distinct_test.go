package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDistinct(t *testing.T) {
	base := DistinctOpts{
		AField:     "origin",
		BField:     "destination",
		Require:    RequireBoth,
		Trim:       true,
		IgnoreCase: true,
	}

	tests := []struct {
		name    string
		in      DistinctInput
		opts    DistinctOpts
		wantErr string
	}{
		{
			name: "distinct values",
			in:   DistinctInput{A: strPtr("EZE"), B: strPtr("MAD")},
			opts: base,
		},
		{
			name:    "equal values",
			in:      DistinctInput{A: strPtr("EZE"), B: strPtr("EZE")},
			opts:    base,
			wantErr: "origin and destination must differ",
		},
		{
			name:    "equal after trim and case folding",
			in:      DistinctInput{A: strPtr(" eze "), B: strPtr("EZE")},
			opts:    base,
			wantErr: "origin and destination must differ",
		},
		{
			name:    "empty after trim",
			in:      DistinctInput{A: strPtr("   "), B: strPtr("MAD")},
			opts:    base,
			wantErr: "must not be empty",
		},
		{
			name:    "missing side with RequireBoth",
			in:      DistinctInput{A: strPtr("EZE")},
			opts:    base,
			wantErr: "is required",
		},
		{
			name: "equal allowed for round trips",
			in:   DistinctInput{A: strPtr("Airport"), B: strPtr("Airport")},
			opts: DistinctOpts{AField: "pickup_location", BField: "dropoff_location", Require: RequireBoth, AllowEqual: true, Trim: true},
		},
		{
			name: "new value checked against persisted counterpart",
			in: DistinctInput{
				B:        strPtr("eze"),
				CurrentA: strPtr("EZE"),
				CurrentB: strPtr("MAD"),
			},
			opts:    DistinctOpts{AField: "origin", BField: "destination", Require: RequireNone, Trim: true, IgnoreCase: true},
			wantErr: "origin and destination must differ",
		},
		{
			name: "absent pair passes with RequireNone",
			in:   DistinctInput{CurrentA: strPtr("EZE"), CurrentB: strPtr("MAD")},
			opts: DistinctOpts{AField: "origin", BField: "destination", Require: RequireNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDistinct(tt.in, tt.opts)
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
