package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCheckPricePair(t *testing.T) {
	tests := []struct {
		name    string
		in      PricePairInput
		opts    PricePairOpts
		wantErr string
	}{
		{
			name: "paid below total",
			in:   PricePairInput{Total: strPtr("800.00"), Paid: strPtr("400.00")},
			opts: PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireBoth},
		},
		{
			name: "paid equals total",
			in:   PricePairInput{Total: strPtr("300"), Paid: strPtr("300")},
			opts: PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireBoth},
		},
		{
			name:    "paid exceeds total",
			in:      PricePairInput{Total: strPtr("100.00"), Paid: strPtr("100.01")},
			opts:    PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireBoth},
			wantErr: "amount_paid must not exceed total_price",
		},
		{
			name:    "comma decimal separator",
			in:      PricePairInput{Total: strPtr("149,90"), Paid: strPtr("200,00")},
			opts:    PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireBoth},
			wantErr: "amount_paid must not exceed total_price",
		},
		{
			name:    "missing paid with RequireBoth",
			in:      PricePairInput{Total: strPtr("100")},
			opts:    PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireBoth},
			wantErr: "is required",
		},
		{
			name: "new paid merged against persisted total",
			in: PricePairInput{
				Paid:         strPtr("900.00"),
				CurrentTotal: int64Ptr(80000),
				CurrentPaid:  int64Ptr(40000),
			},
			opts:    PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireNone},
			wantErr: "amount_paid must not exceed total_price",
		},
		{
			name: "new total merged against persisted paid",
			in: PricePairInput{
				Total:       strPtr("300.00"),
				CurrentPaid: int64Ptr(40000),
			},
			opts:    PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireNone},
			wantErr: "amount_paid must not exceed total_price",
		},
		{
			name: "absent pair passes with RequireNone",
			in:   PricePairInput{CurrentTotal: int64Ptr(80000), CurrentPaid: int64Ptr(40000)},
			opts: PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireNone},
		},
		{
			name:    "negative amount",
			in:      PricePairInput{Total: strPtr("-1"), Paid: strPtr("0")},
			opts:    PricePairOpts{TotalField: "total_price", PaidField: "amount_paid", Require: RequireBoth},
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPricePair(tt.in, tt.opts)
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
