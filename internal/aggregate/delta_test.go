package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func TestOnCreateAddsFullAmounts(t *testing.T) {
	adj := OnCreate(Amounts{TotalCents: 80000, PaidCents: 40000, Currency: "USD"})
	assert.Equal(t, Adjustment{Currency: "USD", TotalDelta: 80000, PaidDelta: 40000}, adj)
}

func TestOnUpdateDeltas(t *testing.T) {
	old := Amounts{TotalCents: 80000, PaidCents: 40000, Currency: "USD"}

	tests := []struct {
		name     string
		newTotal *int64
		newPaid  *int64
		want     Adjustment
	}{
		{"both supplied", i64(90000), i64(50000), Adjustment{Currency: "USD", TotalDelta: 10000, PaidDelta: 10000}},
		{"only total", i64(70000), nil, Adjustment{Currency: "USD", TotalDelta: -10000}},
		{"only paid", nil, i64(80000), Adjustment{Currency: "USD", PaidDelta: 40000}},
		{"nothing supplied", nil, nil, Adjustment{Currency: "USD"}},
		{"unchanged values", i64(80000), i64(40000), Adjustment{Currency: "USD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnUpdate(old, tt.newTotal, tt.newPaid))
		})
	}
}

func TestOnDeleteNegates(t *testing.T) {
	adj := OnDelete(Amounts{TotalCents: 80000, PaidCents: 40000, Currency: "EUR"})
	assert.Equal(t, Adjustment{Currency: "EUR", TotalDelta: -80000, PaidDelta: -40000}, adj)
}

func TestLifecycleScenario(t *testing.T) {
	// Reservation with a hotel (800.00 total / 400.00 paid) and a flight
	// (300.00 / 300.00); deleting the hotel leaves the flight's amounts.
	agg := Amounts{Currency: "USD"}

	hotel := Amounts{TotalCents: 80000, PaidCents: 40000, Currency: "USD"}
	flight := Amounts{TotalCents: 30000, PaidCents: 30000, Currency: "USD"}

	agg = Apply(agg, OnCreate(hotel))
	agg = Apply(agg, OnCreate(flight))
	require.Equal(t, int64(110000), agg.TotalCents)
	require.Equal(t, int64(70000), agg.PaidCents)

	agg = Apply(agg, OnDelete(hotel))
	assert.Equal(t, int64(30000), agg.TotalCents)
	assert.Equal(t, int64(30000), agg.PaidCents)

	agg = Apply(agg, OnDelete(flight))
	assert.Zero(t, agg.TotalCents)
	assert.Zero(t, agg.PaidCents)
}

func TestCreateDeleteRoundTripIsZero(t *testing.T) {
	rec := Amounts{TotalCents: 12345, PaidCents: 678, Currency: "ARS"}
	agg := Apply(Apply(Amounts{Currency: "ARS"}, OnCreate(rec)), OnDelete(rec))
	assert.Zero(t, agg.TotalCents)
	assert.Zero(t, agg.PaidCents)
}

func TestApplyClamped(t *testing.T) {
	cur := Amounts{TotalCents: 1000, PaidCents: 500, Currency: "USD"}
	got := ApplyClamped(cur, Adjustment{Currency: "USD", TotalDelta: -2000, PaidDelta: -200})
	assert.Equal(t, int64(0), got.TotalCents)
	assert.Equal(t, int64(300), got.PaidCents)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Adjustment{Currency: "USD"}.IsZero())
	assert.False(t, Adjustment{TotalDelta: 1}.IsZero())
	assert.False(t, Adjustment{PaidDelta: -1}.IsZero())
}
