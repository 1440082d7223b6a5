// Package aggregate computes the signed deltas applied to a reservation's
// running totals when a child service record is created, updated or deleted.
// The reservation aggregate is maintained incrementally, never recomputed on
// the write path, so every mutation must translate into exactly one delta.
package aggregate

// Amounts is the monetary pair carried by every service record, in integer
// minor units (cents).
type Amounts struct {
	TotalCents int64
	PaidCents  int64
	Currency   string
}

// Adjustment is the signed delta applied to a reservation's aggregate for a
// single currency.
type Adjustment struct {
	Currency   string
	TotalDelta int64
	PaidDelta  int64
}

// IsZero reports whether applying the adjustment would not change amounts.
// A zero adjustment still counts as a touch on the parent reservation.
func (a Adjustment) IsZero() bool { return a.TotalDelta == 0 && a.PaidDelta == 0 }

// OnCreate returns the delta for inserting a new service record: the full
// amounts, positive.
func OnCreate(rec Amounts) Adjustment {
	return Adjustment{Currency: rec.Currency, TotalDelta: rec.TotalCents, PaidDelta: rec.PaidCents}
}

// OnUpdate returns the delta between the persisted amounts and the new
// values.  A nil new value means the field was not supplied and contributes
// a zero delta.
func OnUpdate(old Amounts, newTotal, newPaid *int64) Adjustment {
	adj := Adjustment{Currency: old.Currency}
	if newTotal != nil {
		adj.TotalDelta = *newTotal - old.TotalCents
	}
	if newPaid != nil {
		adj.PaidDelta = *newPaid - old.PaidCents
	}
	return adj
}

// OnDelete returns the delta for removing a service record: the negation of
// its last known amounts.
func OnDelete(rec Amounts) Adjustment {
	return Adjustment{Currency: rec.Currency, TotalDelta: -rec.TotalCents, PaidDelta: -rec.PaidCents}
}

// Apply returns the amounts after adding the adjustment.
func Apply(cur Amounts, adj Adjustment) Amounts {
	cur.TotalCents += adj.TotalDelta
	cur.PaidCents += adj.PaidDelta
	return cur
}

// ApplyClamped applies the adjustment and clamps negative results to zero.
// Mirrors the storage-side clamp on the per-currency totals: a safety net
// against drift from a mis-applied delta, not an accounting reconciliation.
func ApplyClamped(cur Amounts, adj Adjustment) Amounts {
	cur = Apply(cur, adj)
	if cur.TotalCents < 0 {
		cur.TotalCents = 0
	}
	if cur.PaidCents < 0 {
		cur.PaidCents = 0
	}
	return cur
}
