package model

import "time"

// Reservation lifecycle states.
const (
	ReservationDraft     = "DRAFT"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Reservation is the parent record every bookable service hangs from.  The
// running totals are a materialized aggregate over the child service rows,
// maintained incrementally by signed deltas inside the same transaction as
// each child write.  They are derived values, not a source of truth.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – owning user (tenant).
//  Status           – lifecycle state (DRAFT, CONFIRMED, CANCELLED, COMPLETED).
//  Notes            – free-form notes, optional.
//  TotalPriceCents  – running total over all child services, in cents.
//  AmountPaidCents  – running paid amount over all child services, in cents.
//  CreatedBy        – actor who created the reservation.
//  UpdatedBy        – actor of the last mutation, including child mutations.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Reservation struct {
	ID              uint64    // reservations.id
	UserID          uint64    // reservations.user_id
	Status          string    // reservations.status
	Notes           *string   // reservations.notes (nullable)
	TotalPriceCents int64     // reservations.total_price_cents
	AmountPaidCents int64     // reservations.amount_paid_cents
	CreatedBy       uint64    // reservations.created_by
	UpdatedBy       uint64    // reservations.updated_by
	CreatedAt       time.Time // reservations.created_at
	UpdatedAt       time.Time // reservations.updated_at
}

// ReservationCurrencyTotal is the per-currency flavour of the aggregate,
// one row per (reservation, currency).  Rows are created lazily on first
// adjustment and clamped to zero rather than allowed to go negative.
type ReservationCurrencyTotal struct {
	ReservationID   uint64    // reservation_currency_totals.reservation_id
	Currency        string    // reservation_currency_totals.currency
	TotalPriceCents int64     // reservation_currency_totals.total_price_cents
	AmountPaidCents int64     // reservation_currency_totals.amount_paid_cents
	UpdatedAt       time.Time // reservation_currency_totals.updated_at
}
