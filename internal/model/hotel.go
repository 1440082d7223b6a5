package model

import "time"

// Hotel is a lodging service record under a reservation.  Like every
// service record it carries its own (total, paid, currency) pair; the
// parent reservation's aggregate is adjusted by the delta of each mutation.
type Hotel struct {
	ID               uint64    // hotels.id
	ReservationID    uint64    // hotels.reservation_id
	Name             string    // hotels.name
	City             *string   // hotels.city (nullable)
	CheckIn          time.Time // hotels.check_in
	CheckOut         time.Time // hotels.check_out
	Provider         *string   // hotels.provider (nullable)
	BookingReference *string   // hotels.booking_reference (nullable, unique)
	TotalPriceCents  int64     // hotels.total_price_cents
	AmountPaidCents  int64     // hotels.amount_paid_cents
	Currency         string    // hotels.currency
	CreatedBy        uint64    // hotels.created_by
	UpdatedBy        uint64    // hotels.updated_by
	CreatedAt        time.Time // hotels.created_at
	UpdatedAt        time.Time // hotels.updated_at
}
