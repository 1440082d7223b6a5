package model

import "time"

// Excursion is a guided-activity service record under a reservation.
// Single-day excursions may start and end on the same instant, so the date
// range allows equality.
type Excursion struct {
	ID               uint64    // excursions.id
	ReservationID    uint64    // excursions.reservation_id
	Name             string    // excursions.name
	Location         *string   // excursions.location (nullable)
	StartsAt         time.Time // excursions.starts_at
	EndsAt           time.Time // excursions.ends_at
	Provider         *string   // excursions.provider (nullable)
	BookingReference *string   // excursions.booking_reference (nullable, unique)
	TotalPriceCents  int64     // excursions.total_price_cents
	AmountPaidCents  int64     // excursions.amount_paid_cents
	Currency         string    // excursions.currency
	CreatedBy        uint64    // excursions.created_by
	UpdatedBy        uint64    // excursions.updated_by
	CreatedAt        time.Time // excursions.created_at
	UpdatedAt        time.Time // excursions.updated_at
}
