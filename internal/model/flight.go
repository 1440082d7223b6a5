package model

import "time"

// Flight is an air-travel service record under a reservation.  Origin and
// destination must be distinct.
type Flight struct {
	ID               uint64    // flights.id
	ReservationID    uint64    // flights.reservation_id
	FlightNumber     *string   // flights.flight_number (nullable)
	Origin           string    // flights.origin
	Destination      string    // flights.destination
	DepartsAt        time.Time // flights.departs_at
	ArrivesAt        time.Time // flights.arrives_at
	Provider         *string   // flights.provider (nullable)
	BookingReference *string   // flights.booking_reference (nullable, unique)
	TotalPriceCents  int64     // flights.total_price_cents
	AmountPaidCents  int64     // flights.amount_paid_cents
	Currency         string    // flights.currency
	CreatedBy        uint64    // flights.created_by
	UpdatedBy        uint64    // flights.updated_by
	CreatedAt        time.Time // flights.created_at
	UpdatedAt        time.Time // flights.updated_at
}
