package model

import "time"

// Cruise is a cruise service record under a reservation.  Departure and
// arrival ports must be distinct.
type Cruise struct {
	ID               uint64    // cruises.id
	ReservationID    uint64    // cruises.reservation_id
	Ship             string    // cruises.ship
	DeparturePort    string    // cruises.departure_port
	ArrivalPort      string    // cruises.arrival_port
	DepartsAt        time.Time // cruises.departs_at
	ReturnsAt        time.Time // cruises.returns_at
	Provider         *string   // cruises.provider (nullable)
	BookingReference *string   // cruises.booking_reference (nullable, unique)
	TotalPriceCents  int64     // cruises.total_price_cents
	AmountPaidCents  int64     // cruises.amount_paid_cents
	Currency         string    // cruises.currency
	CreatedBy        uint64    // cruises.created_by
	UpdatedBy        uint64    // cruises.updated_by
	CreatedAt        time.Time // cruises.created_at
	UpdatedAt        time.Time // cruises.updated_at
}
