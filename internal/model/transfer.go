package model

import "time"

// Transfer is a ground-transfer service record under a reservation (airport
// pickup, hotel shuttle).  Pickup and dropoff must be distinct locations.
type Transfer struct {
	ID               uint64    // transfers.id
	ReservationID    uint64    // transfers.reservation_id
	PickupLocation   string    // transfers.pickup_location
	DropoffLocation  string    // transfers.dropoff_location
	PickupAt         time.Time // transfers.pickup_at
	Provider         *string   // transfers.provider (nullable)
	BookingReference *string   // transfers.booking_reference (nullable, unique)
	TotalPriceCents  int64     // transfers.total_price_cents
	AmountPaidCents  int64     // transfers.amount_paid_cents
	Currency         string    // transfers.currency
	CreatedBy        uint64    // transfers.created_by
	UpdatedBy        uint64    // transfers.updated_by
	CreatedAt        time.Time // transfers.created_at
	UpdatedAt        time.Time // transfers.updated_at
}
