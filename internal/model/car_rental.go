package model

import "time"

// CarRental is a vehicle-rental service record under a reservation.  Unlike
// transfers, pickup and dropoff locations may coincide (round trips).
type CarRental struct {
	ID               uint64    // car_rentals.id
	ReservationID    uint64    // car_rentals.reservation_id
	Vehicle          *string   // car_rentals.vehicle (nullable)
	PickupLocation   string    // car_rentals.pickup_location
	DropoffLocation  string    // car_rentals.dropoff_location
	PickupAt         time.Time // car_rentals.pickup_at
	DropoffAt        time.Time // car_rentals.dropoff_at
	Provider         *string   // car_rentals.provider (nullable)
	BookingReference *string   // car_rentals.booking_reference (nullable, unique)
	TotalPriceCents  int64     // car_rentals.total_price_cents
	AmountPaidCents  int64     // car_rentals.amount_paid_cents
	Currency         string    // car_rentals.currency
	CreatedBy        uint64    // car_rentals.created_by
	UpdatedBy        uint64    // car_rentals.updated_by
	CreatedAt        time.Time // car_rentals.created_at
	UpdatedAt        time.Time // car_rentals.updated_at
}
