package model

import "time"

// Pax is a passenger attached to a reservation.  A pax must carry at least
// one identity document (passport or DNI) at creation; a document number may
// exist without an expiration, but never the other way around.
type Pax struct {
	ID             uint64     // pax.id
	ReservationID  uint64     // pax.reservation_id
	FirstName      string     // pax.first_name
	LastName       string     // pax.last_name
	BirthDate      *time.Time // pax.birth_date (nullable)
	PassportNumber *string    // pax.passport_number (nullable)
	PassportExpiry *time.Time // pax.passport_expiry (nullable)
	DNINumber      *string    // pax.dni_number (nullable)
	DNIExpiry      *time.Time // pax.dni_expiry (nullable)
	CreatedBy      uint64     // pax.created_by
	UpdatedBy      uint64     // pax.updated_by
	CreatedAt      time.Time  // pax.created_at
	UpdatedAt      time.Time  // pax.updated_at
}
