package model

import "time"

// MedicalAssist is a travel-insurance service record under a reservation.
type MedicalAssist struct {
	ID               uint64    // medical_assists.id
	ReservationID    uint64    // medical_assists.reservation_id
	PolicyNumber     *string   // medical_assists.policy_number (nullable)
	CoverageStart    time.Time // medical_assists.coverage_start
	CoverageEnd      time.Time // medical_assists.coverage_end
	Provider         *string   // medical_assists.provider (nullable)
	BookingReference *string   // medical_assists.booking_reference (nullable, unique)
	TotalPriceCents  int64     // medical_assists.total_price_cents
	AmountPaidCents  int64     // medical_assists.amount_paid_cents
	Currency         string    // medical_assists.currency
	CreatedBy        uint64    // medical_assists.created_by
	UpdatedBy        uint64    // medical_assists.updated_by
	CreatedAt        time.Time // medical_assists.created_at
	UpdatedAt        time.Time // medical_assists.updated_at
}
