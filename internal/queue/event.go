// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation transitions to
// CONFIRMED.  It carries enough context for downstream consumers (email,
// analytics) without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID   uint64           `json:"reservation_id"`
	UserID          uint64           `json:"user_id"`
	ConfirmedBy     uint64           `json:"confirmed_by"`
	Status          string           `json:"status"`
	TotalPriceCents int64            `json:"total_price_cents"`
	AmountPaidCents int64            `json:"amount_paid_cents"`
	CurrencyTotals  map[string]int64 `json:"currency_totals,omitempty"`
	ConfirmedAt     string           `json:"confirmed_at"`
}

// PasswordResetRequestedEvent is published on forgot-password so a mailer
// consumer can deliver the reset token out of band.
type PasswordResetRequestedEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	ResetToken  string `json:"reset_token"`
	RequestedAt string `json:"requested_at"`
}
