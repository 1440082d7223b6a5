package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// MedicalAssistRepo provides CRUD for medical-assist service records.
type MedicalAssistRepo struct {
	db *sql.DB
}

// NewMedicalAssistRepo returns a new MedicalAssistRepo bound to the given database.
func NewMedicalAssistRepo(db *sql.DB) *MedicalAssistRepo { return &MedicalAssistRepo{db: db} }

const medicalAssistCols = `id, reservation_id, policy_number, coverage_start, coverage_end, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanMedicalAssist(scan func(dest ...interface{}) error) (*model.MedicalAssist, error) {
	var m model.MedicalAssist
	var policy, provider, ref sql.NullString
	err := scan(&m.ID, &m.ReservationID, &policy, &m.CoverageStart, &m.CoverageEnd,
		&provider, &ref, &m.TotalPriceCents, &m.AmountPaidCents, &m.Currency,
		&m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	m.PolicyNumber = nullStr(policy)
	m.Provider = nullStr(provider)
	m.BookingReference = nullStr(ref)
	return &m, nil
}

// CreateTx inserts a medical-assist record within the caller's transaction.
func (r *MedicalAssistRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.MedicalAssist) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO medical_assists (reservation_id, policy_number, coverage_start, coverage_end,
		                              provider, booking_reference, total_price_cents, amount_paid_cents, currency,
		                              created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ReservationID, m.PolicyNumber, m.CoverageStart, m.CoverageEnd,
		m.Provider, m.BookingReference, m.TotalPriceCents, m.AmountPaidCents, m.Currency,
		m.CreatedBy, m.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanMedicalAssist(tx.QueryRowContext(ctx,
		`SELECT `+medicalAssistCols+` FROM medical_assists WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*m = *stored
	return nil
}

// GetByID fetches a medical-assist record by id.
func (r *MedicalAssistRepo) GetByID(ctx context.Context, id uint64) (*model.MedicalAssist, error) {
	return scanMedicalAssist(r.db.QueryRowContext(ctx,
		`SELECT `+medicalAssistCols+` FROM medical_assists WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's medical assists ordered by
// coverage start.
func (r *MedicalAssistRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.MedicalAssist, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+medicalAssistCols+` FROM medical_assists WHERE reservation_id = ? ORDER BY coverage_start`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.MedicalAssist, 0)
	for rows.Next() {
		m, err := scanMedicalAssist(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, Translate(rows.Err())
}

// MedicalAssistUpdate carries the mutable medical-assist columns; nil
// leaves the persisted value untouched.  Currency is immutable.
type MedicalAssistUpdate struct {
	PolicyNumber     *string
	CoverageStart    *time.Time
	CoverageEnd      *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *MedicalAssistRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd MedicalAssistUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "policy_number", upd.PolicyNumber)
	setTime(&sets, &args, "coverage_start", upd.CoverageStart)
	setTime(&sets, &args, "coverage_end", upd.CoverageEnd)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE medical_assists SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a medical-assist record, capturing its last known
// amounts for the negative delta.
func (r *MedicalAssistRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM medical_assists WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM medical_assists WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
