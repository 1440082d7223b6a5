package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// ExcursionRepo provides CRUD for excursion service records.
type ExcursionRepo struct {
	db *sql.DB
}

// NewExcursionRepo returns a new ExcursionRepo bound to the given database.
func NewExcursionRepo(db *sql.DB) *ExcursionRepo { return &ExcursionRepo{db: db} }

const excursionCols = `id, reservation_id, name, location, starts_at, ends_at, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanExcursion(scan func(dest ...interface{}) error) (*model.Excursion, error) {
	var e model.Excursion
	var location, provider, ref sql.NullString
	err := scan(&e.ID, &e.ReservationID, &e.Name, &location, &e.StartsAt, &e.EndsAt,
		&provider, &ref, &e.TotalPriceCents, &e.AmountPaidCents, &e.Currency,
		&e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	e.Location = nullStr(location)
	e.Provider = nullStr(provider)
	e.BookingReference = nullStr(ref)
	return &e, nil
}

// CreateTx inserts an excursion record within the caller's transaction.
func (r *ExcursionRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Excursion) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO excursions (reservation_id, name, location, starts_at, ends_at,
		                         provider, booking_reference, total_price_cents, amount_paid_cents, currency,
		                         created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ReservationID, e.Name, e.Location, e.StartsAt, e.EndsAt,
		e.Provider, e.BookingReference, e.TotalPriceCents, e.AmountPaidCents, e.Currency,
		e.CreatedBy, e.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanExcursion(tx.QueryRowContext(ctx,
		`SELECT `+excursionCols+` FROM excursions WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

// GetByID fetches an excursion record by id.
func (r *ExcursionRepo) GetByID(ctx context.Context, id uint64) (*model.Excursion, error) {
	return scanExcursion(r.db.QueryRowContext(ctx,
		`SELECT `+excursionCols+` FROM excursions WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's excursions ordered by start.
func (r *ExcursionRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Excursion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+excursionCols+` FROM excursions WHERE reservation_id = ? ORDER BY starts_at`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Excursion, 0)
	for rows.Next() {
		e, err := scanExcursion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, Translate(rows.Err())
}

// ExcursionUpdate carries the mutable excursion columns; nil leaves the
// persisted value untouched.  Currency is immutable.
type ExcursionUpdate struct {
	Name             *string
	Location         *string
	StartsAt         *time.Time
	EndsAt           *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *ExcursionRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd ExcursionUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "name", upd.Name)
	setStr(&sets, &args, "location", upd.Location)
	setTime(&sets, &args, "starts_at", upd.StartsAt)
	setTime(&sets, &args, "ends_at", upd.EndsAt)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE excursions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes an excursion record, capturing its last known amounts
// for the negative delta.
func (r *ExcursionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM excursions WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM excursions WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
