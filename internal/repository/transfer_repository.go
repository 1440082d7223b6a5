package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// TransferRepo provides CRUD for ground-transfer service records.
type TransferRepo struct {
	db *sql.DB
}

// NewTransferRepo returns a new TransferRepo bound to the given database.
func NewTransferRepo(db *sql.DB) *TransferRepo { return &TransferRepo{db: db} }

const transferCols = `id, reservation_id, pickup_location, dropoff_location, pickup_at, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanTransfer(scan func(dest ...interface{}) error) (*model.Transfer, error) {
	var t model.Transfer
	var provider, ref sql.NullString
	err := scan(&t.ID, &t.ReservationID, &t.PickupLocation, &t.DropoffLocation, &t.PickupAt,
		&provider, &ref, &t.TotalPriceCents, &t.AmountPaidCents, &t.Currency,
		&t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	t.Provider = nullStr(provider)
	t.BookingReference = nullStr(ref)
	return &t, nil
}

// CreateTx inserts a transfer record within the caller's transaction.
func (r *TransferRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transfer) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO transfers (reservation_id, pickup_location, dropoff_location, pickup_at,
		                        provider, booking_reference, total_price_cents, amount_paid_cents, currency,
		                        created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ReservationID, t.PickupLocation, t.DropoffLocation, t.PickupAt,
		t.Provider, t.BookingReference, t.TotalPriceCents, t.AmountPaidCents, t.Currency,
		t.CreatedBy, t.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanTransfer(tx.QueryRowContext(ctx,
		`SELECT `+transferCols+` FROM transfers WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// GetByID fetches a transfer record by id.
func (r *TransferRepo) GetByID(ctx context.Context, id uint64) (*model.Transfer, error) {
	return scanTransfer(r.db.QueryRowContext(ctx,
		`SELECT `+transferCols+` FROM transfers WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's transfers ordered by pickup time.
func (r *TransferRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Transfer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transferCols+` FROM transfers WHERE reservation_id = ? ORDER BY pickup_at`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, Translate(rows.Err())
}

// TransferUpdate carries the mutable transfer columns; nil leaves the
// persisted value untouched.  Currency is immutable.
type TransferUpdate struct {
	PickupLocation   *string
	DropoffLocation  *string
	PickupAt         *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *TransferRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd TransferUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "pickup_location", upd.PickupLocation)
	setStr(&sets, &args, "dropoff_location", upd.DropoffLocation)
	setTime(&sets, &args, "pickup_at", upd.PickupAt)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE transfers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a transfer record, capturing its last known amounts for
// the negative delta.
func (r *TransferRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM transfers WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM transfers WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
