package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// ReservationRepo provides CRUD for reservations plus the aggregate
// adjuster ("touch") that keeps the running totals in sync with the child
// service rows.  The aggregate is maintained incrementally: every child
// mutation applies a signed delta inside the same transaction as the child
// write, it is never recomputed on the write path.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, user_id, status, notes, total_price_cents, amount_paid_cents, created_by, updated_by, created_at, updated_at`

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	var notes sql.NullString
	err := row.Scan(&res.ID, &res.UserID, &res.Status, &notes,
		&res.TotalPriceCents, &res.AmountPaidCents,
		&res.CreatedBy, &res.UpdatedBy, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return &res, nil
}

// Create inserts a reservation with zeroed totals and populates the record
// from the stored row.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (user_id, status, notes, created_by, updated_by) VALUES (?, ?, ?, ?, ?)`,
		res.UserID, res.Status, res.Notes, res.CreatedBy, res.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// GetByID fetches a reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

// ListByUser returns the user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		var notes sql.NullString
		if err := rows.Scan(&res.ID, &res.UserID, &res.Status, &notes,
			&res.TotalPriceCents, &res.AmountPaidCents,
			&res.CreatedBy, &res.UpdatedBy, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, Translate(err)
		}
		if notes.Valid {
			n := notes.String
			res.Notes = &n
		}
		out = append(out, res)
	}
	return out, Translate(rows.Err())
}

// ReservationUpdate carries the mutable reservation fields; nil means the
// field was not supplied and the persisted value stays untouched.
type ReservationUpdate struct {
	Status *string
	Notes  *string
}

// Update applies the supplied fields only and stamps the actor.
func (r *ReservationRepo) Update(ctx context.Context, id, actorID uint64, upd ReservationUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	args = append(args, id)
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return Translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a reservation.  Foreign keys restrict the delete while
// child service rows or pax still reference it; that surfaces as
// ErrIntegrity.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return Translate(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return Translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchTx stamps the reservation's last-modifier and applies the signed
// delta to its running totals in a single atomic statement.  The increments
// are expressed at the storage layer ("x = x + ?"), never read-modify-write
// in application code, so concurrent adjustments of the same reservation
// cannot lose updates.  A zero adjustment still stamps the actor: a child
// mutation always counts as a touch on the parent.
//
// The reservation no longer existing is a hard error; the enclosing
// transaction must roll back the child write with it.  The DSN sets
// clientFoundRows so a no-change update still reports the matched row.
func (r *ReservationRepo) TouchTx(ctx context.Context, tx *sql.Tx, reservationID, actorID uint64, adj aggregate.Adjustment) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE reservations
		    SET updated_by = ?,
		        total_price_cents = total_price_cents + ?,
		        amount_paid_cents = amount_paid_cents + ?
		  WHERE id = ?`,
		actorID, adj.TotalDelta, adj.PaidDelta, reservationID)
	if err != nil {
		return Translate(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return Translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertCurrencyTotalTx maintains the per-currency aggregate row for the
// adjustment's currency.  The row is created lazily on first adjustment.
// Negative results are clamped to zero rather than stored: a safety net
// against aggregate drift, not a correctness guarantee.
func (r *ReservationRepo) UpsertCurrencyTotalTx(ctx context.Context, tx *sql.Tx, reservationID uint64, adj aggregate.Adjustment) error {
	if adj.Currency == "" || adj.IsZero() {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reservation_currency_totals (reservation_id, currency, total_price_cents, amount_paid_cents)
		 VALUES (?, ?, GREATEST(0, ?), GREATEST(0, ?))
		 ON DUPLICATE KEY UPDATE
		     total_price_cents = GREATEST(0, total_price_cents + ?),
		     amount_paid_cents = GREATEST(0, amount_paid_cents + ?)`,
		reservationID, adj.Currency, adj.TotalDelta, adj.PaidDelta, adj.TotalDelta, adj.PaidDelta)
	return Translate(err)
}

// CurrencyTotals returns the per-currency aggregate rows of a reservation.
func (r *ReservationRepo) CurrencyTotals(ctx context.Context, reservationID uint64) ([]model.ReservationCurrencyTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT reservation_id, currency, total_price_cents, amount_paid_cents, updated_at
		   FROM reservation_currency_totals WHERE reservation_id = ? ORDER BY currency`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.ReservationCurrencyTotal, 0)
	for rows.Next() {
		var t model.ReservationCurrencyTotal
		if err := rows.Scan(&t.ReservationID, &t.Currency, &t.TotalPriceCents, &t.AmountPaidCents, &t.UpdatedAt); err != nil {
			return nil, Translate(err)
		}
		out = append(out, t)
	}
	return out, Translate(rows.Err())
}

// serviceTables lists the child tables that contribute to the aggregate,
// with the columns shared by all of them.
var serviceTables = []string{
	"hotels", "flights", "cruises", "transfers", "excursions", "medical_assists", "car_rentals",
}

// RecomputeCurrencyTotalsTx rebuilds a reservation's aggregates from the
// child service rows: the per-currency rows are replaced and the
// reservation-level totals overwritten with the true sums.  This is the
// reconciliation path that bounds drift from any missed or duplicated
// delta; the incremental write path never calls it.
func (r *ReservationRepo) RecomputeCurrencyTotalsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]model.ReservationCurrencyTotal, error) {
	selects := make([]string, len(serviceTables))
	args := make([]interface{}, len(serviceTables))
	for i, table := range serviceTables {
		selects[i] = `SELECT currency, total_price_cents, amount_paid_cents FROM ` + table + ` WHERE reservation_id = ?`
		args[i] = reservationID
	}
	q := `SELECT currency, COALESCE(SUM(total_price_cents), 0), COALESCE(SUM(amount_paid_cents), 0)
	        FROM (` + strings.Join(selects, " UNION ALL ") + `) AS children GROUP BY currency`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, Translate(err)
	}
	totals := make([]model.ReservationCurrencyTotal, 0)
	var grandTotal, grandPaid int64
	for rows.Next() {
		t := model.ReservationCurrencyTotal{ReservationID: reservationID}
		if err := rows.Scan(&t.Currency, &t.TotalPriceCents, &t.AmountPaidCents); err != nil {
			rows.Close()
			return nil, Translate(err)
		}
		grandTotal += t.TotalPriceCents
		grandPaid += t.AmountPaidCents
		totals = append(totals, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, Translate(err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_currency_totals WHERE reservation_id = ?`, reservationID); err != nil {
		return nil, Translate(err)
	}
	for _, t := range totals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_currency_totals (reservation_id, currency, total_price_cents, amount_paid_cents)
			 VALUES (?, ?, ?, ?)`,
			reservationID, t.Currency, t.TotalPriceCents, t.AmountPaidCents); err != nil {
			return nil, Translate(err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET total_price_cents = ?, amount_paid_cents = ? WHERE id = ?`,
		grandTotal, grandPaid, reservationID); err != nil {
		return nil, Translate(err)
	}
	return totals, nil
}

// ListIDs returns all reservation ids, used by the reconciliation job.
func (r *ReservationRepo) ListIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM reservations ORDER BY id`)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, Translate(err)
		}
		ids = append(ids, id)
	}
	return ids, Translate(rows.Err())
}
