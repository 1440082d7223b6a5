package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// CruiseRepo provides CRUD for cruise service records.
type CruiseRepo struct {
	db *sql.DB
}

// NewCruiseRepo returns a new CruiseRepo bound to the given database.
func NewCruiseRepo(db *sql.DB) *CruiseRepo { return &CruiseRepo{db: db} }

const cruiseCols = `id, reservation_id, ship, departure_port, arrival_port, departs_at, returns_at, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanCruise(scan func(dest ...interface{}) error) (*model.Cruise, error) {
	var c model.Cruise
	var provider, ref sql.NullString
	err := scan(&c.ID, &c.ReservationID, &c.Ship, &c.DeparturePort, &c.ArrivalPort,
		&c.DepartsAt, &c.ReturnsAt, &provider, &ref,
		&c.TotalPriceCents, &c.AmountPaidCents, &c.Currency,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	c.Provider = nullStr(provider)
	c.BookingReference = nullStr(ref)
	return &c, nil
}

// CreateTx inserts a cruise record within the caller's transaction.
func (r *CruiseRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Cruise) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO cruises (reservation_id, ship, departure_port, arrival_port, departs_at, returns_at,
		                      provider, booking_reference, total_price_cents, amount_paid_cents, currency,
		                      created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ReservationID, c.Ship, c.DeparturePort, c.ArrivalPort, c.DepartsAt, c.ReturnsAt,
		c.Provider, c.BookingReference, c.TotalPriceCents, c.AmountPaidCents, c.Currency,
		c.CreatedBy, c.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanCruise(tx.QueryRowContext(ctx,
		`SELECT `+cruiseCols+` FROM cruises WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// GetByID fetches a cruise record by id.
func (r *CruiseRepo) GetByID(ctx context.Context, id uint64) (*model.Cruise, error) {
	return scanCruise(r.db.QueryRowContext(ctx,
		`SELECT `+cruiseCols+` FROM cruises WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's cruises ordered by departure.
func (r *CruiseRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Cruise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cruiseCols+` FROM cruises WHERE reservation_id = ? ORDER BY departs_at`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Cruise, 0)
	for rows.Next() {
		c, err := scanCruise(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, Translate(rows.Err())
}

// CruiseUpdate carries the mutable cruise columns; nil leaves the persisted
// value untouched.  Currency is immutable.
type CruiseUpdate struct {
	Ship             *string
	DeparturePort    *string
	ArrivalPort      *string
	DepartsAt        *time.Time
	ReturnsAt        *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *CruiseRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd CruiseUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "ship", upd.Ship)
	setStr(&sets, &args, "departure_port", upd.DeparturePort)
	setStr(&sets, &args, "arrival_port", upd.ArrivalPort)
	setTime(&sets, &args, "departs_at", upd.DepartsAt)
	setTime(&sets, &args, "returns_at", upd.ReturnsAt)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE cruises SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a cruise record, capturing its last known amounts for
// the negative delta.
func (r *CruiseRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM cruises WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM cruises WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
