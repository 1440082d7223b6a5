package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// FlightRepo provides CRUD for flight service records.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightCols = `id, reservation_id, flight_number, origin, destination, departs_at, arrives_at, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanFlight(scan func(dest ...interface{}) error) (*model.Flight, error) {
	var f model.Flight
	var number, provider, ref sql.NullString
	err := scan(&f.ID, &f.ReservationID, &number, &f.Origin, &f.Destination,
		&f.DepartsAt, &f.ArrivesAt, &provider, &ref,
		&f.TotalPriceCents, &f.AmountPaidCents, &f.Currency,
		&f.CreatedBy, &f.UpdatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	f.FlightNumber = nullStr(number)
	f.Provider = nullStr(provider)
	f.BookingReference = nullStr(ref)
	return &f, nil
}

// CreateTx inserts a flight record within the caller's transaction.
func (r *FlightRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.Flight) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO flights (reservation_id, flight_number, origin, destination, departs_at, arrives_at,
		                      provider, booking_reference, total_price_cents, amount_paid_cents, currency,
		                      created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ReservationID, f.FlightNumber, f.Origin, f.Destination, f.DepartsAt, f.ArrivesAt,
		f.Provider, f.BookingReference, f.TotalPriceCents, f.AmountPaidCents, f.Currency,
		f.CreatedBy, f.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanFlight(tx.QueryRowContext(ctx,
		`SELECT `+flightCols+` FROM flights WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*f = *stored
	return nil
}

// GetByID fetches a flight record by id.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	return scanFlight(r.db.QueryRowContext(ctx,
		`SELECT `+flightCols+` FROM flights WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's flights ordered by departure.
func (r *FlightRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Flight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+flightCols+` FROM flights WHERE reservation_id = ? ORDER BY departs_at`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, Translate(rows.Err())
}

// FlightUpdate carries the mutable flight columns; nil leaves the persisted
// value untouched.  Currency is immutable.
type FlightUpdate struct {
	FlightNumber     *string
	Origin           *string
	Destination      *string
	DepartsAt        *time.Time
	ArrivesAt        *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *FlightRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd FlightUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "flight_number", upd.FlightNumber)
	setStr(&sets, &args, "origin", upd.Origin)
	setStr(&sets, &args, "destination", upd.Destination)
	setTime(&sets, &args, "departs_at", upd.DepartsAt)
	setTime(&sets, &args, "arrives_at", upd.ArrivesAt)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE flights SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a flight record, capturing its last known amounts for
// the negative delta.
func (r *FlightRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM flights WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
