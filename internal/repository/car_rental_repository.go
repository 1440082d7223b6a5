package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// CarRentalRepo provides CRUD for car-rental service records.
type CarRentalRepo struct {
	db *sql.DB
}

// NewCarRentalRepo returns a new CarRentalRepo bound to the given database.
func NewCarRentalRepo(db *sql.DB) *CarRentalRepo { return &CarRentalRepo{db: db} }

const carRentalCols = `id, reservation_id, vehicle, pickup_location, dropoff_location, pickup_at, dropoff_at, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanCarRental(scan func(dest ...interface{}) error) (*model.CarRental, error) {
	var cr model.CarRental
	var vehicle, provider, ref sql.NullString
	err := scan(&cr.ID, &cr.ReservationID, &vehicle, &cr.PickupLocation, &cr.DropoffLocation,
		&cr.PickupAt, &cr.DropoffAt, &provider, &ref,
		&cr.TotalPriceCents, &cr.AmountPaidCents, &cr.Currency,
		&cr.CreatedBy, &cr.UpdatedBy, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	cr.Vehicle = nullStr(vehicle)
	cr.Provider = nullStr(provider)
	cr.BookingReference = nullStr(ref)
	return &cr, nil
}

// CreateTx inserts a car-rental record within the caller's transaction.
func (r *CarRentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, cr *model.CarRental) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO car_rentals (reservation_id, vehicle, pickup_location, dropoff_location, pickup_at, dropoff_at,
		                          provider, booking_reference, total_price_cents, amount_paid_cents, currency,
		                          created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cr.ReservationID, cr.Vehicle, cr.PickupLocation, cr.DropoffLocation, cr.PickupAt, cr.DropoffAt,
		cr.Provider, cr.BookingReference, cr.TotalPriceCents, cr.AmountPaidCents, cr.Currency,
		cr.CreatedBy, cr.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanCarRental(tx.QueryRowContext(ctx,
		`SELECT `+carRentalCols+` FROM car_rentals WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*cr = *stored
	return nil
}

// GetByID fetches a car-rental record by id.
func (r *CarRentalRepo) GetByID(ctx context.Context, id uint64) (*model.CarRental, error) {
	return scanCarRental(r.db.QueryRowContext(ctx,
		`SELECT `+carRentalCols+` FROM car_rentals WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's car rentals ordered by pickup.
func (r *CarRentalRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.CarRental, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+carRentalCols+` FROM car_rentals WHERE reservation_id = ? ORDER BY pickup_at`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.CarRental, 0)
	for rows.Next() {
		cr, err := scanCarRental(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *cr)
	}
	return out, Translate(rows.Err())
}

// CarRentalUpdate carries the mutable car-rental columns; nil leaves the
// persisted value untouched.  Currency is immutable.
type CarRentalUpdate struct {
	Vehicle          *string
	PickupLocation   *string
	DropoffLocation  *string
	PickupAt         *time.Time
	DropoffAt        *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *CarRentalRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd CarRentalUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "vehicle", upd.Vehicle)
	setStr(&sets, &args, "pickup_location", upd.PickupLocation)
	setStr(&sets, &args, "dropoff_location", upd.DropoffLocation)
	setTime(&sets, &args, "pickup_at", upd.PickupAt)
	setTime(&sets, &args, "dropoff_at", upd.DropoffAt)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE car_rentals SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a car-rental record, capturing its last known amounts
// for the negative delta.
func (r *CarRentalRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM car_rentals WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM car_rentals WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
