package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// HotelRepo provides CRUD for hotel service records.  Mutating methods come
// in *Tx form: the caller owns the transaction so that the record write and
// the parent aggregate adjustment commit or roll back together.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

const hotelCols = `id, reservation_id, name, city, check_in, check_out, provider, booking_reference, total_price_cents, amount_paid_cents, currency, created_by, updated_by, created_at, updated_at`

func scanHotel(scan func(dest ...interface{}) error) (*model.Hotel, error) {
	var h model.Hotel
	var city, provider, ref sql.NullString
	err := scan(&h.ID, &h.ReservationID, &h.Name, &city, &h.CheckIn, &h.CheckOut,
		&provider, &ref, &h.TotalPriceCents, &h.AmountPaidCents, &h.Currency,
		&h.CreatedBy, &h.UpdatedBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	h.City = nullStr(city)
	h.Provider = nullStr(provider)
	h.BookingReference = nullStr(ref)
	return &h, nil
}

// CreateTx inserts a hotel record within the caller's transaction and
// populates the record from the stored row.
func (r *HotelRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.Hotel) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO hotels (reservation_id, name, city, check_in, check_out, provider, booking_reference,
		                     total_price_cents, amount_paid_cents, currency, created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ReservationID, h.Name, h.City, h.CheckIn, h.CheckOut, h.Provider, h.BookingReference,
		h.TotalPriceCents, h.AmountPaidCents, h.Currency, h.CreatedBy, h.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanHotel(tx.QueryRowContext(ctx,
		`SELECT `+hotelCols+` FROM hotels WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*h = *stored
	return nil
}

// GetByID fetches a hotel record by id.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	return scanHotel(r.db.QueryRowContext(ctx,
		`SELECT `+hotelCols+` FROM hotels WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's hotel records ordered by
// check-in date.
func (r *HotelRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hotelCols+` FROM hotels WHERE reservation_id = ? ORDER BY check_in`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, Translate(rows.Err())
}

// HotelUpdate carries the mutable hotel columns; nil leaves the persisted
// value untouched.  Currency is deliberately immutable: a delta in one
// currency cannot be applied to an aggregate accumulated in another.
type HotelUpdate struct {
	Name             *string
	City             *string
	CheckIn          *time.Time
	CheckOut         *time.Time
	Provider         *string
	BookingReference *string
	TotalPriceCents  *int64
	AmountPaidCents  *int64
}

// UpdateTx applies the supplied columns only, within the caller's
// transaction, and stamps the actor.
func (r *HotelRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd HotelUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "name", upd.Name)
	setStr(&sets, &args, "city", upd.City)
	setTime(&sets, &args, "check_in", upd.CheckIn)
	setTime(&sets, &args, "check_out", upd.CheckOut)
	setStr(&sets, &args, "provider", upd.Provider)
	setStr(&sets, &args, "booking_reference", upd.BookingReference)
	setInt(&sets, &args, "total_price_cents", upd.TotalPriceCents)
	setInt(&sets, &args, "amount_paid_cents", upd.AmountPaidCents)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE hotels SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a hotel record within the caller's transaction, locking
// the row first to capture its last known amounts for the negative delta.
func (r *HotelRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (aggregate.Amounts, error) {
	var a aggregate.Amounts
	err := tx.QueryRowContext(ctx,
		`SELECT total_price_cents, amount_paid_cents, currency FROM hotels WHERE id = ? FOR UPDATE`, id).
		Scan(&a.TotalCents, &a.PaidCents, &a.Currency)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	if err != nil {
		return aggregate.Amounts{}, Translate(err)
	}
	if err := affectedOne(result); err != nil {
		return aggregate.Amounts{}, err
	}
	return a, nil
}
