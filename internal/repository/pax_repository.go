package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmarinero/travel-reservation-api/internal/model"
)

// PaxRepo provides CRUD for passengers.  Pax rows carry no amounts, but
// their mutations still happen inside a transaction that touches the parent
// reservation with a zero adjustment, stamping the actor.
type PaxRepo struct {
	db *sql.DB
}

// NewPaxRepo returns a new PaxRepo bound to the given database.
func NewPaxRepo(db *sql.DB) *PaxRepo { return &PaxRepo{db: db} }

const paxCols = `id, reservation_id, first_name, last_name, birth_date, passport_number, passport_expiry, dni_number, dni_expiry, created_by, updated_by, created_at, updated_at`

func scanPax(scan func(dest ...interface{}) error) (*model.Pax, error) {
	var p model.Pax
	var birth, passExp, dniExp sql.NullTime
	var passNum, dniNum sql.NullString
	err := scan(&p.ID, &p.ReservationID, &p.FirstName, &p.LastName, &birth,
		&passNum, &passExp, &dniNum, &dniExp,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, Translate(err)
	}
	if birth.Valid {
		t := birth.Time
		p.BirthDate = &t
	}
	p.PassportNumber = nullStr(passNum)
	if passExp.Valid {
		t := passExp.Time
		p.PassportExpiry = &t
	}
	p.DNINumber = nullStr(dniNum)
	if dniExp.Valid {
		t := dniExp.Time
		p.DNIExpiry = &t
	}
	return &p, nil
}

// CreateTx inserts a pax within the caller's transaction.
func (r *PaxRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Pax) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO pax (reservation_id, first_name, last_name, birth_date,
		                  passport_number, passport_expiry, dni_number, dni_expiry,
		                  created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ReservationID, p.FirstName, p.LastName, p.BirthDate,
		p.PassportNumber, p.PassportExpiry, p.DNINumber, p.DNIExpiry,
		p.CreatedBy, p.CreatedBy)
	if err != nil {
		return Translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Translate(err)
	}
	stored, err := scanPax(tx.QueryRowContext(ctx,
		`SELECT `+paxCols+` FROM pax WHERE id = ?`, id).Scan)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetByID fetches a pax by id.
func (r *PaxRepo) GetByID(ctx context.Context, id uint64) (*model.Pax, error) {
	return scanPax(r.db.QueryRowContext(ctx,
		`SELECT `+paxCols+` FROM pax WHERE id = ?`, id).Scan)
}

// ListByReservation returns a reservation's passengers in name order.
func (r *PaxRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Pax, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paxCols+` FROM pax WHERE reservation_id = ? ORDER BY last_name, first_name`, reservationID)
	if err != nil {
		return nil, Translate(err)
	}
	defer rows.Close()
	out := make([]model.Pax, 0)
	for rows.Next() {
		p, err := scanPax(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, Translate(rows.Err())
}

// PaxUpdate carries the mutable pax columns; nil leaves the persisted
// value untouched.
type PaxUpdate struct {
	FirstName      *string
	LastName       *string
	BirthDate      *time.Time
	PassportNumber *string
	PassportExpiry *time.Time
	DNINumber      *string
	DNIExpiry      *time.Time
}

// UpdateTx applies the supplied columns only and stamps the actor.
func (r *PaxRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id, actorID uint64, upd PaxUpdate) error {
	sets := []string{"updated_by = ?"}
	args := []interface{}{actorID}
	setStr(&sets, &args, "first_name", upd.FirstName)
	setStr(&sets, &args, "last_name", upd.LastName)
	setTime(&sets, &args, "birth_date", upd.BirthDate)
	setStr(&sets, &args, "passport_number", upd.PassportNumber)
	setTime(&sets, &args, "passport_expiry", upd.PassportExpiry)
	setStr(&sets, &args, "dni_number", upd.DNINumber)
	setTime(&sets, &args, "dni_expiry", upd.DNIExpiry)
	args = append(args, id)
	result, err := tx.ExecContext(ctx,
		`UPDATE pax SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}

// DeleteTx removes a pax within the caller's transaction.  A schema trigger
// rejects deleting the sole pax of a confirmed reservation; that surfaces
// as ErrIntegrity.
func (r *PaxRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM pax WHERE id = ?`, id)
	if err != nil {
		return Translate(err)
	}
	return affectedOne(result)
}
