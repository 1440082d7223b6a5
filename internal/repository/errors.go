// Package repository defines the data access layer and the error taxonomy
// shared across repositories.  Storage-engine errors are translated once, by
// code, into a small set of sentinel values; handlers map those onto HTTP
// statuses.  Anything that does not classify stays untranslated and is
// treated as an internal error by the caller.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a referenced entity (reservation, service
// record, pax) does not exist at read or foreign-key check time.  Handlers
// translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// reservation they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a uniqueness constraint is violated, such as
// a duplicate booking reference.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrIntegrity is returned when a storage-level constraint or trigger
// rejects an operation that would leave data in an invalid state, such as
// deleting a reservation that still has service records.
var ErrIntegrity = errors.New("integrity violation")

// ErrUnavailable is returned on storage connection or timeout failures.
// Handlers translate this into HTTP 503.
var ErrUnavailable = errors.New("storage unavailable")

// MySQL server error numbers recognised by Translate.
const (
	mysqlDupEntry        = 1062 // ER_DUP_ENTRY
	mysqlRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2
	mysqlNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
	mysqlLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
	mysqlDeadlock        = 1213 // ER_LOCK_DEADLOCK
	mysqlSignal          = 1644 // ER_SIGNAL_EXCEPTION (trigger-raised)
)

// Translate maps a storage error onto the taxonomy.  Errors that are
// already sentinels pass through unchanged; unrecognised errors are
// returned as-is so the caller logs them with full context.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrIntegrity, ErrUnavailable} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry:
			return fmt.Errorf("%w: duplicate entry", ErrConflict)
		case mysqlNoReferencedRow:
			// The foreign-key target is gone: the referenced parent does
			// not exist.
			return ErrNotFound
		case mysqlRowIsReferenced:
			return fmt.Errorf("%w: record is still referenced", ErrIntegrity)
		case mysqlSignal:
			// Trigger SIGNAL messages are authored in our own schema and
			// safe to surface; everything else stays generic.
			return fmt.Errorf("%w: %s", ErrIntegrity, me.Message)
		case mysqlLockWaitTimeout, mysqlDeadlock:
			return ErrUnavailable
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ErrUnavailable
	}
	return err
}
