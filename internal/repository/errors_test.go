package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	opaque := errors.New("something unexpected")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"sentinel passes through", ErrConflict, ErrConflict},
		{"wrapped sentinel passes through", fmt.Errorf("ctx: %w", ErrNotFound), ErrNotFound},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrConflict},
		{"missing parent row", &mysql.MySQLError{Number: 1452, Message: "a foreign key constraint fails"}, ErrNotFound},
		{"row still referenced", &mysql.MySQLError{Number: 1451, Message: "a foreign key constraint fails"}, ErrIntegrity},
		{"trigger signal", &mysql.MySQLError{Number: 1644, Message: "confirmed reservation requires at least one pax"}, ErrIntegrity},
		{"lock wait timeout", &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, ErrUnavailable},
		{"deadlock", &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}, ErrUnavailable},
		{"bad connection", driver.ErrBadConn, ErrUnavailable},
		{"invalid connection", mysql.ErrInvalidConn, ErrUnavailable},
		{"deadline exceeded", context.DeadlineExceeded, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("unknown mysql error passes through", func(t *testing.T) {
		in := &mysql.MySQLError{Number: 1064, Message: "syntax error"}
		got := Translate(in)
		var me *mysql.MySQLError
		require.ErrorAs(t, got, &me)
		assert.Equal(t, uint16(1064), me.Number)
	})

	t.Run("opaque error passes through", func(t *testing.T) {
		assert.Equal(t, opaque, Translate(opaque))
	})

	t.Run("trigger message is surfaced", func(t *testing.T) {
		got := Translate(&mysql.MySQLError{Number: 1644, Message: "confirmed reservation requires at least one pax"})
		assert.Contains(t, got.Error(), "at least one pax")
	})
}
