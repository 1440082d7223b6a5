package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetHelpersBuildPartialUpdate(t *testing.T) {
	name := "Hotel Plaza"
	checkIn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	total := int64(125000)

	sets := []string{"updated_by = ?"}
	args := []interface{}{uint64(7)}

	setStr(&sets, &args, "name", &name)
	setStr(&sets, &args, "city", nil)
	setTime(&sets, &args, "check_in", &checkIn)
	setTime(&sets, &args, "check_out", nil)
	setInt(&sets, &args, "total_price_cents", &total)
	setInt(&sets, &args, "amount_paid_cents", nil)

	assert.Equal(t, []string{
		"updated_by = ?",
		"name = ?",
		"check_in = ?",
		"total_price_cents = ?",
	}, sets)
	assert.Equal(t, []interface{}{uint64(7), "Hotel Plaza", checkIn, int64(125000)}, args)
}

func TestSetHelpersNoSuppliedColumns(t *testing.T) {
	sets := []string{"updated_by = ?"}
	args := []interface{}{uint64(1)}

	setStr(&sets, &args, "name", nil)
	setTime(&sets, &args, "check_in", nil)
	setInt(&sets, &args, "total_price_cents", nil)

	assert.Len(t, sets, 1)
	assert.Len(t, args, 1)
}
