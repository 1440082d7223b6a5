// Package jobs hosts scheduled background work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jmarinero/travel-reservation-api/internal/repository"
)

// Reconciler periodically recomputes every reservation's currency totals
// from its child service rows.  The incremental aggregate clamps negative
// values to zero, which can quietly absorb drift after manual data fixes;
// this job restores the aggregate to the ground truth and logs what it had
// to correct.
type Reconciler struct {
	Reservations *repository.ReservationRepo
	Log          zerolog.Logger
}

// Schedule registers the reconciliation run on the given cron runner.  An
// empty spec disables the job.
func (r *Reconciler) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	if spec == "" {
		return 0, nil
	}
	return c.AddFunc(spec, r.Run)
}

// Run reconciles every reservation, one transaction each so a failure on
// one reservation does not roll back the rest.
func (r *Reconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ids, err := r.Reservations.ListIDs(ctx)
	if err != nil {
		r.Log.Error().Err(err).Msg("reconcile: list reservations failed")
		return
	}

	var fixed int
	for _, id := range ids {
		changed, err := r.reconcileOne(ctx, id)
		if err != nil {
			r.Log.Error().Err(err).Uint64("reservation_id", id).Msg("reconcile failed")
			continue
		}
		if changed {
			fixed++
		}
	}
	r.Log.Info().Int("reservations", len(ids)).Int("corrected", fixed).Msg("reconcile run complete")
}

func (r *Reconciler) reconcileOne(ctx context.Context, id uint64) (bool, error) {
	before, err := r.Reservations.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	tx, err := r.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return false, repository.Translate(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	totals, err := r.Reservations.RecomputeCurrencyTotalsTx(ctx, tx, id)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, repository.Translate(err)
	}
	committed = true

	var total, paid int64
	for _, row := range totals {
		total += row.TotalPriceCents
		paid += row.AmountPaidCents
	}
	drifted := total != before.TotalPriceCents || paid != before.AmountPaidCents
	if drifted {
		r.Log.Warn().
			Uint64("reservation_id", id).
			Int64("stored_total_cents", before.TotalPriceCents).
			Int64("actual_total_cents", total).
			Int64("stored_paid_cents", before.AmountPaidCents).
			Int64("actual_paid_cents", paid).
			Msg("aggregate drift corrected")
	}
	return drifted, nil
}
