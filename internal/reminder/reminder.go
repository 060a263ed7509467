// Package reminder periodically recomputes who still owes money and reports it
// through the log and the outstanding-amount metrics.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

const runTimeout = 30 * time.Second

// ExpenseLister is the read-only slice of storage.Store the job needs.
type ExpenseLister interface {
	ListExpenses(ctx context.Context) ([]models.Expense, error)
}

// Job reports unpaid totals per participant.
type Job struct {
	store    ExpenseLister
	roster   models.Roster
	currency money.Policy
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewJob creates a reminder job. m may be nil to skip metrics.
func NewJob(store ExpenseLister, roster models.Roster, currency money.Policy, m *metrics.Metrics, logger *slog.Logger) *Job {
	return &Job{
		store:    store,
		roster:   roster,
		currency: currency,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Run computes unpaid totals once, logs each participant who still owes money,
// and updates the outstanding gauges. It returns the totals.
func (j *Job) Run(ctx context.Context) (map[string]float64, error) {
	expenses, err := j.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	unpaid, err := calculator.UnpaidTotals(expenses, j.roster)
	if err != nil {
		return nil, fmt.Errorf("failed to compute unpaid totals: %w", err)
	}

	var total float64
	for _, p := range j.roster {
		amount := unpaid[p.ID]
		total += amount
		if calculator.FullySettled(amount) {
			continue
		}
		j.logger.Info("Outstanding balance",
			"participant_id", p.ID,
			"participant", p.DisplayName,
			"unpaid", j.currency.Format(amount),
		)
	}

	if calculator.FullySettled(total) {
		j.logger.Info("All expenses settled", "expenses", len(expenses))
	} else {
		j.logger.Info("Reminder run complete",
			"expenses", len(expenses),
			"total_unpaid", j.currency.Format(total),
		)
	}

	if j.metrics != nil {
		j.metrics.SetOutstanding(unpaid, j.now())
	}
	return unpaid, nil
}

// Start schedules the job on spec (standard five-field cron syntax) and starts
// the scheduler. The caller stops it with Stop on the returned cron.
func Start(job *Job, spec string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := job.Run(ctx); err != nil {
			job.logger.Error("Reminder job failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule reminder job %q: %w", spec, err)
	}

	c.Start()
	job.logger.Info("Reminder job started", "schedule", spec)
	return c, nil
}
