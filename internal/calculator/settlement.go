package calculator

import (
	"math"

	"github.com/mmynk/tripledger/internal/models"
)

// UnpaidTotals sums, per roster participant, the remaining amount across every
// split entry that names them. Participants with nothing outstanding map to 0.
func UnpaidTotals(expenses []models.Expense, roster models.Roster) (map[string]float64, error) {
	totals := make(map[string]float64, len(roster))
	for _, p := range roster {
		totals[p.ID] = 0
	}

	for i := range expenses {
		expense := &expenses[i]
		for _, split := range expense.Splits {
			if _, ok := totals[split.ParticipantID]; !ok {
				return nil, &UnknownParticipantError{ParticipantID: split.ParticipantID}
			}
			totals[split.ParticipantID] += StatusOf(expense, split.ParticipantID).Remaining
		}
	}

	return totals, nil
}

// FullySettled reports whether an unpaid total means nothing is owed.
// Uses <= so floating drift below zero still counts as settled.
func FullySettled(unpaid float64) bool {
	return unpaid <= 0
}

// Progress is the percentage of split entries that are fully paid (0-100).
// Partial payments do not count. An expense with no splits is 100% settled.
func Progress(expense *models.Expense) int {
	if len(expense.Splits) == 0 {
		return 100
	}

	paidCount := 0
	for _, status := range ParticipantStatuses(expense) {
		if status.State == StatePaid {
			paidCount++
		}
	}

	return int(math.Round(100 * float64(paidCount) / float64(len(expense.Splits))))
}

// AmountProgress is the percentage of the owed money already paid (0-100),
// counting partial payments. Not to be confused with Progress, which counts people.
func AmountProgress(expense *models.Expense) int {
	var owed, settled float64
	for _, status := range ParticipantStatuses(expense) {
		owed += status.Owed
		settled += status.Owed - status.Remaining
	}
	if owed <= 0 {
		return 100
	}

	pct := math.Round(100 * settled / owed)
	if pct > 100 {
		pct = 100
	}
	return int(pct)
}
