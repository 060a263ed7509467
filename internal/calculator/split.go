package calculator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// splitTolerance is how far unequal proposals may drift from the expense amount.
const splitTolerance = 0.01

// DateLayout is the calendar-date format used for expense dates.
const DateLayout = "2006-01-02"

// AllocationRequest is everything needed to turn a new expense into splits.
type AllocationRequest struct {
	Amount      float64
	Description string
	Category    models.Category
	Date        string
	PaidBy      string
	SplitType   models.SplitType

	// Participants is the ordered subset sharing the expense. Each ID may appear once.
	// For SplitSpecific only the first entry is used.
	Participants []string

	// Proposals holds raw per-participant amounts for SplitUnequal, keyed by participant ID.
	// Missing, empty or unparsable entries count as zero.
	Proposals map[string]string
}

// AllocateSplits validates a new expense and computes its splits.
//
// Algorithm:
//   - Equal: every participant owes amount / n (no rounding)
//   - Unequal: participants owe their proposed amounts, which must sum to amount within 0.01
//   - Specific: the first participant owes the whole amount
//
// It never persists anything; the caller stores the result.
func AllocateSplits(req AllocationRequest, roster models.Roster) ([]models.Split, error) {
	if err := validateAllocation(req, roster); err != nil {
		return nil, err
	}

	switch req.SplitType {
	case models.SplitEqual:
		return equalSplits(req.Amount, req.Participants), nil
	case models.SplitUnequal:
		return unequalSplits(req.Amount, req.Participants, req.Proposals)
	case models.SplitSpecific:
		return []models.Split{{ParticipantID: req.Participants[0], OwedAmount: req.Amount}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSplitType, req.SplitType)
	}
}

func validateAllocation(req AllocationRequest, roster models.Roster) error {
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(req.Description) == "" {
		return missingField("description")
	}
	if req.PaidBy == "" || !roster.Contains(req.PaidBy) {
		return missingField("paid_by")
	}
	if len(req.Participants) == 0 {
		return ErrNoParticipants
	}
	seen := make(map[string]bool, len(req.Participants))
	for _, id := range req.Participants {
		if !roster.Contains(id) {
			return &UnknownParticipantError{ParticipantID: id}
		}
		if seen[id] {
			return fmt.Errorf("%w: %q", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}
	if !req.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}
	if req.Date == "" {
		return missingField("date")
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func equalSplits(amount float64, participants []string) []models.Split {
	perPerson := amount / float64(len(participants))
	splits := make([]models.Split, len(participants))
	for i, id := range participants {
		splits[i] = models.Split{ParticipantID: id, OwedAmount: perPerson}
	}
	return splits
}

func unequalSplits(amount float64, participants []string, proposals map[string]string) ([]models.Split, error) {
	var sum float64
	var splits []models.Split
	for _, id := range participants {
		owed, ok := money.ParseAmount(proposals[id])
		if !ok {
			continue
		}
		sum += owed
		splits = append(splits, models.Split{ParticipantID: id, OwedAmount: owed})
	}

	if math.Abs(sum-amount) > splitTolerance {
		return nil, &SplitMismatchError{Sum: sum, Amount: amount}
	}
	return splits, nil
}
