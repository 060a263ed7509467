package calculator

import "github.com/mmynk/tripledger/internal/models"

// PaymentState classifies one participant's settlement of an expense.
type PaymentState string

const (
	StateUnpaid        PaymentState = "unpaid"
	StatePartiallyPaid PaymentState = "partially_paid"
	StatePaid          PaymentState = "paid"
)

// ParticipantStatus is the derived settlement state for one (expense, participant) pair.
type ParticipantStatus struct {
	ParticipantID string
	State         PaymentState
	Owed          float64 // From the participant's split entry; 0 without one
	Partial       float64 // Recorded partial payment; 0 unless PartiallyPaid
	Remaining     float64 // Never negative
}

// StatusOf classifies how much of a participant's share of an expense is settled.
//
// Every view that shows paid/unpaid state goes through this function so the
// missing-entry default and the clamping of over-payments are applied once.
func StatusOf(expense *models.Expense, participantID string) ParticipantStatus {
	var owed float64
	if split, ok := expense.SplitFor(participantID); ok {
		owed = split.OwedAmount
	}

	status := ParticipantStatus{
		ParticipantID: participantID,
		State:         StateUnpaid,
		Owed:          owed,
		Remaining:     nonNegative(owed),
	}

	entry, ok := expense.PaymentStatus.Lookup(participantID)
	if !ok {
		return status
	}

	if entry.Paid {
		status.State = StatePaid
		status.Remaining = 0
		return status
	}

	if entry.PartialAmount != nil && *entry.PartialAmount > 0 {
		status.State = StatePartiallyPaid
		status.Partial = *entry.PartialAmount
		status.Remaining = nonNegative(owed - *entry.PartialAmount)
	}

	return status
}

// ParticipantStatuses returns the status of every split entry, in split order.
func ParticipantStatuses(expense *models.Expense) []ParticipantStatus {
	statuses := make([]ParticipantStatus, len(expense.Splits))
	for i, split := range expense.Splits {
		statuses[i] = StatusOf(expense, split.ParticipantID)
	}
	return statuses
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
