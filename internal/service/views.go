package service

import (
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/pkg/api"
)

// Conversions from domain types to wire messages. Numeric fields are passed
// through unrounded; only the *Display strings use the currency policy.

func participantToAPI(p models.Participant) api.Participant {
	return api.Participant{ID: p.ID, DisplayName: p.DisplayName, ColorTag: p.ColorTag}
}

func expenseToAPI(e *models.Expense, currency money.Policy) api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{
			ParticipantID:     s.ParticipantID,
			OwedAmount:        s.OwedAmount,
			OwedAmountDisplay: currency.Format(s.OwedAmount),
		}
	}

	status := make(map[string]api.PaymentEntry, len(e.PaymentStatus))
	for id, entry := range e.PaymentStatus {
		status[id] = api.PaymentEntry{Paid: entry.Paid, PartialAmount: entry.PartialAmount}
	}

	return api.Expense{
		ID:            e.ID,
		Amount:        e.Amount,
		AmountDisplay: currency.Format(e.Amount),
		Description:   e.Description,
		Category:      string(e.Category),
		Date:          e.Date,
		PaidBy:        e.PaidBy,
		SplitType:     string(e.SplitType),
		Splits:        splits,
		PaymentStatus: status,
		CreatedAt:     e.CreatedAt,
	}
}

func statusToAPI(s calculator.ParticipantStatus, currency money.Policy) api.ParticipantStatus {
	view := api.ParticipantStatus{
		ParticipantID:    s.ParticipantID,
		State:            string(s.State),
		Owed:             s.Owed,
		Remaining:        s.Remaining,
		RemainingDisplay: currency.Format(s.Remaining),
	}
	if s.State == calculator.StatePartiallyPaid {
		partial := s.Partial
		view.Partial = &partial
	}
	return view
}

func balanceToAPI(b models.Balance, currency money.Policy) api.Balance {
	return api.Balance{
		ParticipantID:     b.ParticipantID,
		DisplayName:       b.DisplayName,
		ColorTag:          b.ColorTag,
		NetBalance:        b.NetBalance,
		NetBalanceDisplay: currency.Format(b.NetBalance),
	}
}

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
	}
}
