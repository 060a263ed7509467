package calculator

import (
	"sort"

	"github.com/mmynk/tripledger/internal/models"
)

// settleEpsilon hides floating point noise when matching debtors to creditors.
const settleEpsilon = 0.01

// Summary is the ledger-wide view produced by Aggregate.
type Summary struct {
	// Balances has one entry per roster participant, in roster order.
	Balances []models.Balance

	// CategoryTotals sums expense amounts per category. Categories without expenses are absent.
	CategoryTotals map[models.Category]float64

	// TotalExpenses is the sum of all expense amounts.
	TotalExpenses float64
}

// Transfer is a suggested payment that moves a debtor toward zero balance.
type Transfer struct {
	From   string // Participant who owes
	To     string // Participant who is owed
	Amount float64
}

// Aggregate computes each participant's net balance and per-category totals.
//
// Algorithm:
//   - For each expense: payer contributed +amount, each split participant owes their share
//   - net_balance = total_paid - total_owed
//
// An expense that references a participant outside the roster fails with
// UnknownParticipantError instead of silently dropping money.
func Aggregate(expenses []models.Expense, roster models.Roster) (Summary, error) {
	paid := make(map[string]float64, len(roster))
	owed := make(map[string]float64, len(roster))
	for _, p := range roster {
		paid[p.ID] = 0
		owed[p.ID] = 0
	}

	summary := Summary{CategoryTotals: make(map[models.Category]float64)}

	for i := range expenses {
		expense := &expenses[i]
		if _, ok := paid[expense.PaidBy]; !ok {
			return Summary{}, &UnknownParticipantError{ParticipantID: expense.PaidBy}
		}
		paid[expense.PaidBy] += expense.Amount

		for _, split := range expense.Splits {
			if _, ok := owed[split.ParticipantID]; !ok {
				return Summary{}, &UnknownParticipantError{ParticipantID: split.ParticipantID}
			}
			owed[split.ParticipantID] += split.OwedAmount
		}

		summary.CategoryTotals[expense.Category] += expense.Amount
		summary.TotalExpenses += expense.Amount
	}

	summary.Balances = make([]models.Balance, len(roster))
	for i, p := range roster {
		summary.Balances[i] = models.Balance{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			ColorTag:      p.ColorTag,
			NetBalance:    paid[p.ID] - owed[p.ID],
		}
	}

	return summary, nil
}

// SortByNetBalance orders balances from most owed to most owing.
// Ties keep their input order.
func SortByNetBalance(balances []models.Balance) []models.Balance {
	sorted := make([]models.Balance, len(balances))
	copy(sorted, balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NetBalance > sorted[j].NetBalance
	})
	return sorted
}

// SuggestTransfers proposes payments that bring every balance to zero.
// Greedy: the largest debtor pays the largest creditor until one side is settled.
func SuggestTransfers(balances []models.Balance) []Transfer {
	var creditors, debtors []models.Balance
	for _, b := range SortByNetBalance(balances) {
		if b.NetBalance > settleEpsilon {
			creditors = append(creditors, b)
		} else if b.NetBalance < -settleEpsilon {
			debtors = append(debtors, b)
		}
	}
	// Largest debt first.
	for l, r := 0, len(debtors)-1; l < r; l, r = l+1, r-1 {
		debtors[l], debtors[r] = debtors[r], debtors[l]
	}

	debtLeft := make([]float64, len(debtors))
	for i, d := range debtors {
		debtLeft[i] = -d.NetBalance
	}
	creditLeft := make([]float64, len(creditors))
	for j, c := range creditors {
		creditLeft[j] = c.NetBalance
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtLeft[i]
		if creditLeft[j] < amount {
			amount = creditLeft[j]
		}

		if amount > settleEpsilon {
			transfers = append(transfers, Transfer{
				From:   debtors[i].ParticipantID,
				To:     creditors[j].ParticipantID,
				Amount: amount,
			})
		}

		debtLeft[i] -= amount
		creditLeft[j] -= amount

		if debtLeft[i] < settleEpsilon {
			i++
		}
		if creditLeft[j] < settleEpsilon {
			j++
		}
	}

	return transfers
}
