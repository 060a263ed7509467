package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
)

func TestAggregate(t *testing.T) {
	expenses := []models.Expense{
		{
			Amount:   90000,
			Category: models.CategoryFood,
			PaidBy:   "1",
			Splits: []models.Split{
				{ParticipantID: "1", OwedAmount: 30000},
				{ParticipantID: "2", OwedAmount: 30000},
				{ParticipantID: "3", OwedAmount: 30000},
			},
		},
		{
			Amount:   400000,
			Category: models.CategoryHotel,
			PaidBy:   "2",
			Splits: []models.Split{
				{ParticipantID: "2", OwedAmount: 200000},
				{ParticipantID: "4", OwedAmount: 200000},
			},
		},
		{
			Amount:   10000,
			Category: models.CategoryFood,
			PaidBy:   "3",
			Splits:   []models.Split{{ParticipantID: "1", OwedAmount: 10000}},
		},
	}

	summary, err := Aggregate(expenses, testRoster())
	require.NoError(t, err)

	require.Len(t, summary.Balances, 4)
	want := map[string]float64{
		"1": 90000 - 30000 - 10000,
		"2": 400000 - 30000 - 200000,
		"3": 10000 - 30000,
		"4": -200000,
	}
	for i, b := range summary.Balances {
		assert.Equal(t, testRoster()[i].ID, b.ParticipantID, "balances follow roster order")
		assert.Equal(t, testRoster()[i].DisplayName, b.DisplayName)
		assert.Equal(t, testRoster()[i].ColorTag, b.ColorTag)
		assert.Equal(t, want[b.ParticipantID], b.NetBalance)
	}

	assert.Equal(t, map[models.Category]float64{
		models.CategoryFood:  100000,
		models.CategoryHotel: 400000,
	}, summary.CategoryTotals)
	assert.Equal(t, 500000.0, summary.TotalExpenses)
}

func TestAggregate_Empty(t *testing.T) {
	summary, err := Aggregate(nil, testRoster())
	require.NoError(t, err)
	assert.Len(t, summary.Balances, 4)
	for _, b := range summary.Balances {
		assert.Zero(t, b.NetBalance)
	}
	assert.Empty(t, summary.CategoryTotals)
	assert.Zero(t, summary.TotalExpenses)
}

func TestAggregate_UnknownParticipant(t *testing.T) {
	tests := []struct {
		name    string
		expense models.Expense
		wantID  string
	}{
		{
			name:    "unknown payer",
			expense: models.Expense{Amount: 10, PaidBy: "9", Splits: []models.Split{{ParticipantID: "1", OwedAmount: 10}}},
			wantID:  "9",
		},
		{
			name:    "unknown split participant",
			expense: models.Expense{Amount: 10, PaidBy: "1", Splits: []models.Split{{ParticipantID: "8", OwedAmount: 10}}},
			wantID:  "8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate([]models.Expense{tt.expense}, testRoster())
			require.ErrorIs(t, err, ErrUnknownParticipant)
			var unknown *UnknownParticipantError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.wantID, unknown.ParticipantID)
		})
	}
}

func TestAggregate_BalanceConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	roster := testRoster()
	ids := roster.IDs()
	splitTypes := []models.SplitType{models.SplitEqual, models.SplitSpecific}

	var expenses []models.Expense
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(len(ids))
		subset := append([]string(nil), ids...)
		rng.Shuffle(len(subset), func(a, b int) { subset[a], subset[b] = subset[b], subset[a] })

		req := AllocationRequest{
			Amount:       float64(1+rng.Intn(1000000)) / 7,
			Description:  "random",
			Category:     models.Categories[rng.Intn(len(models.Categories))],
			Date:         "2024-07-14",
			PaidBy:       ids[rng.Intn(len(ids))],
			SplitType:    splitTypes[rng.Intn(len(splitTypes))],
			Participants: subset[:n],
		}
		splits, err := AllocateSplits(req, roster)
		require.NoError(t, err)

		expenses = append(expenses, models.Expense{
			Amount:   req.Amount,
			Category: req.Category,
			PaidBy:   req.PaidBy,
			Splits:   splits,
		})
	}

	summary, err := Aggregate(expenses, roster)
	require.NoError(t, err)

	var net float64
	for _, b := range summary.Balances {
		net += b.NetBalance
	}
	assert.InDelta(t, 0, net, 1e-6)
}

func TestSortByNetBalance(t *testing.T) {
	balances := []models.Balance{
		{ParticipantID: "1", NetBalance: -10},
		{ParticipantID: "2", NetBalance: 50},
		{ParticipantID: "3", NetBalance: 0},
		{ParticipantID: "4", NetBalance: 50},
	}

	sorted := SortByNetBalance(balances)
	var order []string
	for _, b := range sorted {
		order = append(order, b.ParticipantID)
	}
	assert.Equal(t, []string{"2", "4", "3", "1"}, order)
	assert.Equal(t, "1", balances[0].ParticipantID, "input is not reordered")
}

func TestSuggestTransfers(t *testing.T) {
	balances := []models.Balance{
		{ParticipantID: "1", NetBalance: 50000},
		{ParticipantID: "2", NetBalance: 170000},
		{ParticipantID: "3", NetBalance: -20000},
		{ParticipantID: "4", NetBalance: -200000},
	}

	transfers := SuggestTransfers(balances)
	assert.Equal(t, []Transfer{
		{From: "4", To: "2", Amount: 170000},
		{From: "4", To: "1", Amount: 30000},
		{From: "3", To: "1", Amount: 20000},
	}, transfers)
}

func TestSuggestTransfers_AllSettled(t *testing.T) {
	balances := []models.Balance{
		{ParticipantID: "1", NetBalance: 0.001},
		{ParticipantID: "2", NetBalance: -0.001},
	}
	assert.Empty(t, SuggestTransfers(balances))
}
