package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// backends returns a fresh SQLite store and, when TEST_DATABASE_URL is set, a Postgres one.
func backends(t *testing.T) map[string]*Store {
	t.Helper()
	ctx := context.Background()

	stores := map[string]*Store{}

	lite, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })
	stores[DialectSQLite] = lite

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		pg, err := NewPostgres(ctx, url)
		require.NoError(t, err)
		_, err = pg.db.ExecContext(ctx, "TRUNCATE expenses, users")
		require.NoError(t, err)
		t.Cleanup(func() { pg.Close() })
		stores[DialectPostgres] = pg
	}

	return stores
}

func ptr(v float64) *float64 { return &v }

func newExpense(date, description string) *models.Expense {
	return &models.Expense{
		Amount:      90000,
		Description: description,
		Category:    models.CategoryFood,
		Date:        date,
		PaidBy:      "1",
		SplitType:   models.SplitEqual,
		Splits: []models.Split{
			{ParticipantID: "1", OwedAmount: 30000},
			{ParticipantID: "2", OwedAmount: 30000},
			{ParticipantID: "3", OwedAmount: 30000},
		},
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	assert.Error(t, err)
}

func TestExpenseRoundTrip(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			expense := newExpense("2024-05-01", "Dinner")
			expense.PaymentStatus = models.PaymentStatus{"2": {Paid: false, PartialAmount: ptr(10000)}}
			require.NoError(t, store.CreateExpense(ctx, expense))
			assert.NotEmpty(t, expense.ID)
			assert.NotZero(t, expense.CreatedAt)

			got, err := store.GetExpense(ctx, expense.ID)
			require.NoError(t, err)
			assert.Equal(t, expense.Amount, got.Amount)
			assert.Equal(t, "Dinner", got.Description)
			assert.Equal(t, models.CategoryFood, got.Category)
			assert.Equal(t, "2024-05-01", got.Date)
			assert.Equal(t, "1", got.PaidBy)
			assert.Equal(t, models.SplitEqual, got.SplitType)
			assert.Equal(t, expense.Splits, got.Splits)
			require.Contains(t, got.PaymentStatus, "2")
			require.NotNil(t, got.PaymentStatus["2"].PartialAmount)
			assert.Equal(t, 10000.0, *got.PaymentStatus["2"].PartialAmount)
		})
	}
}

func TestGetExpense_NotFound(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetExpense(context.Background(), "missing")
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestListExpenses_Order(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			older := newExpense("2024-05-01", "older")
			older.CreatedAt = 100
			sameDayFirst := newExpense("2024-05-03", "same day first")
			sameDayFirst.CreatedAt = 200
			sameDaySecond := newExpense("2024-05-03", "same day second")
			sameDaySecond.CreatedAt = 300

			for _, e := range []*models.Expense{older, sameDayFirst, sameDaySecond} {
				require.NoError(t, store.CreateExpense(ctx, e))
			}

			list, err := store.ListExpenses(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "same day second", list[0].Description)
			assert.Equal(t, "same day first", list[1].Description)
			assert.Equal(t, "older", list[2].Description)
		})
	}
}

func TestListExpenses_Empty(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			list, err := store.ListExpenses(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			expense := newExpense("2024-05-01", "Ferry")
			require.NoError(t, store.CreateExpense(ctx, expense))

			require.NoError(t, store.DeleteExpense(ctx, expense.ID))

			_, err := store.GetExpense(ctx, expense.ID)
			assert.ErrorIs(t, err, storage.ErrNotFound)

			err = store.DeleteExpense(ctx, expense.ID)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			expense := newExpense("2024-05-01", "Hotel")
			require.NoError(t, store.CreateExpense(ctx, expense))

			updated, err := store.UpdatePaymentStatus(ctx, expense.ID, "2", models.PaymentEntry{PartialAmount: ptr(5000)})
			require.NoError(t, err)
			require.NotNil(t, updated.PaymentStatus["2"].PartialAmount)
			assert.Equal(t, 5000.0, *updated.PaymentStatus["2"].PartialAmount)

			// Other entries are left untouched
			_, err = store.UpdatePaymentStatus(ctx, expense.ID, "3", models.PaymentEntry{Paid: true})
			require.NoError(t, err)

			// Paid drops the partial amount
			updated, err = store.UpdatePaymentStatus(ctx, expense.ID, "2", models.PaymentEntry{Paid: true, PartialAmount: ptr(5000)})
			require.NoError(t, err)
			assert.True(t, updated.PaymentStatus["2"].Paid)
			assert.Nil(t, updated.PaymentStatus["2"].PartialAmount)

			got, err := store.GetExpense(ctx, expense.ID)
			require.NoError(t, err)
			assert.Len(t, got.PaymentStatus, 2)
			assert.True(t, got.PaymentStatus["2"].Paid)
			assert.Nil(t, got.PaymentStatus["2"].PartialAmount)
			assert.True(t, got.PaymentStatus["3"].Paid)
		})
	}
}

func TestUpdatePaymentStatus_NotFound(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.UpdatePaymentStatus(context.Background(), "missing", "1", models.PaymentEntry{Paid: true})
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestUpdatePaymentStatus_ConcurrentParticipants(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			expense := newExpense("2024-05-01", "Tour")
			require.NoError(t, store.CreateExpense(ctx, expense))

			var wg sync.WaitGroup
			for _, id := range []string{"1", "2", "3"} {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					_, err := store.UpdatePaymentStatus(ctx, expense.ID, id, models.PaymentEntry{Paid: true})
					assert.NoError(t, err)
				}(id)
			}
			wg.Wait()

			got, err := store.GetExpense(ctx, expense.ID)
			require.NoError(t, err)
			assert.Len(t, got.PaymentStatus, 3)
		})
	}
}

func TestUsers(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			user := models.NewUser("alice@example.com", "Alice", "hash", models.RoleAdmin)
			require.NoError(t, store.CreateUser(ctx, user))

			byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)
			assert.Equal(t, models.RoleAdmin, byEmail.Role)

			byID, err := store.GetUserByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "Alice", byID.DisplayName)

			_, err = store.GetUserByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, storage.ErrNotFound)

			dup := models.NewUser("alice@example.com", "Other", "hash", models.RoleViewer)
			assert.Error(t, store.CreateUser(ctx, dup))
		})
	}
}
