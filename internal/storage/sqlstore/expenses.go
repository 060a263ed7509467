package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// expenseRow is the column layout of the expenses table.
type expenseRow struct {
	ID            string  `db:"id"`
	Amount        float64 `db:"amount"`
	Description   string  `db:"description"`
	Category      string  `db:"category"`
	ExpenseDate   string  `db:"expense_date"`
	PaidBy        string  `db:"paid_by"`
	SplitType     string  `db:"split_type"`
	Splits        string  `db:"splits"`
	PaymentStatus string  `db:"payment_status"`
	CreatedAt     int64   `db:"created_at"`
}

// splitJSON and paymentJSON are the stored JSON shapes of the splits and
// payment_status columns.
type splitJSON struct {
	ParticipantID string  `json:"participant_id"`
	OwedAmount    float64 `json:"owed_amount"`
}

type paymentJSON struct {
	Paid          bool     `json:"paid"`
	PartialAmount *float64 `json:"partial_amount,omitempty"`
}

const expenseColumns = `id, amount, description, category, expense_date, paid_by, split_type, splits, payment_status, created_at`

func toRow(e *models.Expense) (*expenseRow, error) {
	splits := make([]splitJSON, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = splitJSON{ParticipantID: s.ParticipantID, OwedAmount: s.OwedAmount}
	}
	splitsJSON, err := json.Marshal(splits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode splits: %w", err)
	}

	statusJSON, err := encodePaymentStatus(e.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &expenseRow{
		ID:            e.ID,
		Amount:        e.Amount,
		Description:   e.Description,
		Category:      string(e.Category),
		ExpenseDate:   e.Date,
		PaidBy:        e.PaidBy,
		SplitType:     string(e.SplitType),
		Splits:        string(splitsJSON),
		PaymentStatus: statusJSON,
		CreatedAt:     e.CreatedAt,
	}, nil
}

func (r *expenseRow) toModel() (*models.Expense, error) {
	var splits []splitJSON
	if err := json.Unmarshal([]byte(r.Splits), &splits); err != nil {
		return nil, fmt.Errorf("failed to decode splits of expense %s: %w", r.ID, err)
	}
	status, err := decodePaymentStatus(r.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payment status of expense %s: %w", r.ID, err)
	}

	expense := &models.Expense{
		ID:            r.ID,
		Amount:        r.Amount,
		Description:   r.Description,
		Category:      models.Category(r.Category),
		Date:          r.ExpenseDate,
		PaidBy:        r.PaidBy,
		SplitType:     models.SplitType(r.SplitType),
		Splits:        make([]models.Split, len(splits)),
		PaymentStatus: status,
		CreatedAt:     r.CreatedAt,
	}
	for i, s := range splits {
		expense.Splits[i] = models.Split{ParticipantID: s.ParticipantID, OwedAmount: s.OwedAmount}
	}
	return expense, nil
}

func encodePaymentStatus(status models.PaymentStatus) (string, error) {
	stored := make(map[string]paymentJSON, len(status))
	for id, entry := range status {
		stored[id] = paymentJSON{Paid: entry.Paid, PartialAmount: entry.PartialAmount}
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment status: %w", err)
	}
	return string(b), nil
}

func decodePaymentStatus(raw string) (models.PaymentStatus, error) {
	status := models.PaymentStatus{}
	if raw == "" {
		return status, nil
	}
	var stored map[string]paymentJSON
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	for id, entry := range stored {
		status[id] = models.PaymentEntry{Paid: entry.Paid, PartialAmount: entry.PartialAmount}
	}
	return status, nil
}

// CreateExpense persists a new expense to the database.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	row, err := toRow(expense)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (:id, :amount, :description, :category, :expense_date, :paid_by, :split_type, :splits, :payment_status, :created_at)`,
		row,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var row expenseRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`),
		expenseID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return row.toModel()
}

// ListExpenses returns every expense, newest date first; ties go to the most recently created.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	var rows []expenseRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY expense_date DESC, created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]models.Expense, 0, len(rows))
	for i := range rows {
		expense, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, nil
}

// DeleteExpense removes an expense by ID.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM expenses WHERE id = ?"), expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	return nil
}

// UpdatePaymentStatus merges one participant's entry into the stored status map.
// A paid entry drops any partial amount.
func (s *Store) UpdatePaymentStatus(ctx context.Context, expenseID, participantID string, entry models.PaymentEntry) (*models.Expense, error) {
	if entry.Paid {
		entry.PartialAmount = nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`
	if s.dialect == DialectPostgres {
		query += " FOR UPDATE"
	}

	var row expenseRow
	err = tx.GetContext(ctx, &row, tx.Rebind(query), expenseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense, err := row.toModel()
	if err != nil {
		return nil, err
	}
	expense.PaymentStatus[participantID] = entry

	statusJSON, err := encodePaymentStatus(expense.PaymentStatus)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("UPDATE expenses SET payment_status = ? WHERE id = ?"),
		statusJSON, expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return expense, nil
}
