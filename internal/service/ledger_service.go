package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
)

// AdminProcedures are the LedgerService calls that change the ledger.
var AdminProcedures = []string{
	api.LedgerServiceCreateExpenseProcedure,
	api.LedgerServiceDeleteExpenseProcedure,
	api.LedgerServiceUpdatePaymentStatusProcedure,
}

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	store    storage.Store
	roster   models.Roster
	currency money.Policy
	logger   *slog.Logger
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService over the given store and roster.
func NewLedgerService(store storage.Store, roster models.Roster, currency money.Policy, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		roster:   roster,
		currency: currency,
		logger:   logger,
	}
}

// ListParticipants returns the configured roster.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListParticipantsResponse], error) {
	participants := make([]api.Participant, len(s.roster))
	for i, p := range s.roster {
		participants[i] = participantToAPI(p)
	}
	return connect.NewResponse(&api.ListParticipantsResponse{Participants: participants}), nil
}

// CreateExpense allocates splits for a new expense and stores it.
// Nothing is stored when allocation fails.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	msg := req.Msg

	amount, ok := money.ParseAmount(msg.Amount)
	if !ok {
		return nil, toConnectError(calculator.ErrInvalidAmount)
	}

	splits, err := calculator.AllocateSplits(calculator.AllocationRequest{
		Amount:       amount,
		Description:  msg.Description,
		Category:     models.Category(msg.Category),
		Date:         msg.Date,
		PaidBy:       msg.PaidBy,
		SplitType:    models.SplitType(msg.SplitType),
		Participants: msg.Participants,
		Proposals:    msg.Proposals,
	}, s.roster)
	if err != nil {
		s.logger.Warn("CreateExpense: rejected", "split_type", msg.SplitType, "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		Amount:        amount,
		Description:   msg.Description,
		Category:      models.Category(msg.Category),
		Date:          msg.Date,
		PaidBy:        msg.PaidBy,
		SplitType:     models.SplitType(msg.SplitType),
		Splits:        splits,
		PaymentStatus: models.PaymentStatus{},
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense: failed to store expense", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"paid_by", expense.PaidBy,
		"splits", len(expense.Splits),
	)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense, s.currency)}), nil
}

// GetExpense returns one expense with its per-participant settlement state.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	if err := validateMessage(req.Msg); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	statuses := calculator.ParticipantStatuses(expense)
	views := make([]api.ParticipantStatus, len(statuses))
	for i, st := range statuses {
		views[i] = statusToAPI(st, s.currency)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense:        expenseToAPI(expense, s.currency),
		Statuses:       views,
		Progress:       calculator.Progress(expense),
		AmountProgress: calculator.AmountProgress(expense),
	}), nil
}

// ListExpenses returns all expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListExpensesResponse], error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		s.logger.Error("ListExpenses: failed to load expenses", "error", err)
		return nil, toConnectError(err)
	}

	views := make([]api.Expense, len(expenses))
	for i := range expenses {
		views[i] = expenseToAPI(&expenses[i], s.currency)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: views}), nil
}

// DeleteExpense permanently removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := validateMessage(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// UpdatePaymentStatus records one participant's payment on an expense.
// Marking a share paid discards any partial amount.
func (s *LedgerService) UpdatePaymentStatus(ctx context.Context, req *connect.Request[api.UpdatePaymentStatusRequest]) (*connect.Response[api.UpdatePaymentStatusResponse], error) {
	msg := req.Msg
	if err := validateMessage(msg); err != nil {
		return nil, err
	}
	if !s.roster.Contains(msg.ParticipantID) {
		return nil, toConnectError(&calculator.UnknownParticipantError{ParticipantID: msg.ParticipantID})
	}

	entry := models.PaymentEntry{Paid: msg.Paid, PartialAmount: msg.PartialAmount}
	expense, err := s.store.UpdatePaymentStatus(ctx, msg.ExpenseID, msg.ParticipantID, entry)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment status updated",
		"expense_id", msg.ExpenseID,
		"participant_id", msg.ParticipantID,
		"paid", msg.Paid,
	)
	return connect.NewResponse(&api.UpdatePaymentStatusResponse{Expense: expenseToAPI(expense, s.currency)}), nil
}

// GetSummary returns balances (highest first), category totals and the overall total.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GetSummaryResponse], error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	summary, err := calculator.Aggregate(expenses, s.roster)
	if err != nil {
		// Stored data names someone who is no longer on the roster.
		s.logger.Error("GetSummary: failed to aggregate", "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	resp := &api.GetSummaryResponse{
		TotalExpenses:        summary.TotalExpenses,
		TotalExpensesDisplay: s.currency.Format(summary.TotalExpenses),
	}
	for _, b := range calculator.SortByNetBalance(summary.Balances) {
		resp.Balances = append(resp.Balances, balanceToAPI(b, s.currency))
	}
	for _, c := range models.Categories {
		total, ok := summary.CategoryTotals[c]
		if !ok {
			continue
		}
		resp.CategoryTotals = append(resp.CategoryTotals, api.CategoryTotal{
			Category:     string(c),
			Total:        total,
			TotalDisplay: s.currency.Format(total),
		})
	}
	for _, t := range calculator.SuggestTransfers(summary.Balances) {
		resp.Transfers = append(resp.Transfers, api.Transfer{
			From:          t.From,
			To:            t.To,
			Amount:        t.Amount,
			AmountDisplay: s.currency.Format(t.Amount),
		})
	}

	return connect.NewResponse(resp), nil
}

// GetUnpaidSummary returns each participant's outstanding amount in roster order.
func (s *LedgerService) GetUnpaidSummary(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GetUnpaidSummaryResponse], error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	unpaid, err := calculator.UnpaidTotals(expenses, s.roster)
	if err != nil {
		s.logger.Error("GetUnpaidSummary: failed to total", "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	resp := &api.GetUnpaidSummaryResponse{}
	for _, p := range s.roster {
		amount := unpaid[p.ID]
		resp.Participants = append(resp.Participants, api.UnpaidTotal{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			ColorTag:      p.ColorTag,
			Unpaid:        amount,
			UnpaidDisplay: s.currency.Format(amount),
			FullySettled:  calculator.FullySettled(amount),
		})
		resp.Total += amount
	}
	resp.TotalDisplay = s.currency.Format(resp.Total)
	resp.FullySettled = calculator.FullySettled(resp.Total)

	return connect.NewResponse(resp), nil
}
