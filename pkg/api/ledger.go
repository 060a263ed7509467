package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "tripledger.v1.LedgerService"

// Procedure names of LedgerService, usable as HTTP routes and in interceptors.
const (
	LedgerServiceListParticipantsProcedure    = "/tripledger.v1.LedgerService/ListParticipants"
	LedgerServiceCreateExpenseProcedure       = "/tripledger.v1.LedgerService/CreateExpense"
	LedgerServiceGetExpenseProcedure          = "/tripledger.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure        = "/tripledger.v1.LedgerService/ListExpenses"
	LedgerServiceDeleteExpenseProcedure       = "/tripledger.v1.LedgerService/DeleteExpense"
	LedgerServiceUpdatePaymentStatusProcedure = "/tripledger.v1.LedgerService/UpdatePaymentStatus"
	LedgerServiceGetSummaryProcedure          = "/tripledger.v1.LedgerService/GetSummary"
	LedgerServiceGetUnpaidSummaryProcedure    = "/tripledger.v1.LedgerService/GetUnpaidSummary"
)

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	ListParticipants(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListParticipantsResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error)
	UpdatePaymentStatus(context.Context, *connect.Request[UpdatePaymentStatusRequest]) (*connect.Response[UpdatePaymentStatusResponse], error)
	GetSummary(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[GetSummaryResponse], error)
	GetUnpaidSummary(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[GetUnpaidSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec[connect.HandlerOption](connect.WithCodec(Codec{}), opts)

	routes := map[string]http.Handler{
		LedgerServiceListParticipantsProcedure:    connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		LedgerServiceCreateExpenseProcedure:       connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		LedgerServiceGetExpenseProcedure:          connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...),
		LedgerServiceListExpensesProcedure:        connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceDeleteExpenseProcedure:       connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceUpdatePaymentStatusProcedure: connect.NewUnaryHandler(LedgerServiceUpdatePaymentStatusProcedure, svc.UpdatePaymentStatus, opts...),
		LedgerServiceGetSummaryProcedure:          connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, opts...),
		LedgerServiceGetUnpaidSummaryProcedure:    connect.NewUnaryHandler(LedgerServiceGetUnpaidSummaryProcedure, svc.GetUnpaidSummary, opts...),
	}
	return "/" + LedgerServiceName + "/", routeHandler(routes)
}

// LedgerServiceClient is a client for LedgerService.
type LedgerServiceClient struct {
	listParticipants    *connect.Client[emptypb.Empty, ListParticipantsResponse]
	createExpense       *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense          *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses        *connect.Client[emptypb.Empty, ListExpensesResponse]
	deleteExpense       *connect.Client[DeleteExpenseRequest, emptypb.Empty]
	updatePaymentStatus *connect.Client[UpdatePaymentStatusRequest, UpdatePaymentStatusResponse]
	getSummary          *connect.Client[emptypb.Empty, GetSummaryResponse]
	getUnpaidSummary    *connect.Client[emptypb.Empty, GetUnpaidSummaryResponse]
}

// NewLedgerServiceClient constructs a client for LedgerService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opts = withCodec[connect.ClientOption](connect.WithCodec(Codec{}), opts)
	return &LedgerServiceClient{
		listParticipants:    connect.NewClient[emptypb.Empty, ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		createExpense:       connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		getExpense:          connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:        connect.NewClient[emptypb.Empty, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		deleteExpense:       connect.NewClient[DeleteExpenseRequest, emptypb.Empty](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		updatePaymentStatus: connect.NewClient[UpdatePaymentStatusRequest, UpdatePaymentStatusResponse](httpClient, baseURL+LedgerServiceUpdatePaymentStatusProcedure, opts...),
		getSummary:          connect.NewClient[emptypb.Empty, GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, opts...),
		getUnpaidSummary:    connect.NewClient[emptypb.Empty, GetUnpaidSummaryResponse](httpClient, baseURL+LedgerServiceGetUnpaidSummaryProcedure, opts...),
	}
}

func (c *LedgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdatePaymentStatus(ctx context.Context, req *connect.Request[UpdatePaymentStatusRequest]) (*connect.Response[UpdatePaymentStatusResponse], error) {
	return c.updatePaymentStatus.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetUnpaidSummary(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[GetUnpaidSummaryResponse], error) {
	return c.getUnpaidSummary.CallUnary(ctx, req)
}

func routeHandler(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
