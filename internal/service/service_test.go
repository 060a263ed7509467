package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage/sqlstore"
	"github.com/mmynk/tripledger/pkg/api"
)

const adminEmail = "admin@example.com"

func testRoster() models.Roster {
	return models.Roster{
		{ID: "1", DisplayName: "Laode", ColorTag: "#3b82f6"},
		{ID: "2", DisplayName: "Frankie", ColorTag: "#ef4444"},
		{ID: "3", DisplayName: "Rasad", ColorTag: "#10b981"},
		{ID: "4", DisplayName: "Fajar", ColorTag: "#f59e0b"},
	}
}

type testEnv struct {
	ledger     *api.LedgerServiceClient
	auth       *api.AuthServiceClient
	store      *sqlstore.Store
	adminToken string
	viewToken  string
}

// setupTestServer starts both services behind the production interceptor chain
// with a temporary SQLite database, and registers one admin and one viewer.
func setupTestServer(t *testing.T, publicView bool) *testEnv {
	t.Helper()

	store, err := sqlstore.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	readAuth := middleware.RequireAuth(jwtManager)
	if publicView {
		readAuth = middleware.OptionalAuth(jwtManager)
	}

	ledgerSvc := NewLedgerService(store, testRoster(), money.DefaultPolicy, logger)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(ledgerSvc, connect.WithInterceptors(
		readAuth,
		middleware.RequireAdmin(AdminProcedures...),
	))

	authSvc := NewAuthService(
		auth.NewPasswordAuthenticator(store),
		jwtManager,
		store,
		func(email string) bool { return email == adminEmail },
		logger,
	)
	authPath, authHandler := api.NewAuthServiceHandler(authSvc, connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, PublicAuthProcedures...),
	))

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(authPath, authHandler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env := &testEnv{
		ledger: api.NewLedgerServiceClient(http.DefaultClient, server.URL),
		auth:   api.NewAuthServiceClient(http.DefaultClient, server.URL),
		store:  store,
	}
	env.adminToken = env.register(t, adminEmail)
	env.viewToken = env.register(t, "viewer@example.com")
	return env
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		Password:    "password123",
		DisplayName: "Test",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return resp.Msg.Token
}

// withToken attaches a bearer token to a request.
func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
