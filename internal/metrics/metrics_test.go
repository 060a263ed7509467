package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRPC(t *testing.T) {
	m := New()

	m.ObserveRPC("/tripledger.v1.LedgerService/GetSummary", "ok", 10*time.Millisecond)
	m.ObserveRPC("/tripledger.v1.LedgerService/GetSummary", "ok", 20*time.Millisecond)
	m.ObserveRPC("/tripledger.v1.LedgerService/CreateExpense", "invalid_argument", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/tripledger.v1.LedgerService/GetSummary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/tripledger.v1.LedgerService/CreateExpense", "invalid_argument")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.rpcDuration))
}

func TestSetOutstanding(t *testing.T) {
	m := New()
	at := time.Unix(1700000000, 0)

	m.SetOutstanding(map[string]float64{"1": 0, "2": 30000, "3": 15000}, at)
	assert.Equal(t, 30000.0, testutil.ToFloat64(m.outstanding.WithLabelValues("2")))
	assert.Equal(t, 45000.0, testutil.ToFloat64(m.outstandingTotal))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastReminder))

	// Participants missing from a later run are dropped
	m.SetOutstanding(map[string]float64{"2": 5000}, at)
	assert.Equal(t, 1, testutil.CollectAndCount(m.outstanding))
	assert.Equal(t, 5000.0, testutil.ToFloat64(m.outstandingTotal))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRPC("/tripledger.v1.AuthService/Login", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "tripledger_rpc_requests_total"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
