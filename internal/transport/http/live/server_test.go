package livehttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ocobot/internal/gateway/exchange"
	"ocobot/internal/trader"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExchange struct{}

func (stubExchange) Name() string { return "stub" }
func (stubExchange) SymbolFilters(context.Context, string) (exchange.SymbolFilters, error) {
	return exchange.SymbolFilters{}, nil
}
func (stubExchange) Price(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (stubExchange) PlaceOrder(context.Context, exchange.OrderRequest) (*exchange.OrderResult, error) {
	return &exchange.OrderResult{OrderID: 1, Status: exchange.OrderStatusNew}, nil
}
func (stubExchange) CancelOrder(context.Context, string, int64) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tr := trader.New(stubExchange{}, nil, trader.Intent{
		Symbol: "BTCUSDT",
		Amount: decimal.RequireFromString("1"),
	})
	srv, err := NewServer(ServerConfig{Addr: ":0", Trader: tr})
	require.NoError(t, err)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLiveState(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/live/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbol string `json:"symbol"`
		State  struct {
			Phase string `json:"phase"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BTCUSDT", body.Symbol)
	assert.Equal(t, "ENTRY", body.State.Phase)
}

func TestNewServerRequiresTrader(t *testing.T) {
	_, err := NewServer(ServerConfig{Addr: ":0"})
	assert.Error(t, err)
}
