package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockledger/internal/ledger"
	"stockledger/internal/service"
	"stockledger/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, st ledger.Store, oracle service.PriceOracle) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(st, oracle, logrus.New()).Register(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	res := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	}
	return w.Code, res
}

func TestPortfolioLifecycle(t *testing.T) {
	st := store.NewMemory()
	oracle := service.NewStaticOracle(map[string]float64{"ACME": 12})
	r := newRouter(t, st, oracle)

	code, res := do(t, r, "POST", "/portfolio/Main/lots", map[string]interface{}{"symbol": "acme", "amount": 5, "price": 10})
	require.Equal(t, http.StatusCreated, code, res)
	assert.Equal(t, "ACME", res["symbol"])

	code, res = do(t, r, "POST", "/portfolio/main/lots", map[string]interface{}{"symbol": "ACME", "amount": 3})
	require.Equal(t, http.StatusCreated, code, res)
	assert.Equal(t, 12.0, res["price"])

	code, res = do(t, r, "GET", "/profit/main/acme", nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "10.0000", res["profit"])

	code, res = do(t, r, "GET", "/profit/MAIN", nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "10.0000", res["total_profit"])

	code, res = do(t, r, "GET", "/portfolio/main", nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, true, res["complete"])
	assert.Len(t, res["items"], 1)

	code, res = do(t, r, "POST", "/portfolio/main/remove", map[string]interface{}{"symbol": "ACME", "amount": 6})
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, 6.0, res["removed"])
	assert.Equal(t, true, res["held"])

	code, res = do(t, r, "POST", "/portfolio/main/remove", map[string]interface{}{"symbol": "ACME"})
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, 2.0, res["removed"])
	assert.Equal(t, false, res["held"])

	// state survived in the store
	l, err := ledger.Open(context.Background(), "main", st, oracle, logrus.New())
	require.NoError(t, err)
	assert.Zero(t, l.Len())
}

func TestErrorStatuses(t *testing.T) {
	oracle := service.OracleFunc(func(context.Context, string) (float64, error) {
		return 0, service.ErrFeedUnavailable
	})
	r := newRouter(t, store.NewMemory(), oracle)

	code, _ := do(t, r, "POST", "/portfolio/p/lots", map[string]interface{}{"symbol": "ACME"})
	assert.Equal(t, http.StatusBadRequest, code, "missing amount")

	code, _ = do(t, r, "POST", "/portfolio/p/lots", map[string]interface{}{"symbol": "ACME", "amount": -1, "price": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, "POST", "/portfolio/p/lots", map[string]interface{}{"symbol": "DOWN", "amount": 1})
	assert.Equal(t, http.StatusBadGateway, code)

	code, _ = do(t, r, "POST", "/portfolio/p/lots", map[string]interface{}{"symbol": "ACME", "amount": 1, "price": 5})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, r, "POST", "/portfolio/p/remove", map[string]interface{}{"symbol": "ACME", "amount": 0, "price": 5})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, "POST", "/portfolio/p/remove", map[string]interface{}{"symbol": "NOPE"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, "GET", "/profit/p/ACME", nil)
	assert.Equal(t, http.StatusBadGateway, code)

	code, res := do(t, r, "GET", "/portfolio/p", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, res["complete"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(ledger.ErrInvalidArguments))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("x: %w", ledger.ErrSymbolNotFound)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(service.ErrInvalidSymbol))
	assert.Equal(t, http.StatusBadGateway, statusFor(fmt.Errorf("%w: %w", ledger.ErrPriceUnavailable, service.ErrFeedUnavailable)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk full")))
}

func TestSetAndDeleteSymbol(t *testing.T) {
	r := newRouter(t, store.NewMemory(), service.NewStaticOracle(map[string]float64{"ACME": 1}))

	code, res := do(t, r, "PUT", "/portfolio/p/lots/acme", map[string]interface{}{"amount": 4, "price": 2.5, "timestamp": 100})
	require.Equal(t, http.StatusOK, code, res)
	assert.Len(t, res["lots"], 1)

	code, _ = do(t, r, "PUT", "/portfolio/p/lots/acme", map[string]interface{}{"amount": -4, "price": 2.5})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, "DELETE", "/portfolio/p/lots/ACME", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, "DELETE", "/portfolio/p/lots/ACME", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
