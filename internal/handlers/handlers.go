package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"stockledger/internal/ledger"
	"stockledger/internal/models"
	"stockledger/internal/report"
	"stockledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Handler serves named portfolios over HTTP. Ledgers are not safe for
// concurrent use, so every request holds mu.
type Handler struct {
	store  ledger.Store
	oracle service.PriceOracle
	log    *logrus.Logger

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
}

func NewHandler(st ledger.Store, oracle service.PriceOracle, log *logrus.Logger) *Handler {
	return &Handler{store: st, oracle: oracle, log: log, ledgers: map[string]*ledger.Ledger{}}
}

// Register mounts the portfolio routes.
func (h *Handler) Register(rg gin.IRouter) {
	rg.GET("/portfolio/:name", h.GetPortfolio)
	rg.POST("/portfolio/:name/lots", h.PostLot)
	rg.POST("/portfolio/:name/remove", h.PostRemove)
	rg.PUT("/portfolio/:name/lots/:symbol", h.PutSymbol)
	rg.DELETE("/portfolio/:name/lots/:symbol", h.DeleteSymbol)
	rg.GET("/profit/:name", h.GetTotalProfit)
	rg.GET("/profit/:name/:symbol", h.GetProfit)
}

// ledger returns the cached ledger of name, opening it on first use.
// Callers hold h.mu.
func (h *Handler) ledger(ctx context.Context, name string) (*ledger.Ledger, error) {
	key := ledger.NormalizeName(name)
	if l, ok := h.ledgers[key]; ok {
		return l, nil
	}
	l, err := ledger.Open(ctx, key, h.store, h.oracle, h.log)
	if err != nil {
		return nil, err
	}
	h.ledgers[key] = l
	return l, nil
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("%s: %v", msg, err)
	} else {
		h.log.Warnf("%s: %v", msg, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrInvalidArguments):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSymbol):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrPriceUnavailable),
		errors.Is(err, service.ErrFeedUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type AddRequest struct {
	Symbol    string  `json:"symbol" binding:"required"`
	Amount    *int64  `json:"amount" binding:"required"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

func (h *Handler) PostLot(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid post body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	entry, err := l.Add(ctx, req.Symbol, *req.Amount, ledger.WithPrice(req.Price), ledger.WithTimestamp(req.Timestamp))
	if err != nil {
		h.fail(c, "add lot", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type RemoveRequest struct {
	Symbol string   `json:"symbol" binding:"required"`
	Amount *int64   `json:"amount"`
	Price  *float64 `json:"price"`
}

func (h *Handler) PostRemove(c *gin.Context) {
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid remove body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var opts []ledger.RemoveOption
	if req.Amount != nil {
		opts = append(opts, ledger.ByAmount(*req.Amount))
	}
	if req.Price != nil {
		opts = append(opts, ledger.ByPrice(*req.Price))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	removed, err := l.Remove(ctx, req.Symbol, opts...)
	if err != nil {
		h.fail(c, "remove shares", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": req.Symbol, "removed": removed, "held": l.Has(req.Symbol)})
}

func (h *Handler) PutSymbol(c *gin.Context) {
	var rec models.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.log.Warnf("invalid record body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	symbol := c.Param("symbol")
	if err := l.Set(ctx, symbol, rec); err != nil {
		h.fail(c, "set symbol", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "lots": l.Lots(symbol)})
}

func (h *Handler) DeleteSymbol(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	if err := l.Delete(ctx, c.Param("symbol")); err != nil {
		h.fail(c, "delete symbol", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	c.JSON(http.StatusOK, report.Build(ctx, l))
}

func (h *Handler) GetProfit(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	profit, err := l.ProfitFor(ctx, c.Param("symbol"))
	if err != nil {
		h.fail(c, "profit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": c.Param("symbol"), "profit": decimal.NewFromFloat(profit).StringFixed(4)})
}

func (h *Handler) GetTotalProfit(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	l, err := h.ledger(ctx, c.Param("name"))
	if err != nil {
		h.fail(c, "open portfolio", err)
		return
	}
	profit, err := l.TotalProfit(ctx)
	if err != nil {
		h.fail(c, "total profit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": l.Name(), "total_profit": decimal.NewFromFloat(profit).StringFixed(4)})
}
