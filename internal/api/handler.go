package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ryan-Dante/stock-price-checker/internal/domain/dto"
	"github.com/Ryan-Dante/stock-price-checker/internal/quote"
	"github.com/Ryan-Dante/stock-price-checker/internal/service"
	"github.com/Ryan-Dante/stock-price-checker/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handler provides the HTTP handler for the stock-prices endpoint.
//
// Responsibilities:
//   - Validate and normalize incoming query parameters
//   - Derive the caller identity from the client IP (never echoed back)
//   - Translate service results and failures into JSON responses
type Handler struct {
	svc service.StockService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.StockService) *Handler {
	return &Handler{svc: svc}
}

// GetStockPrices handles GET /api/stock-prices requests.
//
// Query Parameters:
//   - stock (string, 1 or 2 occurrences, required): ticker symbol(s).
//   - like (string, optional): "true"/"1" registers a like per ticker,
//     counted at most once per caller identity.
//
// Responses:
//   - 200 OK: {"stockData": {...}} for one ticker, {"stockData": [...]} for two.
//   - 400 Bad Request: missing stock parameter, or more than two.
//   - 500 Internal Server Error: likes store or upstream quote failure.
//
// GetStockPrices godoc
// @Summary      Get stock price(s) and like counts
// @Description  Returns current price plus likes for one ticker, or prices plus relative likes for a pair
// @Tags         stock-prices
// @Accept       json
// @Produce      json
// @Param        stock  query     string  true   "Stock ticker, repeatable once" example(goog)
// @Param        like   query     bool    false  "Register a like for each requested ticker"
// @Success      200    {object}  dto.StockResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/stock-prices [get]
func (h *Handler) GetStockPrices(c *gin.Context) {
	// ─── Validate "stock" params ──────────────────────────────
	raw := c.QueryArray("stock")
	stocks := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			stocks = append(stocks, s)
		}
	}
	if len(stocks) == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("stock is required", nil))
		return
	}
	if len(stocks) > 2 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("at most two stocks may be requested", nil))
		return
	}

	like := likeRequested(c.Query("like"))

	// ─── Query service (with request context) ─────────────────
	quotes, err := h.svc.GetStockPrices(c.Request.Context(), stocks, like, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrStoreUnavailable):
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("database error", err))
		case errors.Is(err, quote.ErrPriceFetch):
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("error fetching stock price data", err))
		default:
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", err))
		}
		return
	}

	// ─── Build and return response DTO ────────────────────────
	c.JSON(http.StatusOK, dto.NewStockResponse(quotes))
}

// likeRequested interprets the boolean-like query flag.
func likeRequested(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
