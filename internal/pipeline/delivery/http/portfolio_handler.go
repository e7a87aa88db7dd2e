package http

import (
	"net/http"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/service"
	"golang-stock-sentinel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for the paper-trading portfolio.
type PortfolioHandler struct {
	ledger service.PaperLedger
	logger *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ledger service.PaperLedger, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{ledger: ledger, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetPortfolio)
	g.GET("/transactions", h.GetTransactions)
}

// GetPortfolio godoc
// @Summary Get the portfolio summary and open positions
// @Tags portfolio
// @Produce  json
// @Success 200 {object} dto.PortfolioResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.ledger.Summary(ctx)
	if err != nil {
		h.logger.Error("Failed to get portfolio summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get portfolio"})
	}
	positions, err := h.ledger.Positions(ctx)
	if err != nil {
		h.logger.Error("Failed to get portfolio positions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get portfolio"})
	}

	return c.JSON(http.StatusOK, dto.PortfolioResponse{Summary: summary, Positions: positions})
}

// GetTransactions godoc
// @Summary List portfolio transactions, newest first
// @Tags portfolio
// @Produce  json
// @Param   limit   query   int false   "Maximum number of transactions, default 50"
// @Success 200 {array} entity.Transaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/transactions [get]
func (h *PortfolioHandler) GetTransactions(c echo.Context) error {
	limit, err := queryInt(c, "limit", 50)
	if err != nil || limit <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
	}

	txs, err := h.ledger.Transactions(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get transactions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get transactions"})
	}
	return c.JSON(http.StatusOK, txs)
}
