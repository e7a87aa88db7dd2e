package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyRequest asks the ledger to open a position.
type BuyRequest struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
}

// BuyResult is the risk-gate outcome. Rejections are results, not errors.
type BuyResult struct {
	Success bool            `json:"success"`
	Reason  string          `json:"reason,omitempty"`
	Shares  int64           `json:"shares,omitempty"`
	Cost    decimal.Decimal `json:"cost"`
}

const (
	ReasonInvalidPrice       = "invalid price"
	ReasonAlreadyHeld        = "already held"
	ReasonInsufficientForLot = "insufficient funds for minimum lot"
	ReasonInsufficientCash   = "insufficient cash"
)

// PortfolioSummary is the account overview.
type PortfolioSummary struct {
	InitialCash       decimal.Decimal `json:"initial_cash"`
	Cash              decimal.Decimal `json:"cash"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalMarketValue  decimal.Decimal `json:"total_market_value"`
	TotalPnL          decimal.Decimal `json:"total_pnl"`
	TotalPnLPct       decimal.Decimal `json:"total_pnl_pct"`
	TotalAssets       decimal.Decimal `json:"total_assets"`
	PositionCount     int             `json:"position_count"`
	TransactionsCount int             `json:"transactions_count"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
