package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TransactionBuy is the only trade type the paper ledger records.
const TransactionBuy = "BUY"

// Position is a held instrument. A symbol is held at most once.
type Position struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Shares        int64           `json:"shares"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	PnLPct        decimal.Decimal `json:"pnl_pct"`
	BuyDate       string          `json:"buy_date"`
}

// Transaction is one entry in the append-only trade log.
type Transaction struct {
	Type      string          `json:"type"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Timestamp time.Time       `json:"timestamp"`
}

// PortfolioAccount is the simulated account state. It is stored as a single JSON document.
type PortfolioAccount struct {
	InitialCash  decimal.Decimal      `json:"initial_cash"`
	Cash         decimal.Decimal      `json:"cash"`
	Positions    map[string]*Position `json:"positions"`
	Transactions []Transaction        `json:"transactions"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewPortfolioAccount creates an empty account funded with initialCash.
func NewPortfolioAccount(initialCash decimal.Decimal, now time.Time) *PortfolioAccount {
	return &PortfolioAccount{
		InitialCash:  initialCash,
		Cash:         initialCash,
		Positions:    make(map[string]*Position),
		Transactions: []Transaction{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy so a failed write can be rolled back.
func (a *PortfolioAccount) Clone() *PortfolioAccount {
	c := *a
	c.Positions = make(map[string]*Position, len(a.Positions))
	for k, p := range a.Positions {
		pc := *p
		c.Positions[k] = &pc
	}
	c.Transactions = append([]Transaction(nil), a.Transactions...)
	return &c
}

// PortfolioDocument is the persisted row holding a PortfolioAccount as JSON.
type PortfolioDocument struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:64;not null;uniqueIndex" json:"name"`
	State     datatypes.JSON `json:"state"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PortfolioDocument) TableName() string {
	return "portfolio_accounts"
}
