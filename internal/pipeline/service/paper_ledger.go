package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LedgerConfig sizes the simulated account.
type LedgerConfig struct {
	Name           string
	InitialCash    decimal.Decimal
	TargetNotional decimal.Decimal
	LotSize        int64
}

// DefaultLedgerConfig funds one million with fifty thousand per position in 100-share lots.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		Name:           "default",
		InitialCash:    decimal.NewFromInt(1_000_000),
		TargetNotional: decimal.NewFromInt(50_000),
		LotSize:        100,
	}
}

// PaperLedger is the simulated trading account. Risk-gate rejections are results; errors are infrastructure failures.
type PaperLedger interface {
	Buy(ctx context.Context, req dto.BuyRequest) (dto.BuyResult, error)
	UpdatePrices(ctx context.Context, prices map[string]float64) error
	Summary(ctx context.Context) (dto.PortfolioSummary, error)
	Positions(ctx context.Context) ([]entity.Position, error)
	Transactions(ctx context.Context, limit int) ([]entity.Transaction, error)
}

// NewPaperLedger creates a new PaperLedger. The account is loaded on first use and created when missing.
func NewPaperLedger(repo repository.PortfolioRepository, cfg LedgerConfig, now utils.Clock, log *logger.Logger) PaperLedger {
	def := DefaultLedgerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if !cfg.InitialCash.IsPositive() {
		cfg.InitialCash = def.InitialCash
	}
	if !cfg.TargetNotional.IsPositive() {
		cfg.TargetNotional = def.TargetNotional
	}
	if cfg.LotSize <= 0 {
		cfg.LotSize = def.LotSize
	}
	return &paperLedger{repo: repo, cfg: cfg, now: now, logger: log}
}

type paperLedger struct {
	mu      sync.Mutex
	repo    repository.PortfolioRepository
	cfg     LedgerConfig
	now     utils.Clock
	logger  *logger.Logger
	account *entity.PortfolioAccount
}

// load returns the in-memory account, reading it from storage the first time. Callers hold mu.
func (l *paperLedger) load(ctx context.Context) (*entity.PortfolioAccount, error) {
	if l.account != nil {
		return l.account, nil
	}
	account, err := l.repo.Load(ctx, l.cfg.Name)
	if errors.Is(err, repository.ErrPortfolioNotFound) {
		l.logger.InfoContext(ctx, "Creating paper trading account",
			logger.StringField("name", l.cfg.Name),
			logger.StringField("initial_cash", l.cfg.InitialCash.StringFixed(2)),
		)
		account = entity.NewPortfolioAccount(l.cfg.InitialCash, l.now().UTC())
	} else if err != nil {
		return nil, fmt.Errorf("failed to load portfolio %s: %w", l.cfg.Name, err)
	}
	l.account = account
	return account, nil
}

// LotShares returns the largest whole-lot share count whose cost stays within target.
func LotShares(price, target decimal.Decimal, lotSize int64) int64 {
	if !price.IsPositive() || lotSize <= 0 {
		return 0
	}
	lot := decimal.NewFromInt(lotSize)
	shares := target.Div(price).Div(lot).Floor().Mul(lot).IntPart()
	for shares > 0 && decimal.NewFromInt(shares).Mul(price).GreaterThan(target) {
		shares -= lotSize
	}
	if shares < 0 {
		return 0
	}
	return shares
}

// Buy opens a position after the risk gates pass: valid price, not already held, at least one lot, enough cash.
func (l *paperLedger) Buy(ctx context.Context, req dto.BuyRequest) (dto.BuyResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if req.Price <= 0 {
		return dto.BuyResult{Reason: dto.ReasonInvalidPrice}, nil
	}

	account, err := l.load(ctx)
	if err != nil {
		return dto.BuyResult{}, err
	}
	if _, held := account.Positions[req.Symbol]; held {
		return dto.BuyResult{Reason: dto.ReasonAlreadyHeld}, nil
	}

	price := decimal.NewFromFloat(req.Price)
	shares := LotShares(price, l.cfg.TargetNotional, l.cfg.LotSize)
	if shares == 0 {
		return dto.BuyResult{Reason: dto.ReasonInsufficientForLot}, nil
	}
	cost := decimal.NewFromInt(shares).Mul(price)
	if cost.GreaterThan(account.Cash) {
		return dto.BuyResult{Reason: dto.ReasonInsufficientCash, Shares: shares, Cost: cost}, nil
	}

	now := l.now().UTC()
	previous := account.Clone()

	account.Cash = account.Cash.Sub(cost)
	account.Positions[req.Symbol] = &entity.Position{
		Symbol:        req.Symbol,
		Name:          req.Name,
		Shares:        shares,
		AveragePrice:  price,
		CostBasis:     cost,
		CurrentPrice:  price,
		MarketValue:   cost,
		UnrealizedPnL: decimal.Zero,
		PnLPct:        decimal.Zero,
		BuyDate:       req.Date,
	}
	account.Transactions = append(account.Transactions, entity.Transaction{
		Type:      entity.TransactionBuy,
		Symbol:    req.Symbol,
		Name:      req.Name,
		Shares:    shares,
		Price:     price,
		Amount:    cost,
		Date:      req.Date,
		Timestamp: now,
	})
	account.UpdatedAt = now

	if err := l.repo.Save(ctx, l.cfg.Name, account); err != nil {
		l.account = previous
		return dto.BuyResult{}, fmt.Errorf("failed to persist buy of %s: %w", req.Symbol, err)
	}

	l.logger.InfoContext(ctx, "Paper buy executed",
		logger.StringField("symbol", req.Symbol),
		logger.Field("shares", shares),
		logger.StringField("cost", cost.StringFixed(2)),
		logger.StringField("cash", account.Cash.StringFixed(2)),
	)
	return dto.BuyResult{Success: true, Shares: shares, Cost: cost}, nil
}

// UpdatePrices marks held positions to market. Cash and cost basis are never changed.
func (l *paperLedger) UpdatePrices(ctx context.Context, prices map[string]float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.load(ctx)
	if err != nil {
		return err
	}

	previous := account.Clone()
	changed := 0
	for symbol, pos := range account.Positions {
		p, ok := prices[symbol]
		if !ok || p <= 0 {
			continue
		}
		markToMarket(pos, decimal.NewFromFloat(p))
		changed++
	}
	if changed == 0 {
		return nil
	}
	account.UpdatedAt = l.now().UTC()

	if err := l.repo.Save(ctx, l.cfg.Name, account); err != nil {
		l.account = previous
		return fmt.Errorf("failed to persist price update: %w", err)
	}
	l.logger.DebugContext(ctx, "Marked positions to market", logger.IntField("positions", changed))
	return nil
}

func markToMarket(pos *entity.Position, price decimal.Decimal) {
	pos.CurrentPrice = price
	pos.MarketValue = decimal.NewFromInt(pos.Shares).Mul(price)
	pos.UnrealizedPnL = pos.MarketValue.Sub(pos.CostBasis)
	if pos.CostBasis.IsPositive() {
		pos.PnLPct = pos.UnrealizedPnL.Div(pos.CostBasis).Mul(hundred).Round(2)
	} else {
		pos.PnLPct = decimal.Zero
	}
}

func (l *paperLedger) Summary(ctx context.Context) (dto.PortfolioSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.load(ctx)
	if err != nil {
		return dto.PortfolioSummary{}, err
	}

	totalCost, totalValue := decimal.Zero, decimal.Zero
	for _, pos := range account.Positions {
		totalCost = totalCost.Add(pos.CostBasis)
		totalValue = totalValue.Add(pos.MarketValue)
	}
	pnl := totalValue.Sub(totalCost)
	pnlPct := decimal.Zero
	if totalCost.IsPositive() {
		pnlPct = pnl.Div(totalCost).Mul(hundred).Round(2)
	}

	return dto.PortfolioSummary{
		InitialCash:       account.InitialCash,
		Cash:              account.Cash,
		TotalCost:         totalCost,
		TotalMarketValue:  totalValue,
		TotalPnL:          pnl,
		TotalPnLPct:       pnlPct,
		TotalAssets:       account.Cash.Add(totalValue),
		PositionCount:     len(account.Positions),
		TransactionsCount: len(account.Transactions),
		UpdatedAt:         account.UpdatedAt,
	}, nil
}

// Positions returns copies of the open positions ordered by symbol.
func (l *paperLedger) Positions(ctx context.Context) ([]entity.Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]entity.Position, 0, len(account.Positions))
	for _, pos := range account.Positions {
		positions = append(positions, *pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions, nil
}

// Transactions returns the newest transactions first. A non-positive limit returns all of them.
func (l *paperLedger) Transactions(ctx context.Context, limit int) ([]entity.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	n := len(account.Transactions)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]entity.Transaction, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, account.Transactions[i])
	}
	return out, nil
}
