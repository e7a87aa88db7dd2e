package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPortfolioRepo struct {
	saved   map[string]*entity.PortfolioAccount
	saves   int
	saveErr error
}

func newMemoryPortfolioRepo() *memoryPortfolioRepo {
	return &memoryPortfolioRepo{saved: make(map[string]*entity.PortfolioAccount)}
}

func (m *memoryPortfolioRepo) Load(ctx context.Context, name string) (*entity.PortfolioAccount, error) {
	a, ok := m.saved[name]
	if !ok {
		return nil, repository.ErrPortfolioNotFound
	}
	return a.Clone(), nil
}

func (m *memoryPortfolioRepo) Save(ctx context.Context, name string, account *entity.PortfolioAccount) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved[name] = account.Clone()
	return nil
}

func newTestLedger(repo repository.PortfolioRepository, cash int64) PaperLedger {
	cfg := DefaultLedgerConfig()
	cfg.InitialCash = decimal.NewFromInt(cash)
	clock := newTestClock(time.Date(2024, 3, 5, 10, 0, 0, 0, shanghai))
	return NewPaperLedger(repo, cfg, clock.Now, logger.NewNop())
}

func TestLotShares_NeverExceedsTarget(t *testing.T) {
	target := decimal.NewFromInt(50_000)
	for _, p := range []string{"0.01", "1", "3.33", "7.77", "12.5", "99.99", "250", "333.33", "499.99", "500", "500.01", "501", "1999"} {
		price := decimal.RequireFromString(p)
		shares := LotShares(price, target, 100)
		assert.Zero(t, shares%100, p)
		assert.True(t, decimal.NewFromInt(shares).Mul(price).LessThanOrEqual(target), p)
		assert.True(t, decimal.NewFromInt(shares+100).Mul(price).GreaterThan(target), "largest lot count for %s", p)
	}
	assert.Zero(t, LotShares(decimal.Zero, target, 100))
}

func TestPaperLedger_Buy(t *testing.T) {
	repo := newMemoryPortfolioRepo()
	ledger := newTestLedger(repo, 1_000_000)
	ctx := context.Background()

	res, err := ledger.Buy(ctx, dto.BuyRequest{Symbol: "600000", Name: "Bank", Price: 12.34, Date: "2024-03-05"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, int64(4000), res.Shares)
	assert.True(t, res.Cost.Equal(decimal.RequireFromString("49360")))

	summary, err := ledger.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.RequireFromString("950640")))
	assert.Equal(t, 1, summary.PositionCount)
	assert.Equal(t, 1, summary.TransactionsCount)
	assert.True(t, summary.TotalAssets.Equal(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, 1, repo.saves)

	txs, err := ledger.Transactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TransactionBuy, txs[0].Type)
}

func TestPaperLedger_RejectsDuplicateWithoutMutation(t *testing.T) {
	repo := newMemoryPortfolioRepo()
	ledger := newTestLedger(repo, 1_000_000)
	ctx := context.Background()

	_, err := ledger.Buy(ctx, dto.BuyRequest{Symbol: "600000", Price: 10})
	require.NoError(t, err)
	before, err := ledger.Summary(ctx)
	require.NoError(t, err)

	res, err := ledger.Buy(ctx, dto.BuyRequest{Symbol: "600000", Price: 9})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, dto.ReasonAlreadyHeld, res.Reason)

	after, err := ledger.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, repo.saves)
}

func TestPaperLedger_RiskGates(t *testing.T) {
	tests := []struct {
		name   string
		cash   int64
		price  float64
		reason string
	}{
		{name: "zero price", cash: 1_000_000, price: 0, reason: dto.ReasonInvalidPrice},
		{name: "negative price", cash: 1_000_000, price: -1, reason: dto.ReasonInvalidPrice},
		{name: "lot above target", cash: 50_000, price: 501, reason: dto.ReasonInsufficientForLot},
		{name: "short of cash", cash: 10_000, price: 20, reason: dto.ReasonInsufficientCash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryPortfolioRepo()
			ledger := newTestLedger(repo, tt.cash)

			res, err := ledger.Buy(context.Background(), dto.BuyRequest{Symbol: "X", Price: tt.price})
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Zero(t, repo.saves)
		})
	}
}

func TestPaperLedger_PersistFailureRollsBack(t *testing.T) {
	repo := newMemoryPortfolioRepo()
	repo.saveErr = errors.New("disk full")
	ledger := newTestLedger(repo, 1_000_000)
	ctx := context.Background()

	_, err := ledger.Buy(ctx, dto.BuyRequest{Symbol: "600000", Price: 10})
	require.Error(t, err)

	summary, err := ledger.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(1_000_000)))
	assert.Zero(t, summary.PositionCount)
	assert.Zero(t, summary.TransactionsCount)
}

func TestPaperLedger_UpdatePrices(t *testing.T) {
	repo := newMemoryPortfolioRepo()
	ledger := newTestLedger(repo, 1_000_000)
	ctx := context.Background()

	_, err := ledger.Buy(ctx, dto.BuyRequest{Symbol: "600000", Price: 10})
	require.NoError(t, err)

	require.NoError(t, ledger.UpdatePrices(ctx, map[string]float64{"600000": 11, "000001": 5}))

	positions, err := ledger.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	p := positions[0]
	assert.True(t, p.CurrentPrice.Equal(decimal.NewFromInt(11)))
	assert.True(t, p.MarketValue.Equal(decimal.NewFromInt(55_000)))
	assert.True(t, p.UnrealizedPnL.Equal(decimal.NewFromInt(5_000)))
	assert.True(t, p.PnLPct.Equal(decimal.NewFromInt(10)))
	assert.True(t, p.CostBasis.Equal(decimal.NewFromInt(50_000)))

	summary, err := ledger.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(950_000)))
	assert.True(t, summary.TotalPnL.Equal(decimal.NewFromInt(5_000)))
	assert.True(t, summary.TotalAssets.Equal(decimal.NewFromInt(1_005_000)))
	assert.Equal(t, 2, repo.saves)
}

func TestPaperLedger_ReloadsPersistedAccount(t *testing.T) {
	repo := newMemoryPortfolioRepo()
	ctx := context.Background()

	_, err := newTestLedger(repo, 1_000_000).Buy(ctx, dto.BuyRequest{Symbol: "600000", Price: 10})
	require.NoError(t, err)

	res, err := newTestLedger(repo, 1_000_000).Buy(ctx, dto.BuyRequest{Symbol: "600000", Price: 10})
	require.NoError(t, err)
	assert.Equal(t, dto.ReasonAlreadyHeld, res.Reason)
}

func TestPaperLedger_TransactionsNewestFirst(t *testing.T) {
	ledger := newTestLedger(newMemoryPortfolioRepo(), 1_000_000)
	ctx := context.Background()
	for _, s := range []string{"A", "B", "C"} {
		_, err := ledger.Buy(ctx, dto.BuyRequest{Symbol: s, Price: 10})
		require.NoError(t, err)
	}

	txs, err := ledger.Transactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "C", txs[0].Symbol)
	assert.Equal(t, "B", txs[1].Symbol)
}
