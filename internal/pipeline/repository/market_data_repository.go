package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang-stock-sentinel/internal/pipeline/config"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/logger"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// MarketDataRepository is the market-data provider boundary.
type MarketDataRepository interface {
	FetchSnapshot(ctx context.Context) ([]dto.InstrumentRow, error)
	FetchHistory(ctx context.Context, symbol string, start time.Time) ([]dto.DailyBar, error)
	FetchSectorInfo(ctx context.Context, symbol string) (string, error)
}

// Eastmoney quote field codes.
const (
	snapshotFields = "f2,f3,f5,f8,f10,f12,f14,f21"
	historyFields1 = "f1,f2,f3,f4,f5,f6"
	historyFields2 = "f51,f52,f53,f54,f55,f56"
	sectorField    = "f127"
	// All SH/SZ/BJ A-share boards.
	aShareUniverse = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23,m:0+t:81+s:2048"
)

type eastmoneyRepository struct {
	quote          *resty.Client
	history        *resty.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewEastmoneyRepository creates a market data repository backed by the Eastmoney quote API.
func NewEastmoneyRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	newClient := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(cfg.MarketData.Timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; stock-sentinel)")
	}

	return &eastmoneyRepository{
		quote:          newClient(cfg.MarketData.QuoteURL),
		history:        newClient(cfg.MarketData.HistoryURL),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

type clistResponse struct {
	Data *struct {
		Total int                          `json:"total"`
		Diff  []map[string]json.RawMessage `json:"diff"`
	} `json:"data"`
}

type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

type stockInfoResponse struct {
	Data map[string]json.RawMessage `json:"data"`
}

// FetchSnapshot pages through the whole A-share universe.
func (r *eastmoneyRepository) FetchSnapshot(ctx context.Context) ([]dto.InstrumentRow, error) {
	pageSize := r.cfg.MarketData.PageSize
	var rows []dto.InstrumentRow

	for page := 1; ; page++ {
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for request limit: %w", err)
		}

		var out clistResponse
		err := r.getJSON(ctx, r.quote, "/api/qt/clist/get", map[string]string{
			"pn":     strconv.Itoa(page),
			"pz":     strconv.Itoa(pageSize),
			"po":     "1",
			"np":     "1",
			"fltt":   "2",
			"invt":   "2",
			"fid":    "f3",
			"fs":     aShareUniverse,
			"fields": snapshotFields,
		}, &out)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch snapshot page %d: %w", page, err)
		}
		if out.Data == nil || len(out.Data.Diff) == 0 {
			break
		}

		for _, item := range out.Data.Diff {
			rows = append(rows, dto.InstrumentRow{
				Symbol:      rawString(item["f12"]),
				Name:        rawString(item["f14"]),
				Price:       rawFloat(item["f2"]),
				ChangePct:   rawFloat(item["f3"]),
				Volume:      rawFloat(item["f5"]),
				Turnover:    rawFloat(item["f8"]),
				VolumeRatio: rawFloat(item["f10"]),
				MarketValue: rawFloat(item["f21"]),
			})
		}

		if len(rows) >= out.Data.Total || len(out.Data.Diff) < pageSize {
			break
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("snapshot response contained no rows")
	}

	r.logger.Debug("Fetched market snapshot", logger.IntField("rows", len(rows)))
	return rows, nil
}

// FetchHistory returns forward-adjusted daily bars from start to today, oldest first.
func (r *eastmoneyRepository) FetchHistory(ctx context.Context, symbol string, start time.Time) ([]dto.DailyBar, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	var out klineResponse
	err := r.getJSON(ctx, r.history, "/api/qt/stock/kline/get", map[string]string{
		"secid":   SecID(symbol),
		"klt":     "101",
		"fqt":     "1",
		"beg":     start.Format("20060102"),
		"end":     "20500101",
		"fields1": historyFields1,
		"fields2": historyFields2,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("no history data for %s", symbol)
	}

	bars := make([]dto.DailyBar, 0, len(out.Data.Klines))
	for _, line := range out.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			r.logger.Warn("Skipping malformed kline", logger.StringField("symbol", symbol), logger.StringField("line", line), logger.ErrorField(err))
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// FetchSectorInfo returns the industry label of symbol.
func (r *eastmoneyRepository) FetchSectorInfo(ctx context.Context, symbol string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	var out stockInfoResponse
	err := r.getJSON(ctx, r.quote, "/api/qt/stock/get", map[string]string{
		"secid":  SecID(symbol),
		"fields": sectorField,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("failed to fetch sector for %s: %w", symbol, err)
	}

	sector := strings.TrimSpace(rawString(out.Data[sectorField]))
	if sector == "" || sector == "-" {
		return "", fmt.Errorf("no sector reported for %s", symbol)
	}
	return sector, nil
}

// getJSON issues a GET and decodes the body. The quote API does not always label its JSON, so the body is decoded directly.
func (r *eastmoneyRepository) getJSON(ctx context.Context, client *resty.Client, path string, params map[string]string, out interface{}) error {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("received non-OK response: %d - %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// SecID maps a six-digit code onto the market-prefixed id the quote API expects.
func SecID(symbol string) string {
	if strings.HasPrefix(symbol, "6") || strings.HasPrefix(symbol, "9") {
		return "1." + symbol
	}
	return "0." + symbol
}

func parseKline(line string) (dto.DailyBar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return dto.DailyBar{}, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return dto.DailyBar{}, err
	}
	nums := make([]float64, 5)
	for i := range nums {
		v, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return dto.DailyBar{}, err
		}
		nums[i] = v
	}
	return dto.DailyBar{Date: date, Open: nums[0], Close: nums[1], High: nums[2], Low: nums[3], Volume: nums[4]}, nil
}

// rawFloat decodes a quote field. Suspended instruments report "-", which becomes NaN and fails validation.
func rawFloat(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return math.NaN()
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
