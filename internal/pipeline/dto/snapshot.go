package dto

import (
	"math"
	"strings"
	"time"
)

// InstrumentRow is one instrument's market fields in a snapshot.
type InstrumentRow struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ChangePct   float64 `json:"change_pct"`
	Turnover    float64 `json:"turnover"`
	VolumeRatio float64 `json:"volume_ratio"`
	MarketValue float64 `json:"market_value"`
	Volume      float64 `json:"volume"`
}

// Snapshot is a point-in-time table of all instruments.
type Snapshot struct {
	Rows      []InstrumentRow `json:"rows"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// IsEmpty reports whether the snapshot carries no rows.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Rows) == 0
}

// Bounds are the sanity limits a row must satisfy to enter a snapshot.
type Bounds struct {
	MinPrice     float64 `mapstructure:"min_price" json:"min_price"`
	MaxPrice     float64 `mapstructure:"max_price" json:"max_price"`
	MinChangePct float64 `mapstructure:"min_change_pct" json:"min_change_pct"`
	MaxChangePct float64 `mapstructure:"max_change_pct" json:"max_change_pct"`
	MinTurnover  float64 `mapstructure:"min_turnover" json:"min_turnover"`
	MaxTurnover  float64 `mapstructure:"max_turnover" json:"max_turnover"`
}

// DefaultBounds covers every listed A-share, including the ±30% boards.
func DefaultBounds() Bounds {
	return Bounds{
		MinPrice:     0.01,
		MaxPrice:     5000,
		MinChangePct: -30,
		MaxChangePct: 30,
		MinTurnover:  0,
		MaxTurnover:  200,
	}
}

// SnapshotOptions controls which rows survive validation.
type SnapshotOptions struct {
	Bounds Bounds
	// ExcludeST drops special-treatment and delisting names.
	ExcludeST bool
	// DropSuspended drops rows that have not traded.
	DropSuspended bool
}

// DroppedRows counts rows removed by NewSnapshot, by reason.
type DroppedRows struct {
	Invalid   int `json:"invalid"`
	ST        int `json:"st"`
	Suspended int `json:"suspended"`
}

// Total returns the number of dropped rows.
func (d DroppedRows) Total() int {
	return d.Invalid + d.ST + d.Suspended
}

// NewSnapshot validates raw rows and builds a Snapshot. Rows that violate bounds are dropped, never corrected.
func NewSnapshot(rows []InstrumentRow, fetchedAt time.Time, opts SnapshotOptions) (*Snapshot, DroppedRows) {
	var dropped DroppedRows
	seen := make(map[string]struct{}, len(rows))
	kept := make([]InstrumentRow, 0, len(rows))

	for _, row := range rows {
		if math.IsNaN(row.VolumeRatio) {
			row.VolumeRatio = 1.0
		}
		if !row.valid(opts.Bounds) {
			dropped.Invalid++
			continue
		}
		if _, dup := seen[row.Symbol]; dup {
			dropped.Invalid++
			continue
		}
		if opts.ExcludeST && IsSpecialTreatment(row.Name) {
			dropped.ST++
			continue
		}
		if opts.DropSuspended && row.Volume == 0 {
			dropped.Suspended++
			continue
		}
		seen[row.Symbol] = struct{}{}
		kept = append(kept, row)
	}

	return &Snapshot{Rows: kept, FetchedAt: fetchedAt}, dropped
}

func (r InstrumentRow) valid(b Bounds) bool {
	if strings.TrimSpace(r.Symbol) == "" || strings.TrimSpace(r.Name) == "" {
		return false
	}
	for _, v := range []float64{r.Price, r.ChangePct, r.Turnover, r.VolumeRatio, r.MarketValue, r.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Price >= b.MinPrice && r.Price <= b.MaxPrice &&
		r.ChangePct >= b.MinChangePct && r.ChangePct <= b.MaxChangePct &&
		r.Turnover >= b.MinTurnover && r.Turnover <= b.MaxTurnover &&
		r.VolumeRatio >= 0 && r.MarketValue >= 0 && r.Volume >= 0
}

// IsSpecialTreatment reports whether a display name marks an ST or delisting instrument.
func IsSpecialTreatment(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	return strings.HasPrefix(strings.TrimPrefix(upper, "*"), "ST") || strings.Contains(name, "退")
}

// MarketBreadth summarizes how the whole market moved in a snapshot.
type MarketBreadth struct {
	Total     int `json:"total"`
	Up        int `json:"up"`
	Down      int `json:"down"`
	Flat      int `json:"flat"`
	LimitUp   int `json:"limit_up"`
	LimitDown int `json:"limit_down"`
}

// LimitMovePct is the change at which a main-board instrument is treated as limit-up or limit-down.
const LimitMovePct = 9.8

// Breadth computes the advance/decline picture of the snapshot.
func (s *Snapshot) Breadth() MarketBreadth {
	var b MarketBreadth
	if s == nil {
		return b
	}
	b.Total = len(s.Rows)
	for _, r := range s.Rows {
		switch {
		case r.ChangePct > 0:
			b.Up++
		case r.ChangePct < 0:
			b.Down++
		default:
			b.Flat++
		}
		if r.ChangePct >= LimitMovePct {
			b.LimitUp++
		}
		if r.ChangePct <= -LimitMovePct {
			b.LimitDown++
		}
	}
	return b
}

// Prices maps each symbol to its last price.
func (s *Snapshot) Prices() map[string]float64 {
	prices := make(map[string]float64)
	if s == nil {
		return prices
	}
	for _, r := range s.Rows {
		prices[r.Symbol] = r.Price
	}
	return prices
}

// DailyBar is one trading day of history.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume float64   `json:"volume"`
}
