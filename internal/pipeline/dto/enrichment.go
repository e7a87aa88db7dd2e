package dto

const LabelUnknown = "unknown"

const (
	TrendBullishAligned  = "bullish-aligned"
	TrendMidTermUp       = "mid-term-up"
	TrendShortTermStrong = "short-term-strong"
	TrendWeak            = "weak"

	VolumeHeavy    = "heavy"
	VolumeModerate = "moderate"
	VolumeThin     = "thin"
	VolumeNormal   = "normal"
)

// Indicators are the moving-average readings for a candidate. Nil fields had too little history.
type Indicators struct {
	Close       float64  `json:"close"`
	MA5         *float64 `json:"ma5,omitempty"`
	MA10        *float64 `json:"ma10,omitempty"`
	MA20        *float64 `json:"ma20,omitempty"`
	MA60        *float64 `json:"ma60,omitempty"`
	MA5Volume   *float64 `json:"ma5_volume,omitempty"`
	VolumeRatio *float64 `json:"volume_ratio,omitempty"`
	Bars        int      `json:"bars"`
}

// Enrichment is the contextual data attached to a candidate before scoring.
type Enrichment struct {
	Sector       string      `json:"sector"`
	Indicators   *Indicators `json:"indicators,omitempty"`
	Trend        string      `json:"trend"`
	VolumeLabel  string      `json:"volume_label"`
	PositionDesc string      `json:"position_desc"`
}
