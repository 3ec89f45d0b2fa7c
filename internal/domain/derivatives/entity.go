package derivatives

import "time"

// OptionType distinguishes calls from puts
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// TradeSide is the initiating side of a flow print
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

// FlowPrint represents a single options trade print from the flow feed
type FlowPrint struct {
	ID        string     `json:"id"`
	Symbol    string     `json:"symbol"`
	Venue     string     `json:"venue"` // reporting exchange
	Type      OptionType `json:"type"`
	Side      TradeSide  `json:"side"`
	Strike    float64    `json:"strike"`
	Expiry    time.Time  `json:"expiry"`
	Price     float64    `json:"price"`   // per-contract premium
	Premium   float64    `json:"premium"` // USD notional of the print
	Size      int        `json:"size"`    // contracts
	Spot      float64    `json:"spot"`    // underlying price at print time
	AtAsk     bool       `json:"at_ask"`  // executed at or above the ask
	Timestamp time.Time  `json:"timestamp"`
}

// Bullish reports whether the print is directionally bullish:
// bought calls and sold puts lean bullish, the inverse leans bearish.
func (p FlowPrint) Bullish() bool {
	return (p.Type == OptionCall && p.Side == TradeBuy) ||
		(p.Type == OptionPut && p.Side == TradeSell)
}

// Bearish reports whether the print is directionally bearish
func (p FlowPrint) Bearish() bool {
	return (p.Type == OptionPut && p.Side == TradeBuy) ||
		(p.Type == OptionCall && p.Side == TradeSell)
}

// PatternKind classifies a flow print. A print is a sweep or a block or
// neither, never both.
type PatternKind string

const (
	PatternNone  PatternKind = "none"
	PatternSweep PatternKind = "sweep"
	PatternBlock PatternKind = "block"
)

// ClassifiedPrint is a flow print annotated with its detected pattern
type ClassifiedPrint struct {
	FlowPrint
	Pattern       PatternKind `json:"pattern"`
	SweepStrength float64     `json:"sweep_strength,omitempty"` // [0, 1], sweeps only
	Unusual       bool        `json:"unusual"`
}

// ChainContract is one leg of an options chain snapshot
type ChainContract struct {
	Symbol       string     `json:"symbol"`
	Type         OptionType `json:"type"`
	Strike       float64    `json:"strike"`
	Expiry       time.Time  `json:"expiry"`
	Volume       float64    `json:"volume"`
	OpenInterest float64    `json:"open_interest"`
	Gamma        *float64   `json:"gamma,omitempty"` // nil when the feed omits greeks
	IV           *float64   `json:"iv,omitempty"`
}

// OptionsFlowMetrics aggregates a classified flow list. Ratios are nil when
// the denominator side traded nothing.
type OptionsFlowMetrics struct {
	Symbol         string   `json:"symbol"`
	VolumeRatio    *float64 `json:"volume_ratio,omitempty"`  // put/call by contracts
	PremiumRatio   *float64 `json:"premium_ratio,omitempty"` // put/call by premium
	OIRatio        *float64 `json:"oi_ratio,omitempty"`      // put/call by open interest, chain required
	TotalVolume    float64  `json:"total_volume"`
	TotalPremium   float64  `json:"total_premium"`
	BullishFlowPct float64  `json:"bullish_flow_pct"`
	BearishFlowPct float64  `json:"bearish_flow_pct"`
	UnusualCount   int      `json:"unusual_count"`
	SweepCount     int      `json:"sweep_count"`
	BlockCount     int      `json:"block_count"`
}

// StrikeVolume pairs a strike with its traded volume
type StrikeVolume struct {
	Strike float64 `json:"strike"`
	Volume float64 `json:"volume"`
}

// ChainAnalysis holds chain-level market structure metrics
type ChainAnalysis struct {
	Symbol            string         `json:"symbol"`
	MaxPain           float64        `json:"max_pain"`
	GammaExposure     float64        `json:"gamma_exposure"`
	CallDominancePct  float64        `json:"call_dominance_pct"`
	PutDominancePct   float64        `json:"put_dominance_pct"`
	HighVolumeStrikes []StrikeVolume `json:"high_volume_strikes"` // desc by volume
}
