package sentiment

import "time"

// Level buckets a sentiment score into a discrete, ordered reading
type Level int

const (
	LevelVeryBearish Level = iota - 2
	LevelBearish
	LevelNeutral
	LevelBullish
	LevelVeryBullish
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelVeryBearish:
		return "very_bearish"
	case LevelBearish:
		return "bearish"
	case LevelBullish:
		return "bullish"
	case LevelVeryBullish:
		return "very_bullish"
	default:
		return "neutral"
	}
}

// Thresholds is the symmetric cutoff ladder used to bucket scores into levels.
// Bearish boundaries are the negated bullish ones, so only the positive side
// is configured.
type Thresholds struct {
	VeryBullish float64
	Bullish     float64
}

// LevelFor buckets a score. The ladder is monotonic: a higher score never
// maps to a lower level.
func (t Thresholds) LevelFor(score float64) Level {
	switch {
	case score >= t.VeryBullish:
		return LevelVeryBullish
	case score >= t.Bullish:
		return LevelBullish
	case score <= -t.VeryBullish:
		return LevelVeryBearish
	case score <= -t.Bullish:
		return LevelBearish
	default:
		return LevelNeutral
	}
}

// VolumeTrend describes the direction of mention volume between polling cycles
type VolumeTrend string

const (
	VolumeTrendUp     VolumeTrend = "up"
	VolumeTrendDown   VolumeTrend = "down"
	VolumeTrendStable VolumeTrend = "stable"
)

// EngagementCounts holds raw interaction counts for a single post/message
type EngagementCounts struct {
	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`
	Quotes  int `json:"quotes"`
}

// ScoredItem is the scoring result for one text item. Immutable once produced.
// WeightedScore is intentionally not re-clamped: aggregation normalizes later.
type ScoredItem struct {
	Symbol           string  `json:"symbol"`
	RawScore         float64 `json:"raw_score"`         // [-1, 1]
	Confidence       float64 `json:"confidence"`        // [0, 1]
	EngagementScore  float64 `json:"engagement_score"`  // [0, 1]
	EngagementWeight float64 `json:"engagement_weight"` // >= 1
	InfluencerWeight float64 `json:"influencer_weight"` // >= 1
	WeightedScore    float64 `json:"weighted_score"`    // raw * engagement * influencer
	Level            Level   `json:"level"`
}

// SourceSentiment is one provider's roll-up for one symbol over a time window.
// Superseded by later roll-ups, never mutated.
type SourceSentiment struct {
	Provider            string      `json:"provider"`
	Symbol              string      `json:"symbol"`
	MentionCount        int         `json:"mention_count"`
	AverageSentiment    float64     `json:"average_sentiment"`
	WeightedSentiment   float64     `json:"weighted_sentiment"`
	Level               Level       `json:"sentiment_level"`
	Confidence          float64     `json:"confidence"` // [0, 1]
	EngagementScore     float64     `json:"engagement_score"`
	InfluencerSentiment *float64    `json:"influencer_sentiment,omitempty"`
	VolumeTrend         VolumeTrend `json:"volume_trend"`
	Timestamp           time.Time   `json:"timestamp"`
}

// AggregatedSentiment is the fused view across all available providers for a
// symbol. Absent entirely (nil) when no provider meets the confidence gate:
// "insufficient data" is not zero sentiment.
type AggregatedSentiment struct {
	Symbol             string             `json:"symbol"`
	UnifiedSentiment   float64            `json:"unified_sentiment"` // [-1, 1]
	Confidence         float64            `json:"confidence"`        // [0, 1]
	Level              Level              `json:"sentiment_level"`
	SourceCount        int                `json:"source_count"`
	ProvidersUsed      []string           `json:"providers_used"`
	SourceBreakdown    map[string]float64 `json:"source_breakdown"` // provider -> % contribution
	DivergenceDetected bool               `json:"divergence_detected"`
	DivergenceScore    float64            `json:"divergence_score"` // [0, 1]
	Timestamp          time.Time          `json:"timestamp"`
}
