package confluence

import (
	"time"

	"confluence/internal/domain/sentiment"
)

// Component names a confluence sub-score source
const (
	ComponentTechnical = "technical"
	ComponentSentiment = "sentiment"
	ComponentFlow      = "options_flow"
)

// TechnicalScore is the per-symbol technical read. The overall score and all
// sub-scores are bounded to [-1, 1]; Indicators carries the raw values used.
type TechnicalScore struct {
	Symbol         string             `json:"symbol"`
	OverallScore   float64            `json:"overall_score"`
	RSIScore       float64            `json:"rsi_score"`
	SMATrendScore  float64            `json:"sma_trend_score"`
	VolumeScore    float64            `json:"volume_score"`
	BollingerScore float64            `json:"bollinger_score"`
	Confidence     float64            `json:"confidence"`
	Indicators     map[string]float64 `json:"indicators"`
}

// ConfluenceScore is the terminal artifact: one bounded, explainable,
// threshold-gated trading signal per symbol. Produced fresh per request,
// never mutated.
type ConfluenceScore struct {
	Symbol                string             `json:"symbol"`
	Score                 float64            `json:"confluence_score"` // [-1, 1]
	DirectionalBias       float64            `json:"directional_bias"` // [-1, 1]
	Level                 sentiment.Level    `json:"confluence_level"`
	Confidence            float64            `json:"confidence"` // [0, 1]
	ComponentsUsed        []string           `json:"components_used"`
	Contributions         map[string]float64 `json:"contributions"` // component -> % weight share
	MeetsMinimumThreshold bool               `json:"meets_minimum_threshold"`
	MeetsHighThreshold    bool               `json:"meets_high_threshold"`
	Timestamp             time.Time          `json:"timestamp"`
}
