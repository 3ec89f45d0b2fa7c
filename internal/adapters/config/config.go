package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"confluence/pkg/errors"
)

type Config struct {
	App           AppConfig
	Sentiment     SentimentConfig
	Technical     TechnicalConfig
	OptionsFlow   OptionsFlowConfig
	Confluence    ConfluenceConfig
	ErrorTracking ErrorTrackingConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"confluence"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// SentimentConfig tunes the item scorer and the cross-provider aggregator.
// Level cutoffs are symmetric around zero: the bearish boundaries are the
// negated bullish ones.
type SentimentConfig struct {
	// Scorer
	MaxEngagementBoost   float64 `envconfig:"SENTIMENT_MAX_ENGAGEMENT_BOOST" default:"2.0"`
	EngagementSaturation float64 `envconfig:"SENTIMENT_ENGAGEMENT_SATURATION" default:"10000"`

	// Level ladder
	VeryBullishCutoff float64 `envconfig:"SENTIMENT_VERY_BULLISH_CUTOFF" default:"0.6"`
	BullishCutoff     float64 `envconfig:"SENTIMENT_BULLISH_CUTOFF" default:"0.2"`

	// Aggregator
	ProviderWeights       map[string]float64 `envconfig:"SENTIMENT_PROVIDER_WEIGHTS" default:"twitter:1.0,reddit:1.0,stocktwits:0.8,news:1.2"`
	MinProviderConfidence float64            `envconfig:"SENTIMENT_MIN_PROVIDER_CONFIDENCE" default:"0.8"`
	DivergenceThreshold   float64            `envconfig:"SENTIMENT_DIVERGENCE_THRESHOLD" default:"1.0"`
	DecayHalfLife         time.Duration      `envconfig:"SENTIMENT_DECAY_HALF_LIFE" default:"6h"`
	MentionWeighting      bool               `envconfig:"SENTIMENT_MENTION_WEIGHTING" default:"true"`
}

// TechnicalConfig holds indicator periods used by the technical analyzer
type TechnicalConfig struct {
	RSIPeriod        int     `envconfig:"TECHNICAL_RSI_PERIOD" default:"14"`
	SMAShortPeriod   int     `envconfig:"TECHNICAL_SMA_SHORT_PERIOD" default:"20"`
	SMALongPeriod    int     `envconfig:"TECHNICAL_SMA_LONG_PERIOD" default:"50"`
	BollingerPeriod  int     `envconfig:"TECHNICAL_BOLLINGER_PERIOD" default:"20"`
	BollingerStdDev  float64 `envconfig:"TECHNICAL_BOLLINGER_STD_DEV" default:"2.0"`
	ATRPeriod        int     `envconfig:"TECHNICAL_ATR_PERIOD" default:"14"`
	OBVTrendLookback int     `envconfig:"TECHNICAL_OBV_TREND_LOOKBACK" default:"10"`
}

// OptionsFlowConfig tunes sweep/block pattern detection and flow metrics
type OptionsFlowConfig struct {
	SweepWindow        time.Duration `envconfig:"OPTIONS_SWEEP_WINDOW" default:"2s"`
	SweepMinFills      int           `envconfig:"OPTIONS_SWEEP_MIN_FILLS" default:"3"`
	SweepMinVenues     int           `envconfig:"OPTIONS_SWEEP_MIN_VENUES" default:"2"`
	BlockMinPremium    float64       `envconfig:"OPTIONS_BLOCK_MIN_PREMIUM" default:"1000000"`
	BlockMinSize       int           `envconfig:"OPTIONS_BLOCK_MIN_SIZE" default:"500"`
	UnusualMinPremium  float64       `envconfig:"OPTIONS_UNUSUAL_MIN_PREMIUM" default:"250000"`
	ContractMultiplier float64       `envconfig:"OPTIONS_CONTRACT_MULTIPLIER" default:"100"`
}

// ConfluenceConfig holds component weights and threshold gates.
// Weights are renormalized over the components actually available at
// calculation time, so they do not need to sum to exactly 1.
type ConfluenceConfig struct {
	TechnicalWeight float64 `envconfig:"CONFLUENCE_TECHNICAL_WEIGHT" default:"0.4"`
	SentimentWeight float64 `envconfig:"CONFLUENCE_SENTIMENT_WEIGHT" default:"0.35"`
	FlowWeight      float64 `envconfig:"CONFLUENCE_FLOW_WEIGHT" default:"0.25"`

	SentimentEnabled bool `envconfig:"CONFLUENCE_SENTIMENT_ENABLED" default:"true"`
	FlowEnabled      bool `envconfig:"CONFLUENCE_FLOW_ENABLED" default:"true"`

	MinConfluence  float64 `envconfig:"CONFLUENCE_MIN_THRESHOLD" default:"0.3"`
	HighConfluence float64 `envconfig:"CONFLUENCE_HIGH_THRESHOLD" default:"0.6"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

// Default returns the built-in configuration, identical to what Load
// produces with no environment overrides set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "confluence",
			Env:      "development",
			LogLevel: "info",
		},
		Sentiment: SentimentConfig{
			MaxEngagementBoost:   2.0,
			EngagementSaturation: 10000,
			VeryBullishCutoff:    0.6,
			BullishCutoff:        0.2,
			ProviderWeights: map[string]float64{
				"twitter":    1.0,
				"reddit":     1.0,
				"stocktwits": 0.8,
				"news":       1.2,
			},
			MinProviderConfidence: 0.8,
			DivergenceThreshold:   1.0,
			DecayHalfLife:         6 * time.Hour,
			MentionWeighting:      true,
		},
		Technical: TechnicalConfig{
			RSIPeriod:        14,
			SMAShortPeriod:   20,
			SMALongPeriod:    50,
			BollingerPeriod:  20,
			BollingerStdDev:  2.0,
			ATRPeriod:        14,
			OBVTrendLookback: 10,
		},
		OptionsFlow: OptionsFlowConfig{
			SweepWindow:        2 * time.Second,
			SweepMinFills:      3,
			SweepMinVenues:     2,
			BlockMinPremium:    1_000_000,
			BlockMinSize:       500,
			UnusualMinPremium:  250_000,
			ContractMultiplier: 100,
		},
		Confluence: ConfluenceConfig{
			TechnicalWeight:  0.4,
			SentimentWeight:  0.35,
			FlowWeight:       0.25,
			SentimentEnabled: true,
			FlowEnabled:      true,
			MinConfluence:    0.3,
			HighConfluence:   0.6,
		},
		ErrorTracking: ErrorTrackingConfig{Environment: "production"},
		Metrics:       MetricsConfig{Addr: ":9090"},
	}
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects non-normalizable or out-of-range tunables eagerly,
// at construction time rather than mid-computation.
func (c *Config) Validate() error {
	if c.Sentiment.MinProviderConfidence < 0 || c.Sentiment.MinProviderConfidence > 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"min provider confidence must be in [0,1], got %f", c.Sentiment.MinProviderConfidence)
	}
	if c.Sentiment.MaxEngagementBoost < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"max engagement boost must be >= 1, got %f", c.Sentiment.MaxEngagementBoost)
	}
	if c.Sentiment.DivergenceThreshold < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"divergence threshold must be >= 0, got %f", c.Sentiment.DivergenceThreshold)
	}
	if c.Sentiment.DecayHalfLife <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"decay half-life must be positive, got %v", c.Sentiment.DecayHalfLife)
	}
	if c.Sentiment.BullishCutoff <= 0 || c.Sentiment.VeryBullishCutoff <= c.Sentiment.BullishCutoff ||
		c.Sentiment.VeryBullishCutoff > 1 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"level cutoffs must satisfy 0 < bullish < very_bullish <= 1, got %f/%f",
			c.Sentiment.BullishCutoff, c.Sentiment.VeryBullishCutoff)
	}
	for provider, weight := range c.Sentiment.ProviderWeights {
		if weight < 0 {
			return errors.Wrapf(errors.ErrInvalidConfig,
				"provider weight for %s must be >= 0, got %f", provider, weight)
		}
	}

	if c.Technical.RSIPeriod < 2 || c.Technical.SMAShortPeriod < 1 || c.Technical.SMALongPeriod < 1 ||
		c.Technical.BollingerPeriod < 2 || c.Technical.ATRPeriod < 1 {
		return errors.Wrap(errors.ErrInvalidConfig, "indicator periods must be positive")
	}
	if c.Technical.BollingerStdDev < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"bollinger std dev must be >= 0, got %f", c.Technical.BollingerStdDev)
	}

	if c.OptionsFlow.SweepMinFills < 2 || c.OptionsFlow.SweepMinVenues < 1 {
		return errors.Wrap(errors.ErrInvalidConfig, "sweep detection requires at least 2 fills and 1 venue")
	}
	if c.OptionsFlow.BlockMinPremium <= 0 || c.OptionsFlow.ContractMultiplier <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "block premium and contract multiplier must be positive")
	}

	if c.Confluence.TechnicalWeight < 0 || c.Confluence.SentimentWeight < 0 || c.Confluence.FlowWeight < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "confluence component weights must be >= 0")
	}
	if c.Confluence.TechnicalWeight+c.Confluence.SentimentWeight+c.Confluence.FlowWeight == 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "at least one confluence component weight must be > 0")
	}
	if c.Confluence.MinConfluence < 0 || c.Confluence.HighConfluence <= c.Confluence.MinConfluence {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"confluence thresholds must satisfy 0 <= min < high, got %f/%f",
			c.Confluence.MinConfluence, c.Confluence.HighConfluence)
	}

	return nil
}
