package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confluence/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadTunables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"confidence gate above one", func(c *Config) { c.Sentiment.MinProviderConfidence = 1.5 }},
		{"engagement boost below one", func(c *Config) { c.Sentiment.MaxEngagementBoost = 0.5 }},
		{"negative divergence threshold", func(c *Config) { c.Sentiment.DivergenceThreshold = -0.1 }},
		{"zero decay half-life", func(c *Config) { c.Sentiment.DecayHalfLife = 0 }},
		{"inverted level cutoffs", func(c *Config) { c.Sentiment.VeryBullishCutoff = 0.1 }},
		{"negative provider weight", func(c *Config) { c.Sentiment.ProviderWeights["twitter"] = -1 }},
		{"rsi period too short", func(c *Config) { c.Technical.RSIPeriod = 1 }},
		{"negative bollinger std dev", func(c *Config) { c.Technical.BollingerStdDev = -2 }},
		{"single-fill sweeps", func(c *Config) { c.OptionsFlow.SweepMinFills = 1 }},
		{"zero contract multiplier", func(c *Config) { c.OptionsFlow.ContractMultiplier = 0 }},
		{"negative component weight", func(c *Config) { c.Confluence.TechnicalWeight = -0.4 }},
		{"all component weights zero", func(c *Config) {
			c.Confluence.TechnicalWeight = 0
			c.Confluence.SentimentWeight = 0
			c.Confluence.FlowWeight = 0
		}},
		{"high threshold below min", func(c *Config) {
			c.Confluence.MinConfluence = 0.7
			c.Confluence.HighConfluence = 0.4
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}
