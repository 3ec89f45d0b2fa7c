package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "confluence/internal/domain/sentiment"
)

func TestStaticProvider_MissingSymbolIsNilNil(t *testing.T) {
	p := NewStaticProvider("twitter", map[string]*domain.SourceSentiment{
		"TSLA": {Symbol: "TSLA", WeightedSentiment: 0.4, Confidence: 0.9},
	})

	src, err := p.Provide(context.Background(), "AAPL", 24)
	require.NoError(t, err)
	assert.Nil(t, src, "absent symbol is missing data, not a failure")

	src, err = p.Provide(context.Background(), "TSLA", 24)
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, "twitter", src.Provider)
}

func TestItemProvider_NoItemsIsNilNil(t *testing.T) {
	p := NewItemProvider("reddit", nil, map[string][]ScorableItem{
		"NVDA": {{Text: "bullish breakout, going long $NVDA"}},
		"AMD":  {},
	})

	for _, symbol := range []string{"AAPL", "AMD"} {
		src, err := p.Provide(context.Background(), symbol, 24)
		require.NoError(t, err)
		assert.Nil(t, src)
	}

	src, err := p.Provide(context.Background(), "NVDA", 24)
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, "reddit", src.Provider)
	assert.Equal(t, 1, src.MentionCount)
}

func TestRegistry_CollectSkipsEmptyProviders(t *testing.T) {
	now := time.Now().UTC()
	registry := domain.NewRegistry(
		NewStaticProvider("twitter", map[string]*domain.SourceSentiment{
			"AAPL": {Symbol: "AAPL", WeightedSentiment: 0.5, Confidence: 0.9, Timestamp: now},
		}),
		NewStaticProvider("news", nil),
	)

	sources := registry.Collect(context.Background(), "AAPL", 24)
	require.Len(t, sources, 1)
	assert.Contains(t, sources, "twitter")
}
