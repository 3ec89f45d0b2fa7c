package sentiment

import (
	"context"

	domain "confluence/internal/domain/sentiment"
)

// StaticProvider serves pre-aggregated provider snapshots, keyed by symbol.
// Used for replays and captured datasets where the per-item texts are gone
// and only the rolled-up numbers survive.
type StaticProvider struct {
	name string
	data map[string]*domain.SourceSentiment
}

func NewStaticProvider(name string, data map[string]*domain.SourceSentiment) *StaticProvider {
	return &StaticProvider{name: name, data: data}
}

func (p *StaticProvider) Name() string { return p.name }

// Provide returns the captured roll-up for a symbol, or (nil, nil) when the
// dataset has none. A symbol the capture never saw is ordinary missing data.
func (p *StaticProvider) Provide(_ context.Context, symbol string, _ float64) (*domain.SourceSentiment, error) {
	src, ok := p.data[symbol]
	if !ok || src == nil {
		return nil, nil
	}
	out := *src
	out.Provider = p.name
	return &out, nil
}

// ItemProvider scores raw captured texts through the lexicon scorer and rolls
// them up on demand. This is the path live connectors would take once their
// fetch layer exists.
type ItemProvider struct {
	name   string
	scorer *Scorer
	items  map[string][]ScorableItem
}

func NewItemProvider(name string, scorer *Scorer, items map[string][]ScorableItem) *ItemProvider {
	if scorer == nil {
		scorer = NewScorer(DefaultScorerConfig(), nil)
	}
	return &ItemProvider{name: name, scorer: scorer, items: items}
}

func (p *ItemProvider) Name() string { return p.name }

// Provide scores and rolls up the captured items for a symbol. No items, or
// a roll-up that produces nothing, is (nil, nil): missing data, not an error.
func (p *ItemProvider) Provide(_ context.Context, symbol string, _ float64) (*domain.SourceSentiment, error) {
	items, ok := p.items[symbol]
	if !ok || len(items) == 0 {
		return nil, nil
	}
	scored := p.scorer.ScoreBatch(symbol, items)
	src := p.scorer.Rollup(p.name, symbol, scored, 0)
	if src == nil {
		return nil, nil
	}
	return src, nil
}
