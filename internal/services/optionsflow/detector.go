package optionsflow

import (
	"sort"
	"time"

	"confluence/internal/adapters/config"
	"confluence/internal/domain/derivatives"
	"confluence/pkg/logger"
)

// DetectorConfig tunes sweep/block classification
type DetectorConfig struct {
	SweepWindow       time.Duration // max spacing between fills of one sweep
	SweepMinFills     int           // fills required to call a cluster a sweep
	SweepMinVenues    int           // distinct venues required
	BlockMinPremium   float64       // single-print premium that makes a block
	BlockMinSize      int           // single-print size that makes a block
	UnusualMinPremium float64       // premium marking a print unusual
}

// DefaultDetectorConfig returns the reference tuning
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SweepWindow:       2 * time.Second,
		SweepMinFills:     3,
		SweepMinVenues:    2,
		BlockMinPremium:   1_000_000,
		BlockMinSize:      500,
		UnusualMinPremium: 250_000,
	}
}

// DetectorConfigFrom maps the env-driven options flow section onto the
// detector tuning
func DetectorConfigFrom(cfg config.OptionsFlowConfig) DetectorConfig {
	return DetectorConfig{
		SweepWindow:       cfg.SweepWindow,
		SweepMinFills:     cfg.SweepMinFills,
		SweepMinVenues:    cfg.SweepMinVenues,
		BlockMinPremium:   cfg.BlockMinPremium,
		BlockMinSize:      cfg.BlockMinSize,
		UnusualMinPremium: cfg.UnusualMinPremium,
	}
}

// Detector classifies flow prints as sweeps or blocks. A sweep is a rapid
// fragmented execution against the ask across venues; a block is a single
// large print. A print is one or the other or neither, never both.
type Detector struct {
	cfg DetectorConfig
	log *logger.Logger
}

// NewDetector creates a pattern detector
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{
		cfg: cfg,
		log: logger.Get().With("component", "flow_detector"),
	}
}

// Classify annotates every print with its detected pattern. Order of the
// result follows print timestamps. An empty input yields an empty result.
func (d *Detector) Classify(flow []derivatives.FlowPrint) []derivatives.ClassifiedPrint {
	if len(flow) == 0 {
		return []derivatives.ClassifiedPrint{}
	}

	sorted := make([]derivatives.FlowPrint, len(flow))
	copy(sorted, flow)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	out := make([]derivatives.ClassifiedPrint, len(sorted))
	for i, p := range sorted {
		out[i] = derivatives.ClassifiedPrint{
			FlowPrint: p,
			Pattern:   derivatives.PatternNone,
			Unusual:   p.Premium >= d.cfg.UnusualMinPremium,
		}
	}

	d.markSweeps(out)
	d.markBlocks(out)

	return out
}

// contractKey groups prints that can belong to the same sweep: one symbol,
// one option type, one expiry, one initiating side. Strikes may differ.
type contractKey struct {
	symbol string
	typ    derivatives.OptionType
	side   derivatives.TradeSide
	expiry string
}

func keyFor(p derivatives.FlowPrint) contractKey {
	return contractKey{
		symbol: p.Symbol,
		typ:    p.Type,
		side:   p.Side,
		expiry: p.Expiry.Format("2006-01-02"),
	}
}

// markSweeps finds clusters of rapid fills and marks every member
func (d *Detector) markSweeps(prints []derivatives.ClassifiedPrint) {
	groups := make(map[contractKey][]int)
	for i, p := range prints {
		groups[keyFor(p.FlowPrint)] = append(groups[keyFor(p.FlowPrint)], i)
	}

	for _, idxs := range groups {
		start := 0
		for start < len(idxs) {
			end := start
			for end+1 < len(idxs) {
				gap := prints[idxs[end+1]].Timestamp.Sub(prints[idxs[end]].Timestamp)
				if gap > d.cfg.SweepWindow {
					break
				}
				end++
			}

			d.evaluateCluster(prints, idxs[start:end+1])
			start = end + 1
		}
	}
}

// evaluateCluster decides whether one burst of fills qualifies as a sweep
func (d *Detector) evaluateCluster(prints []derivatives.ClassifiedPrint, cluster []int) {
	if len(cluster) < d.cfg.SweepMinFills {
		return
	}

	venues := make(map[string]struct{})
	atAsk := 0
	for _, i := range cluster {
		venues[prints[i].Venue] = struct{}{}
		if prints[i].AtAsk {
			atAsk++
		}
	}
	if len(venues) < d.cfg.SweepMinVenues {
		return
	}

	aggressiveness := float64(atAsk) / float64(len(cluster))
	if aggressiveness < 0.5 {
		return // resting fills, not a sweep
	}

	// Strength grows with fragmentation and aggressiveness
	fills := clamp01(float64(len(cluster)) / float64(2*d.cfg.SweepMinFills))
	spread := clamp01(float64(len(venues)) / float64(2*d.cfg.SweepMinVenues))
	strength := clamp01(0.45*fills + 0.3*spread + 0.25*aggressiveness)

	for _, i := range cluster {
		prints[i].Pattern = derivatives.PatternSweep
		prints[i].SweepStrength = strength
	}
}

// markBlocks marks large single prints that did not take part in a sweep
func (d *Detector) markBlocks(prints []derivatives.ClassifiedPrint) {
	for i := range prints {
		if prints[i].Pattern != derivatives.PatternNone {
			continue
		}
		if prints[i].Premium >= d.cfg.BlockMinPremium || prints[i].Size >= d.cfg.BlockMinSize {
			prints[i].Pattern = derivatives.PatternBlock
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
