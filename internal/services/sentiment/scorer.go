package sentiment

import (
	"math"
	"strings"
	"time"
	"unicode"

	domain "confluence/internal/domain/sentiment"
	"confluence/pkg/logger"
)

// vaderAlpha is the normalization constant mapping summed valence to [-1, 1]
const vaderAlpha = 15.0

// negationScale dampens and flips a valence hit preceded by a negator
const negationScale = -0.74

// negationWindow is how many tokens back a negator or booster still applies
const negationWindow = 3

// ScorerConfig tunes the item sentiment scorer
type ScorerConfig struct {
	MaxEngagementBoost   float64           // engagement weight ceiling, >= 1
	EngagementSaturation float64           // raw engagement where the score saturates
	Thresholds           domain.Thresholds // level bucketing ladder
}

// DefaultScorerConfig returns the reference tuning
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MaxEngagementBoost:   2.0,
		EngagementSaturation: 10000,
		Thresholds:           domain.Thresholds{VeryBullish: 0.6, Bullish: 0.2},
	}
}

// Scorer scores a single text item for one symbol: lexical polarity,
// engagement weight and influencer weight combine into a signed score with a
// confidence and a discrete level. The lexicon is held by the scorer itself,
// constructed up front.
type Scorer struct {
	cfg     ScorerConfig
	lexicon *Lexicon
	log     *logger.Logger
}

// NewScorer creates a scorer with an explicit lexicon. A nil lexicon selects
// the built-in one.
func NewScorer(cfg ScorerConfig, lexicon *Lexicon) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Scorer{
		cfg:     cfg,
		lexicon: lexicon,
		log:     logger.Get().With("component", "sentiment_scorer"),
	}
}

// Score scores one item. Malformed or empty text yields a neutral,
// low-confidence result; it never fails.
func (s *Scorer) Score(symbol, text string, eng domain.EngagementCounts, influencerWeight float64) domain.ScoredItem {
	if influencerWeight < 1 {
		influencerWeight = 1
	}

	raw, confidence := s.polarity(text)

	engagementScore := s.engagementScore(eng)
	engagementWeight := 1 + engagementScore*(s.cfg.MaxEngagementBoost-1)

	return domain.ScoredItem{
		Symbol:           symbol,
		RawScore:         raw,
		Confidence:       confidence,
		EngagementScore:  engagementScore,
		EngagementWeight: engagementWeight,
		InfluencerWeight: influencerWeight,
		WeightedScore:    raw * engagementWeight * influencerWeight,
		Level:            s.cfg.Thresholds.LevelFor(raw),
	}
}

// ScoreBatch scores a slice of texts with shared engagement/influence inputs
// resolved per item by the caller
func (s *Scorer) ScoreBatch(symbol string, items []ScorableItem) []domain.ScoredItem {
	out := make([]domain.ScoredItem, 0, len(items))
	for _, item := range items {
		out = append(out, s.Score(symbol, item.Text, item.Engagement, item.InfluencerWeight))
	}
	return out
}

// ScorableItem is one raw post/message awaiting scoring
type ScorableItem struct {
	Text             string
	Engagement       domain.EngagementCounts
	InfluencerWeight float64
}

// polarity computes the compound lexical score in [-1, 1] and a confidence
// derived from its magnitude and the unanimity of the lexicon hits.
func (s *Scorer) polarity(text string) (score, confidence float64) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0, 0
	}

	var sum, posSum, negSum float64
	hits := 0

	for i, token := range tokens {
		valence, ok := s.lexicon.Valences[token]
		if !ok {
			continue
		}
		hits++

		// Look back for boosters and negators within the window
		boost := 0.0
		negated := false
		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			if b, ok := s.lexicon.Boosters[tokens[j]]; ok {
				boost += b
			}
			if _, ok := s.lexicon.Negators[tokens[j]]; ok {
				negated = true
			}
		}

		if valence > 0 {
			valence += boost
		} else {
			valence -= boost
		}
		if negated {
			valence *= negationScale
		}

		sum += valence
		if valence > 0 {
			posSum += valence
		} else {
			negSum += -valence
		}
	}

	if hits == 0 {
		return 0, 0
	}

	score = sum / math.Sqrt(sum*sum+vaderAlpha)
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	// Unanimous hits read confident, an even pos/neg split does not
	agreement := 1.0
	if posSum+negSum > 0 {
		agreement = math.Abs(posSum-negSum) / (posSum + negSum)
	}
	confidence = math.Abs(score) * (0.5 + 0.5*agreement)

	return score, confidence
}

// engagementScore folds raw interaction counts into [0, 1], saturating
// logarithmically so viral posts cannot grow without bound
func (s *Scorer) engagementScore(eng domain.EngagementCounts) float64 {
	raw := float64(eng.Likes) +
		2.0*float64(eng.Reposts) +
		1.5*float64(eng.Replies) +
		2.5*float64(eng.Quotes)
	if raw <= 0 {
		return 0
	}
	score := math.Log1p(raw) / math.Log1p(s.cfg.EngagementSaturation)
	if score > 1 {
		score = 1
	}
	return score
}

// Rollup folds one provider's scored items into a SourceSentiment for the
// polling cycle. Returns nil when there is nothing to roll up; the provider
// is then simply absent from aggregation.
//
// prevMentions, when known, drives the volume trend; pass a negative value
// when no prior cycle exists.
func (s *Scorer) Rollup(provider, symbol string, items []domain.ScoredItem, prevMentions int) *domain.SourceSentiment {
	if len(items) == 0 {
		return nil
	}

	var sumRaw, sumWeighted, weightTotal, sumConf, sumEng float64
	var inflSum, inflWeight float64

	for _, item := range items {
		sumRaw += item.RawScore
		w := item.EngagementWeight * item.InfluencerWeight
		sumWeighted += item.WeightedScore
		weightTotal += w
		sumConf += item.Confidence
		sumEng += item.EngagementScore

		if item.InfluencerWeight > 1 {
			inflSum += item.RawScore * item.InfluencerWeight
			inflWeight += item.InfluencerWeight
		}
	}

	n := float64(len(items))
	weighted := 0.0
	if weightTotal > 0 {
		weighted = sumWeighted / weightTotal
	}

	// Sample size tempers confidence: a handful of posts is weaker evidence
	// than a steady stream.
	volumeFactor := math.Min(1, n/10)
	confidence := (sumConf / n) * (0.5 + 0.5*volumeFactor)

	src := &domain.SourceSentiment{
		Provider:          provider,
		Symbol:            symbol,
		MentionCount:      len(items),
		AverageSentiment:  sumRaw / n,
		WeightedSentiment: weighted,
		Level:             s.cfg.Thresholds.LevelFor(weighted),
		Confidence:        confidence,
		EngagementScore:   sumEng / n,
		VolumeTrend:       volumeTrend(len(items), prevMentions),
		Timestamp:         time.Now().UTC(),
	}

	if inflWeight > 0 {
		infl := inflSum / inflWeight
		src.InfluencerSentiment = &infl
	}

	return src
}

func volumeTrend(current, previous int) domain.VolumeTrend {
	if previous < 0 {
		return domain.VolumeTrendStable
	}
	switch {
	case float64(current) > float64(previous)*1.1:
		return domain.VolumeTrendUp
	case float64(current) < float64(previous)*0.9:
		return domain.VolumeTrendDown
	default:
		return domain.VolumeTrendStable
	}
}

// tokenize lowercases and strips punctuation, keeping cashtags and hashtags
// attached to their word
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		var b strings.Builder
		for _, r := range f {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '$' || r == '#' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
		}
	}
	return tokens
}
