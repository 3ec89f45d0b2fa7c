package sentiment

// Lexicon maps lowercase tokens to a signed valence, roughly [-4, 4] in the
// VADER convention. The default table mixes general polarity words with the
// trading vocabulary that dominates social feeds.
type Lexicon struct {
	Valences map[string]float64
	Boosters map[string]float64
	Negators map[string]struct{}
}

// DefaultLexicon returns the built-in finance-oriented lexicon.
// The scorer holds the returned value; there is no shared global state.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Valences: map[string]float64{
			// trading slang, bullish
			"moon":      3.4,
			"mooning":   3.4,
			"rocket":    3.0,
			"bullish":   2.9,
			"bull":      2.2,
			"calls":     1.4,
			"breakout":  2.3,
			"rip":       2.0,
			"ripping":   2.4,
			"squeeze":   1.8,
			"undervalued": 1.9,
			"buy":       1.6,
			"buying":    1.6,
			"bought":    1.2,
			"long":      1.3,
			"hodl":      1.5,
			"hold":      0.8,
			"accumulate": 1.6,
			"dip":       0.6, // "buying the dip" reads bullish on net
			"upgrade":   2.0,
			"upgraded":  2.0,
			"beat":      1.8,
			"beats":     1.8,
			"outperform": 2.1,
			"rally":     2.2,
			"rallying":  2.2,
			"surge":     2.4,
			"surging":   2.4,
			"soar":      2.6,
			"soaring":   2.6,
			"gains":     1.8,
			"gain":      1.5,
			"winner":    2.0,
			"winning":   1.9,
			"strong":    1.7,
			"strength":  1.6,
			"growth":    1.5,
			"profit":    1.7,
			"profits":   1.7,
			"profitable": 1.8,
			"record":    1.3,
			"momentum":  1.2,
			"support":   0.9,
			"oversold":  1.1,
			"bottomed":  1.4,
			"recovery":  1.5,
			"rebound":   1.6,
			"green":     1.2,
			"printing":  1.6,
			"tendies":   2.2,
			"yolo":      1.0,
			"diamond":   1.3,

			// trading slang, bearish
			"crash":         -3.3,
			"crashing":      -3.3,
			"dump":          -2.6,
			"dumping":       -2.8,
			"bearish":       -2.9,
			"bear":          -2.2,
			"puts":          -1.4,
			"short":         -1.3,
			"shorting":      -1.6,
			"sell":          -1.6,
			"selling":       -1.6,
			"sold":          -1.2,
			"overvalued":    -2.0,
			"bubble":        -1.9,
			"downgrade":     -2.1,
			"downgraded":    -2.1,
			"miss":          -1.7,
			"missed":        -1.7,
			"underperform":  -2.1,
			"plunge":        -2.7,
			"plunging":      -2.7,
			"tank":          -2.5,
			"tanking":       -2.6,
			"collapse":      -3.0,
			"collapsing":    -3.0,
			"drop":          -1.6,
			"dropping":      -1.8,
			"falling":       -1.7,
			"fall":          -1.4,
			"losses":        -1.9,
			"loss":          -1.7,
			"loser":         -2.0,
			"losing":        -1.8,
			"weak":          -1.6,
			"weakness":      -1.6,
			"bagholder":     -2.3,
			"bagholders":    -2.3,
			"rug":           -2.8,
			"rugpull":       -3.2,
			"scam":          -3.0,
			"fraud":         -3.2,
			"bankruptcy":    -3.4,
			"bankrupt":      -3.4,
			"delisted":      -2.9,
			"dilution":      -2.0,
			"overbought":    -1.1,
			"resistance":    -0.7,
			"red":           -1.2,
			"bleeding":      -2.2,
			"capitulation":  -2.4,
			"fud":           -1.3,
			"dead":          -2.1,
			"rekt":          -2.6,

			// general polarity
			"good":      1.9,
			"great":     2.4,
			"excellent": 2.9,
			"amazing":   2.8,
			"awesome":   2.7,
			"love":      2.5,
			"like":      1.3,
			"best":      2.6,
			"huge":      1.5,
			"solid":     1.8,
			"bad":       -1.9,
			"terrible":  -2.8,
			"awful":     -2.7,
			"horrible":  -2.9,
			"hate":      -2.5,
			"worst":     -2.8,
			"ugly":      -1.8,
			"garbage":   -2.4,
			"trash":     -2.4,
			"risky":     -1.2,
			"fear":      -1.6,
			"panic":     -2.3,
			"worried":   -1.5,
			"worry":     -1.4,
		},
		Boosters: map[string]float64{
			"very":       0.293,
			"extremely":  0.4,
			"incredibly": 0.4,
			"super":      0.3,
			"really":     0.267,
			"so":         0.2,
			"insanely":   0.4,
			"massively":  0.35,
			"slightly":   -0.293,
			"somewhat":   -0.2,
			"barely":     -0.35,
			"kinda":      -0.2,
			"marginally": -0.3,
		},
		Negators: map[string]struct{}{
			"not":     {},
			"no":      {},
			"never":   {},
			"neither": {},
			"nobody":  {},
			"none":    {},
			"isnt":    {},
			"arent":   {},
			"wasnt":   {},
			"wont":    {},
			"cant":    {},
			"cannot":  {},
			"dont":    {},
			"doesnt":  {},
			"didnt":   {},
			"aint":    {},
			"without": {},
		},
	}
}
