package rules

// Config carries the tunable parts of the rule set. Values are threaded
// into the engine explicitly; rules never read global state.
type Config struct {
	RiskyMemoTerms     []string
	TopPercentile      float64
	LateNightStartHour int
	LateNightEndHour   int
	FlagThreshold      int
}

// DefaultConfig returns the stock rule settings. The late-night window is
// inclusive on both ends and wraps past midnight when start > end.
func DefaultConfig() Config {
	return Config{
		LateNightStartHour: 22,
		LateNightEndHour:   5,
		RiskyMemoTerms: []string{
			"manual override", "adjustment", "adj", "suspense",
			"top-side", "plug", "write-off", "reclass", "reversal", "misc",
		},
		TopPercentile: 0.99,
		FlagThreshold: 2,
	}
}
