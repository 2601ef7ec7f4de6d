package rules

import (
	"math"
	"sort"

	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/shopspring/decimal"
)

// Context holds the dataset-wide statistics rules need: the top-percentile
// amount cutoff and the duplicate-key occurrence counts. It is built once
// from the full entry set and read-only afterwards.
type Context struct {
	keyCounts    map[string]int
	threshold    decimal.Decimal
	hasThreshold bool
}

// BuildContext computes dataset statistics for a full, ordered entry set.
// The cutoff uses the nearest-rank method over absolute amounts: index
// ceil(p×N)−1, clamped to the valid range. An empty set has no cutoff.
func BuildContext(entries []model.Entry, percentile float64) Context {
	ctx := Context{keyCounts: make(map[string]int, len(entries))}
	for i := range entries {
		ctx.keyCounts[entries[i].DedupKey()]++
	}
	if len(entries) == 0 {
		return ctx
	}

	abs := make([]decimal.Decimal, len(entries))
	for i := range entries {
		abs[i] = entries[i].Amount.Abs()
	}
	sort.Slice(abs, func(i, j int) bool { return abs[i].LessThan(abs[j]) })

	idx := int(math.Ceil(percentile*float64(len(abs)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(abs)-1 {
		idx = len(abs) - 1
	}
	ctx.threshold = abs[idx]
	ctx.hasThreshold = true

	return ctx
}

// Threshold returns the top-percentile cutoff. ok is false when the
// dataset was empty and no cutoff exists.
func (c Context) Threshold() (decimal.Decimal, bool) {
	return c.threshold, c.hasThreshold
}

// DuplicateCount returns how many entries share the given dedup key.
func (c Context) DuplicateCount(key string) int {
	return c.keyCounts[key]
}
