// Package rules implements the heuristic risk rules and the scoring engine
// that maps journal entries to weighted risk scores with readable reasons.
package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/shopspring/decimal"
)

// MaxScore is the sum of every rule weight.
const MaxScore = 16

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// rule pairs a predicate with its fixed weight. Table order is the order
// reasons are reported in.
type rule struct {
	match  func(e *Engine, entry model.Entry, ctx Context) bool
	name   string
	weight int
}

// RuleWeight is one row of the scoring legend.
type RuleWeight struct {
	Name   string
	Weight int
}

// Engine evaluates the fixed rule table against entries. Rules are
// mutually independent; only the dataset Context is shared between them.
type Engine struct {
	memoTerms []string
	table     []rule
	cfg       Config
}

// NewEngine builds an engine for the given settings.
func NewEngine(cfg Config) *Engine {
	terms := make([]string, len(cfg.RiskyMemoTerms))
	for i, t := range cfg.RiskyMemoTerms {
		terms[i] = strings.ToLower(t)
	}

	return &Engine{
		cfg:       cfg,
		memoTerms: terms,
		table: []rule{
			{name: "round_100", weight: 1, match: matchRound100},
			{name: "round_1000", weight: 2, match: matchRound1000},
			{name: "cents_zero", weight: 1, match: matchCentsZero},
			{name: "weekend", weight: 1, match: matchWeekend},
			{name: "late_night", weight: 2, match: matchLateNight},
			{name: "risky_memo", weight: 2, match: matchRiskyMemo},
			{name: "manual_source", weight: 2, match: matchManualSource},
			{name: "duplicate", weight: 3, match: matchDuplicate},
			{name: "top1pct", weight: 2, match: matchTopPercentile},
		},
	}
}

// RuleWeights returns the rule names and weights in evaluation order.
func (e *Engine) RuleWeights() []RuleWeight {
	weights := make([]RuleWeight, len(e.table))
	for i, r := range e.table {
		weights[i] = RuleWeight{Name: r.name, Weight: r.weight}
	}
	return weights
}

// Evaluate runs every rule against one entry, in table order.
func (e *Engine) Evaluate(entry model.Entry, ctx Context) []model.RuleResult {
	results := make([]model.RuleResult, len(e.table))
	for i, r := range e.table {
		results[i] = model.RuleResult{
			Name:      r.name,
			Weight:    r.weight,
			Triggered: r.match(e, entry, ctx),
		}
	}
	return results
}

// Score aggregates rule results into a scored entry.
func (e *Engine) Score(entry model.Entry, ctx Context) model.ScoredEntry {
	scored := model.ScoredEntry{Entry: entry}
	for _, res := range e.Evaluate(entry, ctx) {
		if res.Triggered {
			scored.RiskScore += res.Weight
			scored.Reasons = append(scored.Reasons, res.Name)
		}
	}
	return scored
}

// BuildContext derives the dataset statistics using the engine's percentile.
func (e *Engine) BuildContext(entries []model.Entry) Context {
	return BuildContext(entries, e.cfg.TopPercentile)
}

// Analyze builds the dataset context, scores every entry, and orders the
// result by risk score descending. Ties keep input order, so identical
// datasets always produce identical output.
func (e *Engine) Analyze(entries []model.Entry) []model.ScoredEntry {
	ctx := e.BuildContext(entries)

	scored := make([]model.ScoredEntry, len(entries))
	for i := range entries {
		scored[i] = e.Score(entries[i], ctx)
	}

	SortByRisk(scored)
	return scored
}

// SortByRisk orders entries by risk score descending, keeping input order
// for equal scores.
func SortByRisk(scored []model.ScoredEntry) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RiskScore > scored[j].RiskScore
	})
}

// Round-number checks use the absolute amount, so -500 is as round as 500.
// An exact zero is a multiple of every base and triggers all three.

func matchRound100(_ *Engine, entry model.Entry, _ Context) bool {
	return entry.Amount.Abs().Mod(hundred).IsZero()
}

func matchRound1000(_ *Engine, entry model.Entry, _ Context) bool {
	return entry.Amount.Abs().Mod(thousand).IsZero()
}

func matchCentsZero(_ *Engine, entry model.Entry, _ Context) bool {
	return entry.Amount.IsInteger()
}

func matchWeekend(_ *Engine, entry model.Entry, _ Context) bool {
	wd := entry.Date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func matchLateNight(e *Engine, entry model.Entry, _ Context) bool {
	h := entry.Date.Hour()
	start, end := e.cfg.LateNightStartHour, e.cfg.LateNightEndHour
	if start <= end {
		return h >= start && h <= end
	}
	// Window wraps past midnight.
	return h >= start || h <= end
}

func matchRiskyMemo(e *Engine, entry model.Entry, _ Context) bool {
	memo := strings.ToLower(entry.Memo)
	for _, term := range e.memoTerms {
		if strings.Contains(memo, term) {
			return true
		}
	}
	return false
}

func matchManualSource(_ *Engine, entry model.Entry, _ Context) bool {
	return !entry.IsSystemSource()
}

func matchDuplicate(_ *Engine, entry model.Entry, ctx Context) bool {
	return ctx.DuplicateCount(entry.DedupKey()) > 1
}

func matchTopPercentile(_ *Engine, entry model.Entry, ctx Context) bool {
	threshold, ok := ctx.Threshold()
	if !ok {
		return false
	}
	return entry.Amount.Abs().GreaterThanOrEqual(threshold)
}
