package rules

import (
	"testing"
	"time"

	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triggered reports whether the named rule fired for an entry.
func triggered(t *testing.T, e *Engine, entry model.Entry, ctx Context, name string) bool {
	t.Helper()
	for _, res := range e.Evaluate(entry, ctx) {
		if res.Name == name {
			return res.Triggered
		}
	}
	t.Fatalf("unknown rule %q", name)
	return false
}

func TestRoundNumberRules(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := BuildContext(nil, 0.99)

	tests := []struct {
		amount    string
		round100  bool
		round1000 bool
	}{
		{"200.00", true, false},
		{"1000.00", true, true},
		{"-300", true, false},
		{"-5000", true, true},
		{"123.45", false, false},
		{"100.50", false, false},
		{"0.00", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			entry := entryWithAmount("A", tt.amount)
			assert.Equal(t, tt.round100, triggered(t, engine, entry, ctx, "round_100"), "round_100")
			assert.Equal(t, tt.round1000, triggered(t, engine, entry, ctx, "round_1000"), "round_1000")
		})
	}
}

func TestRound1000ImpliesRound100(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := BuildContext(nil, 0.99)

	for _, amount := range []string{"1000", "-13000", "0", "2000000"} {
		entry := entryWithAmount("A", amount)
		if triggered(t, engine, entry, ctx, "round_1000") {
			assert.True(t, triggered(t, engine, entry, ctx, "round_100"),
				"round_1000 implies round_100 for %s", amount)
		}
	}
}

func TestCentsZeroRule(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := BuildContext(nil, 0.99)

	tests := []struct {
		amount string
		want   bool
	}{
		{"10.00", true},
		{"-7", true},
		{"0", true},
		{"10.50", false},
		{"0.01", false},
		{"-99.99", false},
	}

	for _, tt := range tests {
		entry := entryWithAmount("A", tt.amount)
		assert.Equal(t, tt.want, triggered(t, engine, entry, ctx, "cents_zero"), "amount %s", tt.amount)
	}
}

func TestWeekendRule(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := BuildContext(nil, 0.99)

	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), true},  // Saturday
		{time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC), true},  // Sunday
		{time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), false}, // Monday
		{time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), false}, // Friday
	}

	for _, tt := range tests {
		entry := entryWithAmount("A", "123.45")
		entry.Date = tt.date
		assert.Equal(t, tt.want, triggered(t, engine, entry, ctx, "weekend"), "%s", tt.date.Weekday())
	}
}

func TestLateNightRule(t *testing.T) {
	ctx := BuildContext(nil, 0.99)

	t.Run("default window wraps past midnight", func(t *testing.T) {
		engine := NewEngine(DefaultConfig()) // 22–05
		for hour, want := range map[int]bool{
			22: true, 23: true, 0: true, 3: true, 5: true,
			6: false, 12: false, 21: false,
		} {
			entry := entryWithAmount("A", "123.45")
			entry.Date = time.Date(2024, 1, 10, hour, 15, 0, 0, time.UTC)
			assert.Equal(t, want, triggered(t, engine, entry, ctx, "late_night"), "hour %d", hour)
		}
	})

	t.Run("non-wrapping window", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LateNightStartHour = 0
		cfg.LateNightEndHour = 5
		engine := NewEngine(cfg)

		for hour, want := range map[int]bool{
			0: true, 3: true, 5: true,
			6: false, 22: false, 23: false,
		} {
			entry := entryWithAmount("A", "123.45")
			entry.Date = time.Date(2024, 1, 10, hour, 15, 0, 0, time.UTC)
			assert.Equal(t, want, triggered(t, engine, entry, ctx, "late_night"), "hour %d", hour)
		}
	})
}

func TestRiskyMemoRule(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := BuildContext(nil, 0.99)

	tests := []struct {
		memo string
		want bool
	}{
		{"Monthly ADJUSTMENT posting", true},
		{"write-off of stale balance", true},
		{"plug to tie out", true},
		{"Reversal entry", true},
		{"regular vendor payment", false},
		{"", false},
	}

	for _, tt := range tests {
		entry := entryWithAmount("A", "123.45")
		entry.Memo = tt.memo
		assert.Equal(t, tt.want, triggered(t, engine, entry, ctx, "risky_memo"), "memo %q", tt.memo)
	}
}

func TestRiskyMemoRule_CustomTerms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RiskyMemoTerms = []string{"Backdated"}
	engine := NewEngine(cfg)
	ctx := BuildContext(nil, 0.99)

	entry := entryWithAmount("A", "123.45")
	entry.Memo = "backdated correction"
	assert.True(t, triggered(t, engine, entry, ctx, "risky_memo"))

	entry.Memo = "adjustment" // not in the custom list
	assert.False(t, triggered(t, engine, entry, ctx, "risky_memo"))
}

func TestManualSourceRule(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := BuildContext(nil, 0.99)

	tests := []struct {
		source string
		want   bool
	}{
		{"SYSTEM", false},
		{"system", false},
		{"manual", true},
		{"csv-import", true},
	}

	for _, tt := range tests {
		entry := entryWithAmount("A", "123.45")
		entry.Source = tt.source
		assert.Equal(t, tt.want, triggered(t, engine, entry, ctx, "manual_source"), "source %q", tt.source)
	}
}

func TestTopPercentileRule(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	entries := amountRange(100) // threshold = 99
	ctx := engine.BuildContext(entries)

	threshold, ok := ctx.Threshold()
	require.True(t, ok)
	assert.True(t, threshold.Equal(decimal.NewFromInt(99)))

	tests := []struct {
		amount string
		want   bool
	}{
		{"99", true},
		{"100", true},
		{"-250", true}, // absolute value
		{"98.99", false},
		{"1", false},
	}

	for _, tt := range tests {
		entry := entryWithAmount("X", tt.amount)
		assert.Equal(t, tt.want, triggered(t, engine, entry, ctx, "top1pct"), "amount %s", tt.amount)
	}
}

func TestTopPercentileRule_EmptyDataset(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ctx := engine.BuildContext(nil)

	entry := entryWithAmount("A", "1000000")
	assert.False(t, triggered(t, engine, entry, ctx, "top1pct"),
		"top1pct must never trigger without a threshold")
}

func TestDuplicateRule_AllMembersFlagged(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	dup := entryWithAmount("A", "150.00")
	dup.Account = "4000"
	first, second := dup, dup
	first.ID, second.ID = "E1", "E2"

	entries := []model.Entry{first, second, entryWithAmount("B", "9.99")}
	ctx := engine.BuildContext(entries)

	assert.True(t, triggered(t, engine, first, ctx, "duplicate"), "first occurrence")
	assert.True(t, triggered(t, engine, second, ctx, "duplicate"), "second occurrence")
	assert.False(t, triggered(t, engine, entries[2], ctx, "duplicate"), "unique entry")
}
