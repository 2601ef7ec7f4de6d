package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/Veraticus/risky-journals/internal/rules"
)

// topListSize caps the per-section lists in summary.md.
const topListSize = 5

// NameCount pairs a label with an aggregate value.
type NameCount struct {
	Name  string
	Count int
}

// Summary holds the aggregate view of one scan.
type Summary struct {
	TopRules      []NameCount
	RiskByUser    []NameCount
	RiskByAccount []NameCount
	Weights       []rules.RuleWeight
	RowsScanned   int
	RowsFlagged   int
	RowsSkipped   int
	FlagThreshold int
}

// BuildSummary aggregates scan results for the summary report. Top lists
// are ordered by value descending, then name ascending for determinism.
func BuildSummary(scored, flagged []model.ScoredEntry, skipped int, engine *rules.Engine, threshold int) Summary {
	s := Summary{
		RowsScanned:   len(scored),
		RowsFlagged:   len(flagged),
		RowsSkipped:   skipped,
		FlagThreshold: threshold,
		Weights:       engine.RuleWeights(),
	}

	ruleCounts := make(map[string]int)
	userRisk := make(map[string]int)
	accountRisk := make(map[string]int)
	for _, f := range flagged {
		for _, reason := range f.Reasons {
			ruleCounts[reason]++
		}
		userRisk[f.User] += f.RiskScore
		accountRisk[f.Account] += f.RiskScore
	}

	s.TopRules = topN(ruleCounts, topListSize)
	s.RiskByUser = topN(userRisk, topListSize)
	s.RiskByAccount = topN(accountRisk, topListSize)

	return s
}

func topN(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RenderMarkdown produces the summary.md body.
func RenderMarkdown(s Summary) string {
	var b strings.Builder

	b.WriteString("# Risky Journals — Summary\n")
	fmt.Fprintf(&b, "- Rows scanned: **%d**\n", s.RowsScanned)
	fmt.Fprintf(&b, "- Rows flagged (score ≥ %d): **%d**\n", s.FlagThreshold, s.RowsFlagged)
	if s.RowsSkipped > 0 {
		fmt.Fprintf(&b, "- Rows skipped (malformed): **%d**\n", s.RowsSkipped)
	}

	b.WriteString("\n## Top rule triggers\n")
	writeCounts(&b, s.TopRules)

	b.WriteString("\n## Highest aggregate risk by user\n")
	writeCounts(&b, s.RiskByUser)

	b.WriteString("\n## Highest aggregate risk by account\n")
	writeCounts(&b, s.RiskByAccount)

	b.WriteString("\n## How scoring works\n")
	for _, w := range s.Weights {
		fmt.Fprintf(&b, "- %s: %d\n", w.Name, w.Weight)
	}

	b.WriteString("\n> Heuristics only. Use as a starting point for investigation.\n")

	return b.String()
}

func writeCounts(b *strings.Builder, counts []NameCount) {
	if len(counts) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(b, "- %s: **%d**\n", c.Name, c.Count)
	}
}

// WriteOutputs writes risky.csv and summary.md under dir, creating the
// directory if needed.
func WriteOutputs(dir string, flagged []model.ScoredEntry, summary Summary) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "risky.csv"))
	if err != nil {
		return fmt.Errorf("failed to create risky.csv: %w", err)
	}
	if err := WriteRiskyCSV(f, flagged); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close risky.csv: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "summary.md"), []byte(RenderMarkdown(summary)), 0o600); err != nil {
		return fmt.Errorf("failed to write summary.md: %w", err)
	}

	return nil
}
