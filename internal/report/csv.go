// Package report renders scan results into the risky.csv and summary.md
// output artifacts.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/risky-journals/internal/model"
)

// riskyColumns is the fixed column order of risky.csv.
var riskyColumns = []string{
	"entry_id", "date", "user", "account", "amount", "memo", "source", "risk_score", "reasons",
}

// Flagged filters scored entries down to those at or above the reporting
// threshold, preserving their order.
func Flagged(scored []model.ScoredEntry, threshold int) []model.ScoredEntry {
	flagged := make([]model.ScoredEntry, 0, len(scored))
	for _, s := range scored {
		if s.RiskScore >= threshold {
			flagged = append(flagged, s)
		}
	}
	return flagged
}

// WriteRiskyCSV renders flagged entries as CSV. Output is deterministic
// for a given input.
func WriteRiskyCSV(w io.Writer, flagged []model.ScoredEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(riskyColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range flagged {
		record := []string{
			s.ID,
			s.Date.Format("2006-01-02 15:04:05"),
			s.User,
			s.Account,
			s.Amount.StringFixed(2),
			s.Memo,
			s.Source,
			strconv.Itoa(s.RiskScore),
			strings.Join(s.Reasons, ","),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
