package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/shopspring/decimal"
)

// MalformedRowError marks a row missing amount or date, or carrying a
// value that cannot be parsed.
type MalformedRowError struct {
	Err   error
	Field string
	Line  int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: bad %s: %v", e.Line, e.Field, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

var errMissingValue = errors.New("missing value")

// dateLayouts are the timestamp formats accepted in the date column.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize converts one raw row into a typed Entry. Pure; line is only
// used for error reporting. Amounts parse to exact decimals so the
// cents_zero rule stays exact; an empty source defaults to SYSTEM.
func Normalize(row Row, line int) (model.Entry, error) {
	rawAmount := strings.TrimSpace(row["amount"])
	if rawAmount == "" {
		return model.Entry{}, &MalformedRowError{Line: line, Field: "amount", Err: errMissingValue}
	}
	amount, err := decimal.NewFromString(cleanAmount(rawAmount))
	if err != nil {
		return model.Entry{}, &MalformedRowError{Line: line, Field: "amount", Err: err}
	}

	rawDate := strings.TrimSpace(row["date"])
	if rawDate == "" {
		return model.Entry{}, &MalformedRowError{Line: line, Field: "date", Err: errMissingValue}
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return model.Entry{}, &MalformedRowError{Line: line, Field: "date", Err: err}
	}

	source := strings.TrimSpace(row["source"])
	if source == "" {
		source = "SYSTEM"
	}

	return model.Entry{
		ID:      strings.TrimSpace(row["entry_id"]),
		Date:    date,
		User:    strings.TrimSpace(row["user"]),
		Account: strings.TrimSpace(row["account"]),
		Memo:    strings.TrimSpace(row["memo"]),
		Source:  source,
		Amount:  amount,
	}, nil
}

// NormalizeAll converts every row, skipping and counting malformed rows so
// no entry is dropped without trace. With strict set, it stops at the
// first malformed row instead.
func NormalizeAll(rows []Row, strict bool) ([]model.Entry, int, error) {
	entries := make([]model.Entry, 0, len(rows))
	skipped := 0

	for i, row := range rows {
		line := i + 2 // 1-based, after the header row
		entry, err := Normalize(row, line)
		if err != nil {
			if strict {
				return nil, 0, err
			}
			skipped++
			slog.Warn("Skipping malformed row", "line", line, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

func cleanAmount(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if strings.HasPrefix(s, "-$") {
		s = "-" + s[2:]
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
