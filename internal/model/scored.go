package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleResult records a single rule's verdict for one entry.
type RuleResult struct {
	Name      string
	Weight    int
	Triggered bool
}

// ScoredEntry is an Entry plus its aggregated risk verdict. RiskScore is
// the sum of the weights of exactly the rules listed in Reasons, which
// appear in rule-table order.
type ScoredEntry struct {
	Entry
	Reasons   []string
	RiskScore int
}

// Run summarizes one completed scan for the history database.
type Run struct {
	StartedAt     time.Time
	InputPath     string
	ID            int64
	RowsScanned   int
	RowsFlagged   int
	RowsSkipped   int
	FlagThreshold int
}

// Finding is one flagged entry as persisted in run history.
type Finding struct {
	Date      time.Time
	EntryID   string
	User      string
	Account   string
	Memo      string
	Source    string
	Reasons   []string
	Amount    decimal.Decimal
	ID        int64
	RunID     int64
	RiskScore int
}
