package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry represents a single journal line loaded from the ledger.
type Entry struct {
	Date    time.Time
	ID      string // Ledger-assigned entry identifier
	User    string
	Account string
	Memo    string
	Source  string // e.g. SYSTEM for generated postings, anything else is manual
	Amount  decimal.Decimal
}

// DedupKey creates a hash identifying entries that duplicate each other.
// Entries posted on the same day to the same account for the same signed
// amount with the same memo (case-insensitive) share a key.
func (e *Entry) DedupKey() string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		e.Date.Format("2006-01-02"),
		e.Account,
		e.Amount.StringFixed(2),
		strings.ToLower(e.Memo))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsSystemSource reports whether the entry was posted by an automated
// source rather than a person.
func (e *Entry) IsSystemSource() bool {
	return strings.EqualFold(e.Source, "SYSTEM")
}
