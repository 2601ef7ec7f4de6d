package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	row := Row{
		"entry_id": " JE-7 ",
		"date":     "2024-01-06 02:15:00",
		"user":     "pat",
		"account":  "5100",
		"amount":   "$1,000.00",
		"memo":     "  reversal entry ",
		"source":   "manual",
	}

	entry, err := Normalize(row, 2)
	require.NoError(t, err)

	assert.Equal(t, "JE-7", entry.ID)
	assert.Equal(t, time.Date(2024, 1, 6, 2, 15, 0, 0, time.UTC), entry.Date)
	assert.Equal(t, "pat", entry.User)
	assert.Equal(t, "5100", entry.Account)
	assert.Equal(t, "reversal entry", entry.Memo)
	assert.Equal(t, "manual", entry.Source)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("1000.00")))
}

func TestNormalize_Defaults(t *testing.T) {
	entry, err := Normalize(Row{"date": "2024-01-08", "amount": "5"}, 2)
	require.NoError(t, err)

	assert.Equal(t, "SYSTEM", entry.Source, "empty source defaults to SYSTEM")
	assert.Empty(t, entry.ID)
	assert.Empty(t, entry.User)
	assert.Empty(t, entry.Account)
	assert.Empty(t, entry.Memo)
}

func TestNormalize_DateLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-01-08 13:45:00",
		"2024-01-08T13:45:00",
		"2024-01-08T13:45:00Z",
		"2024-01-08",
	} {
		entry, err := Normalize(Row{"date": raw, "amount": "1"}, 2)
		require.NoError(t, err, "layout %q", raw)
		assert.Equal(t, 2024, entry.Date.Year())
		assert.Equal(t, 8, entry.Date.Day())
	}
}

func TestNormalize_MalformedRows(t *testing.T) {
	tests := []struct {
		name      string
		row       Row
		wantField string
	}{
		{"missing amount", Row{"date": "2024-01-08"}, "amount"},
		{"blank amount", Row{"date": "2024-01-08", "amount": "  "}, "amount"},
		{"unparseable amount", Row{"date": "2024-01-08", "amount": "ten"}, "amount"},
		{"missing date", Row{"amount": "10"}, "date"},
		{"unparseable date", Row{"date": "Jan eighth", "amount": "10"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.row, 5)
			require.Error(t, err)

			var malformed *MalformedRowError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.wantField, malformed.Field)
			assert.Equal(t, 5, malformed.Line)
		})
	}
}

func TestNormalize_NegativeDollarAmount(t *testing.T) {
	entry, err := Normalize(Row{"date": "2024-01-08", "amount": "-$2,500.00"}, 2)
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("-2500.00")))
}

func TestNormalizeAll(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-08", "amount": "10"},
		{"date": "bad", "amount": "10"},
		{"date": "2024-01-09", "amount": "20"},
	}

	t.Run("skip and count", func(t *testing.T) {
		entries, skipped, err := NormalizeAll(rows, false)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, 1, skipped)
	})

	t.Run("strict aborts on the malformed row", func(t *testing.T) {
		_, _, err := NormalizeAll(rows, true)
		require.Error(t, err)

		var malformed *MalformedRowError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, 3, malformed.Line, "line numbers are 1-based after the header")
	})
}
