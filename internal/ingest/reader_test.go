package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Row
	}{
		{
			name: "rows keyed by header",
			input: "entry_id,date,amount,memo\n" +
				"JE-1,2024-01-06 02:00:00,1000.00,reversal entry\n" +
				"JE-2,2024-01-08 11:00:00,123.45,vendor payment\n",
			want: []Row{
				{"entry_id": "JE-1", "date": "2024-01-06 02:00:00", "amount": "1000.00", "memo": "reversal entry"},
				{"entry_id": "JE-2", "date": "2024-01-08 11:00:00", "amount": "123.45", "memo": "vendor payment"},
			},
		},
		{
			name:  "header only",
			input: "entry_id,date,amount\n",
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "leading spaces trimmed",
			input: "a,b\n 1, 2\n",
			want:  []Row{{"a": "1", "b": "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestRead_RaggedRowFails(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile("does/not/exist.csv")
	assert.Error(t, err)
}
