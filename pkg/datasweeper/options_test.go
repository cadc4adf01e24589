package datasweeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"xlsx", FormatSpreadsheet, false},
		{" Excel ", FormatSpreadsheet, false},
		{"spreadsheet", FormatSpreadsheet, false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatProperties(t *testing.T) {
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, ".xlsx", FormatSpreadsheet.Extension())
	assert.Equal(t, "text/csv", FormatCSV.MIMEType())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatSpreadsheet.MIMEType())
}

func TestParseCleanActions(t *testing.T) {
	actions, err := ParseCleanActions([]string{"fill-missing-mean", " ", "Remove-Duplicates"})
	require.NoError(t, err)
	assert.Equal(t, []CleanAction{FillMissingMean, RemoveDuplicates}, actions)

	_, err = ParseCleanActions([]string{"remove-duplicates", "sort"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	actions, err = ParseCleanActions(nil)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, FormatCSV, opts.Format)
	assert.Empty(t, opts.Clean)
	assert.Empty(t, opts.Columns)
}
