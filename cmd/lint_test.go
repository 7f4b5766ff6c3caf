package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/nasalint/nasalint/internal/types"
	"github.com/nasalint/nasalint/lint"
)

func TestPrintReportsJSONToFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	outFile := filepath.Join(dir, "report.json")

	reports := []lint.FileReport{
		{
			Path: "bad.py",
			Diagnostics: []tt.Diagnostic{
				{
					Range: tt.Range{
						Start: tt.Position{Line: 0, Character: 0},
						End:   tt.Position{Line: 0, Character: 4},
					},
					Message: "Call to forbidden API 'eval' (restricted subset)",
					Code:    tt.CodeForbiddenCall,
				},
			},
		},
	}

	printReports(zap.NewNop(), reports, true, outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var byFile map[string][]tt.Diagnostic
	require.NoError(t, json.Unmarshal(data, &byFile))
	require.Len(t, byFile["bad.py"], 1)
	assert.Equal(t, tt.CodeForbiddenCall, byFile["bad.py"][0].Code)
}
