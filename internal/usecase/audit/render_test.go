package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"assetverify/internal/errs"
)

func compiledFixture(t *testing.T) Report {
	t.Helper()
	inv, ver := newFixture()
	inv.desksErr = errors.New("workspace service timed out")
	report, err := newTestCompiler(inv, ver, nil).Compile(context.Background())
	require.NoError(t, err)
	return report
}

func TestWriteTextRendersSectionTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, compiledFixture(t), FormatText))

	out := buf.String()
	assert.Contains(t, out, "cycle#3 \"Q4\" (active)")
	assert.Contains(t, out, "unavailable: workspace service timed out")
	assert.Contains(t, out, "Laptop=1 Monitor=1")
	assert.Contains(t, out, "COMPLIANCE")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Action items")
	assert.Contains(t, out, "GONE-1")
	assert.Contains(t, out, "1 assets have expired warranties")
	assert.Less(t,
		strings.Index(out, "1 assets have expired warranties"),
		strings.Index(out, "1 employees have discrepant verification results"),
	)
	assert.Less(t, strings.Index(out, "HIGH"), strings.Index(out, "MEDIUM"))
	assert.Contains(t, out, "│", "sections render as lipgloss tables")
}

func TestWriteJSONFlattensSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, compiledFixture(t), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assets := decoded["assets"].(map[string]any)
	assert.EqualValues(t, 1, assets["warranty_expired"])
	workspace := decoded["workspace"].(map[string]any)
	assert.Equal(t, "workspace service timed out", workspace["error"])
}

func TestWriteYAMLInlinesStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, compiledFixture(t), FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assets := decoded["assets"].(map[string]any)
	assert.Equal(t, 2, assets["total"])
	verification := decoded["verification"].(map[string]any)
	assert.Equal(t, 2, verification["total_records"])
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}
