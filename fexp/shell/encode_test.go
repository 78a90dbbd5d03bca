package shell

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": OutputTable, "table": OutputTable, "json": OutputJSON, "yaml": OutputYAML} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseOutputFormat("xml")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	results := newTestExplorer().Search("b")
	out := SearchOutput{
		Query:    "b @size>",
		Count:    len(results),
		Results:  results,
		Warnings: []query.Warning{{Token: "@size>", Reason: "size directive too short"}},
	}

	var js bytes.Buffer
	require.NoError(t, Encode(&js, OutputJSON, out))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "b @size>", decoded["query"])
	assert.EqualValues(t, 1, decoded["count"])
	first := decoded["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "/a/b.txt", first["path"])
	assert.Equal(t, true, first["is_file"])
	assert.EqualValues(t, 100, first["size"])

	var ym bytes.Buffer
	require.NoError(t, Encode(&ym, OutputYAML, out))
	var fromYAML SearchOutput
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Equal(t, out.Query, fromYAML.Query)
	require.Len(t, fromYAML.Results, 1)
	assert.Equal(t, "/a/b.txt", fromYAML.Results[0].Path)
	assert.True(t, fromYAML.Results[0].Modified.Equal(modTime))
	assert.Equal(t, out.Warnings, fromYAML.Warnings)

	assert.Error(t, Encode(&js, OutputTable, out))
}
