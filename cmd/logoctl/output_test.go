package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestOutputResult_Formats(t *testing.T) {
	result := ResolveResult{
		Ticker:      "BTC",
		Key:         "btc",
		Path:        "crypto_icons/btc.svg",
		Status:      "found",
		ContentType: "image/svg+xml",
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, outputResult(&buf, result, "json"))

		var got ResolveResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, result, got)
		assert.Contains(t, buf.String(), "\n  \"ticker\"")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, outputResult(&buf, result, "yaml"))

		var got ResolveResult
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, result, got)
		assert.Contains(t, buf.String(), "contentType: image/svg+xml")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, outputResult(&buf, result, "table"))
		assert.Contains(t, buf.String(), "STATUS:")
		assert.Contains(t, buf.String(), "image/svg+xml")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, outputResult(&bytes.Buffer{}, result, "csv"))
	})
}

func TestOutputTable_UnknownTypeFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputTable(&buf, map[string]int{"keys": 3}))
	assert.JSONEq(t, `{"keys": 3}`, buf.String())
}

func TestOutputIndexTable_NoCategory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputTable(&buf, IndexResult{
		Root:    "logos",
		Keys:    1,
		Entries: []IndexEntry{{Ticker: "spy", Path: "spy.png"}},
	}))
	assert.Regexp(t, `spy\s+-\s+spy\.png`, buf.String())
}

func TestOutputInspectTable_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputTable(&buf, InspectResult{Images: []ImageDetails{
		{Ticker: "aapl", Path: "ticker_icons/aapl.png", Format: "png", Width: 64, Height: 64, Size: 100},
		{Ticker: "msft", Error: "logo not found"},
	}}))
	out := buf.String()
	assert.Regexp(t, `aapl\s+png\s+64\s+64\s+100\s+ticker_icons/aapl\.png`, out)
	assert.Contains(t, out, "(logo not found)")
}

func TestOutputInfoTable_SortedEndpoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputTable(&buf, InfoResult{
		Server:    "http://localhost:8000",
		Name:      "Ticker Logos API",
		Health:    "healthy",
		Endpoints: map[string]string{"b": "/logo", "a": "/logo/{ticker}"},
	}))
	assert.Regexp(t, `(?s)ENDPOINT\s+PATH\na\s+/logo/\{ticker\}\nb\s+/logo\n`, buf.String())
}
