package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCreatesFileAndRoundTrips(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, Set("", "api_key", "fc-1234567890abcdef"))
	require.NoError(t, Set("", "default_save_format", "JSON"))
	require.NoError(t, Set("", "runtime.host", "http://gpu-box:11434"))
	require.NoError(t, Set("", "runtime.probe_timeout_secs", "5"))
	require.NoError(t, Set("", "report.pdf_enabled", "false"))

	info, err := os.Stat(DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fc-1234567890abcdef", cfg.APIKey)
	assert.Equal(t, "json", cfg.DefaultSaveFormat)
	assert.Equal(t, "http://gpu-box:11434", cfg.Runtime.Host)
	assert.Equal(t, 5, cfg.Runtime.ProbeTimeoutSecs)
	assert.False(t, cfg.Report.PDFEnabled)
	// Untouched sections keep defaults.
	assert.Equal(t, "ollama", cfg.Runtime.Provider)
}

func TestSetPreservesOtherKeys(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reports_dir: keep\nruntime:\n  provider: openai\n"), 0644))

	require.NoError(t, Set(path, "runtime.host", "http://localhost:1234/v1"))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", cfg.ReportsDir)
	assert.Equal(t, "openai", cfg.Runtime.Provider)
	assert.Equal(t, "http://localhost:1234/v1", cfg.Runtime.Host)
}

func TestSetNumericLookingKeyStaysString(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, Set("", "api_key", "123456"))

	raw, ok, err := ReadRaw("")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `api_key: "123456"`)
}

func TestSetRejectsUnknownFormat(t *testing.T) {
	chdirTemp(t)

	err := Set("", "default_save_format", "docx")
	assert.Error(t, err)

	_, ok, err := ReadRaw("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetEmptyKey(t *testing.T) {
	chdirTemp(t)
	assert.Error(t, Set("", " ", "x"))
}

func TestReset(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, Set("", "reports_dir", "elsewhere"))
	require.NoError(t, Reset(""))

	_, ok, err := ReadRaw("")
	require.NoError(t, err)
	assert.False(t, ok)

	// Resetting again is a no-op.
	assert.NoError(t, Reset(""))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "firecrawl_reports", cfg.ReportsDir)
}
