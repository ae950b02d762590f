package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("library: lib/libic.sig\nformat: yaml\nwarnings: false\n"), "icc.yaml")
	require.Nil(t, err)
	assert.Equal(t, "lib/libic.sig", cfg.Library)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.False(t, cfg.Warnings)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.True(t, cfg.EchoSource)
	assert.False(t, cfg.StopAtFirstFailingPass)

	cfg, err = ParseConfig(nil, "icc.yaml")
	require.Nil(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Errors(t *testing.T) {
	testData := []struct {
		content  string
		expected string
	}{
		{content: "format: json\n", expected: `icc.yaml: unknown format "json"`},
		{content: "color: blue\n", expected: `icc.yaml: unknown color mode "blue"`},
		{content: "warnings: [1, 2\n", expected: "parsing icc.yaml"},
	}
	for _, data := range testData {
		_, err := ParseConfig([]byte(data.content), "icc.yaml")
		if assert.NotNil(t, err, data.content) {
			assert.Contains(t, err.Error(), data.expected)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icc.yaml")
	require.Nil(t, os.WriteFile(path, []byte("stop_at_first_failing_pass: true\ndump_symtab: true\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.Nil(t, err)
	assert.True(t, cfg.StopAtFirstFailingPass)
	assert.True(t, cfg.DumpSymtab)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "reading config")
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
}
