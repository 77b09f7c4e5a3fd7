package config

import (
	"os"
	"path/filepath"
	"testing"

	"stage-dashboard/domain/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
datasets:
  - id: "2025"
    url: https://example.test/2025.csv
  - id: "2026"
    url: https://example.test/2026.csv
    token_env: SHEETS_TOKEN
dashboard:
  preferred_stages: [b, a]
  video_marker: video
  stage_prefix: ""
  metrics:
    words: words
  on_failure: clear
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Datasets, 2)

	d, ok := c.Dataset("2026")
	require.True(t, ok)
	assert.Equal(t, "SHEETS_TOKEN", d.TokenEnv)
	_, ok = c.Dataset("2024")
	assert.False(t, ok)

	opt := c.Options()
	assert.Equal(t, []string{"b", "a"}, opt.PreferredStages)
	assert.Equal(t, "video", opt.VideoMarker)
	assert.Equal(t, "", opt.StagePrefix)
	assert.Equal(t, "words", opt.Metrics.Words)
	assert.Equal(t, progress.DefaultOptions().Metrics.Hours, opt.Metrics.Hours)
	assert.Equal(t, progress.DefaultOptions().VideoStage, opt.VideoStage)
	assert.Equal(t, progress.ClearOnFailure, c.FailurePolicy())
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"missing id":  "datasets:\n  - url: https://x\n",
		"missing url": "datasets:\n  - id: a\n",
		"duplicate":   "datasets:\n  - {id: a, url: u}\n  - {id: a, url: v}\n",
		"policy":      "dashboard:\n  on_failure: drop\n",
		"yaml":        "datasets: [\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Len(t, c.Datasets, 2)
	assert.Equal(t, "2025", c.Datasets[0].ID)
	assert.Equal(t, progress.RetainOnFailure, c.FailurePolicy())
	assert.Equal(t, progress.DefaultOptions(), c.Options())
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("CONFIG_PATH", "/etc/dash.yml")
	assert.Equal(t, "/etc/dash.yml", Path())
}
