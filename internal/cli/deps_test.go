package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdom/internal/config"
)

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	opts := &rootOptions{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		apiURL:     "http://quiz.example:3000",
		store:      config.DriverMemory,
	}
	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "http://quiz.example:3000", cfg.API.BaseURL)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	_, err := loadConfig(&rootOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml"), store: "etcd"})
	assert.Error(t, err)
}

func TestSettingsCommandSavesAndPrints(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	raw := "store:\n  driver: sqlite\n  sqlite:\n    path: " + filepath.Join(dir, "quizdom.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o644))

	opts := &rootOptions{configPath: cfgPath, apiURL: "", store: ""}
	cmd := NewSettingsCmd(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--timer", "45", "--questions", "5"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "45")

	out.Reset()
	again := NewSettingsCmd(opts)
	again.SetOut(&out)
	again.SetArgs(nil)
	require.NoError(t, again.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "45")
	assert.Contains(t, out.String(), "5")
}

func TestSettingsCommandRejectsInvalidTimer(t *testing.T) {
	opts := &rootOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml"), store: config.DriverMemory}
	cmd := NewSettingsCmd(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--timer", "0"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
