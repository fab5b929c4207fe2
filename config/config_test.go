package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"BOOM_DEBUG", "BOOM_SAMPLE_RATE", "BOOM_BPM", "BOOM_SEED"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, int64(-1), cfg.Generation.Seed)
	assert.Equal(t, 65.0, cfg.Capture.Seconds)
}

func TestSaveLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Generation.DrumStyle = "drill"
	cfg.Generation.SwingPct = 30
	cfg.Transcription.BPM = 140
	cfg.UI.LastEngine = "808"
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(home, ".config", "go-boom", "config.yaml"))
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	dir := filepath.Join(home, ".config", "go-boom")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("generation:\n  key: F#\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "F#", cfg.Generation.Key)
	assert.Equal(t, "hip hop", cfg.Generation.DrumStyle)
	assert.Equal(t, 44100, cfg.Capture.SampleRate)
}

func TestBadYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	dir := filepath.Join(home, ".config", "go-boom")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("generation: [\n"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOOM_DEBUG", "true")
	t.Setenv("BOOM_SAMPLE_RATE", "48000")
	t.Setenv("BOOM_BPM", "95")
	t.Setenv("BOOM_SEED", "1234")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 48000, cfg.Capture.SampleRate)
	assert.Equal(t, 95, cfg.Transcription.BPM)
	assert.Equal(t, 95, cfg.Export.BPM)
	assert.Equal(t, int64(1234), cfg.Generation.Seed)
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("BOOM_SAMPLE_RATE", "fast")
	t.Setenv("BOOM_SEED", "x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 44100, cfg.Capture.SampleRate)
	assert.Equal(t, int64(-1), cfg.Generation.Seed)
}

func TestExportDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	dir, err := cfg.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "go-boom", "exports"), dir)

	cfg.Export.Dir = "/tmp/beats"
	dir, err = cfg.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/beats", dir)
}
