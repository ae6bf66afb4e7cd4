package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkwang/bmt-lite/config"
)

func writeTestModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	doc := `classes:
  named thing: {}
  disease:
    is_a: named thing
slots:
  related to: {}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// testCommand builds a command carrying the global flags loadToolkit
// reads
func testCommand(modelPath string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("model", "", "")
	cmd.Flags().Bool("json", false, "")
	if modelPath != "" {
		_ = cmd.Flags().Set("model", modelPath)
	}
	return cmd
}

func TestLoadFromFile(t *testing.T) {
	path := writeTestModel(t)

	lm, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, lm.Path)
	assert.Equal(t, path, lm.Source)
	assert.NotEmpty(t, lm.Fingerprint)
	assert.Equal(t, 3, lm.Toolkit.Len())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := loadFromFile("/nonexistent/model.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading model file")
}

func TestModelFlagWinsOverConfig(t *testing.T) {
	path := writeTestModel(t)
	cmd := testCommand(path)

	cfg := &config.Config{}
	cfg.Model.Path = "/nonexistent/other.yaml"

	lm, err := loadToolkitWithConfig(cmd, cfg)
	require.NoError(t, err)
	assert.Equal(t, path, lm.Source)
}

func TestMissingCacheAdvisesFetch(t *testing.T) {
	cmd := testCommand("")

	cfg := &config.Config{}
	cfg.Model.CacheDir = t.TempDir()

	_, err := loadToolkitWithConfig(cmd, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bmt model fetch")
}

func TestShortFingerprint(t *testing.T) {
	assert.Equal(t, "3mJr7AoUXxWq", shortFingerprint("3mJr7AoUXxWqd7mNPnbyxb"))
	assert.Equal(t, "short", shortFingerprint("short"))
}
