// Test Type: Unit Test
// Description: Tests config loading, overrides, and starter-config generation

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/railup/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Defaults()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Verbosity)
	assert.True(t, cfg.SafeMode)
	assert.Empty(t, cfg.TargetVersion)
	assert.Empty(t, cfg.RulePacks)
}

func TestLoad(t *testing.T) {
	t.Run("no_config_file_uses_defaults", func(t *testing.T) {
		cfg, err := config.Load(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.SafeMode)
	})

	t.Run("project_file_overrides_defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := `
verbosity = 2
safe_mode = false
target_version = "7.0.0"
rule_packs = ["packs/company.yml"]
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".railup.toml"), []byte(content), 0644))

		cfg, err := config.Load(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Verbosity)
		assert.False(t, cfg.SafeMode)
		assert.Equal(t, "7.0.0", cfg.TargetVersion)
		assert.Equal(t, []string{"packs/company.yml"}, cfg.RulePacks)
	})

	t.Run("malformed_file_errors", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".railup.toml"), []byte("verbosity = [broken"), 0644))
		_, err := config.Load(dir)
		assert.Error(t, err)
	})
}

func TestGenerate(t *testing.T) {
	out, err := config.Generate()
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "safe_mode = true")
	assert.Contains(t, s, "# railup configuration.")
}
