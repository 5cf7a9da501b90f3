package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no fallback file present

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "rules.json", cfg.Compile.OutputPath)
	assert.Equal(t, "127.0.0.1:5500", cfg.Server.Addr)
	assert.Equal(t, ".", cfg.Server.StaticDir)
	assert.False(t, cfg.Compile.Debug)
	assert.Empty(t, cfg.DB.Path)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tprules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"compile:\n  excel_path: Rule Tables.xlsx\n  fye: \"2025-12-31\"\nserver:\n  addr: \"127.0.0.1:9000\"\n",
	), 0o644))
	t.Setenv("TPRULES_CONFIG", path)
	t.Setenv("TPRULES_OUT", "out/rules.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Rule Tables.xlsx", cfg.Compile.ExcelPath)
	assert.Equal(t, "2025-12-31", cfg.Compile.FYE)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "out/rules.json", cfg.Compile.OutputPath, "env overrides file")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("TPRULES_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestValidateFYE(t *testing.T) {
	cfg := &Config{}
	cfg.Compile.FYE = "31/12/2025"
	require.Error(t, cfg.Validate())

	cfg.Compile.FYE = "2025-12-31"
	require.NoError(t, cfg.Validate())
}
