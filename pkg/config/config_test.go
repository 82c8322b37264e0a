package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir stands in for t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
keyword: fn
short_syntax: false
driver:
  compilers: [gcc, clang]
  search_paths: [/usr/local/bin]
  preprocessor_paths: [/opt/lambdapp]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fn", cfg.Keyword)
	require.NotNil(t, cfg.ShortSyntax)
	assert.False(t, *cfg.ShortSyntax)
	assert.Equal(t, []string{"gcc", "clang"}, cfg.Driver.Compilers)
	assert.Equal(t, []string{"/usr/local/bin"}, cfg.Driver.SearchPaths)
	assert.Equal(t, []string{"/opt/lambdapp"}, cfg.Driver.PreprocessorPaths)
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Keyword)
	assert.Nil(t, cfg.ShortSyntax)
}

func TestLoadInvalidKeyword(t *testing.T) {
	for _, keyword := range []string{"1fn", "my-lambda", "a b"} {
		_, err := Load(writeConfig(t, "keyword: "+`"`+keyword+`"`+"\n"))
		require.Error(t, err, keyword)
		assert.Contains(t, err.Error(), "not a valid identifier")
	}
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "keyword: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadDefaultAbsent(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadDefaultPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("keyword: closure\n"), 0o644))
	chdir(t, dir)

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "closure", cfg.Keyword)
}
