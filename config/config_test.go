package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/bladefmt/blade/directive"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4, cfg.Indent.Size)
	assert.False(t, cfg.Indent.Tabs)
	assert.Empty(t, cfg.Directives)
	assert.Empty(t, cfg.Path())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bladefmt.yaml")
	writeFile(t, path, "indent:\n  tabs: true\nlog:\n  verbosity: 2\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Indent.Tabs)
	assert.Equal(t, 4, cfg.Indent.Size, "size keeps its default")
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bladefmt.json")
	writeFile(t, path, `{"indent": {"size": 2}, "log": {"file": "/tmp/bladefmt.log"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent.Size)
	assert.Equal(t, "/tmp/bladefmt.log", cfg.Log.File)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "indent: [1, 2\n")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse YAML config")

	negative := filepath.Join(dir, "negative.yaml")
	writeFile(t, negative, "indent:\n  size: -1\n")
	_, err = Load(negative)
	assert.ErrorContains(t, err, "must not be negative")
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".bladefmt.yaml")
	writeFile(t, path, "indent:\n  size: 2\n")
	nested := filepath.Join(root, "resources", "views", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent.Size)
}

func TestDirectiveTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "directives.yaml"), "blocks:\n  markdown: [endmarkdown]\ninline: [svg]\n")
	cfgPath := filepath.Join(dir, ".bladefmt.yaml")
	writeFile(t, cfgPath, "directives: directives.yaml\n")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	table, err := cfg.DirectiveTable()
	require.NoError(t, err)
	assert.Equal(t, directive.BlockStart, table.Lookup("markdown"))
	assert.Equal(t, directive.Inline, table.Lookup("svg"))
	assert.Equal(t, directive.BlockStart, table.Lookup("if"), "built-in directives are kept")

	opts, err := cfg.FormatOptions()
	require.NoError(t, err)
	assert.Equal(t, 4, opts.IndentSize)
	assert.Equal(t, directive.BlockStart, opts.Directives.Lookup("markdown"))
}

func TestDirectiveTableDefault(t *testing.T) {
	table, err := DefaultConfig().DirectiveTable()
	require.NoError(t, err)
	assert.Same(t, directive.Default(), table)
}

func TestDirectiveTableMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directives = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := cfg.DirectiveTable()
	assert.Error(t, err)
}
