package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("catalog", "", "")
	flags.String("credentials", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("output", "o", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := LoadConfig("", newFlags())
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultCatalog, cfg.Catalog)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "leapdata.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
catalog: conf/catalog.yml
credentials: /etc/leapdata/credentials.yml
output: json
`), 0o600))

	cfg, used, err := LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)
	assert.Equal(t, cfgPath, used)
	assert.Equal(t, filepath.Join(dir, "conf", "catalog.yml"), cfg.Catalog, "relative to the config file")
	assert.Equal(t, "/etc/leapdata/credentials.yml", cfg.Credentials)
	assert.Equal(t, "json", cfg.OutputFormat)

	t.Setenv("LEAPDATA_OUTPUT", "yaml")
	t.Setenv("LEAPDATA_CREDENTIALS__WAREHOUSE__CON", "sqlite://")
	cfg, _, err = LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat, "env overrides file")
	assert.Equal(t, "/etc/leapdata/credentials.yml", cfg.Credentials, "catalog overrides are ignored")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"-o", "csv", "--verbose", "--catalog", "other.yml"}))
	cfg, _, err = LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.OutputFormat, "flags override env")
	assert.Equal(t, "other.yml", cfg.Catalog)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"-o", "xml"}))
	t.Chdir(dir)
	_, _, err = LoadConfig("", flags)
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx))
	assert.Equal(t, DefaultCatalog, GetConfig(ctx).Catalog)

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)
	ctx = WithLogger(ctx, logger)
	assert.Same(t, logger, GetLogger(ctx))

	GetLogger(ctx).Debug("hello")
	assert.Contains(t, buf.String(), "hello")

	cfg := &Config{Catalog: "x.yml"}
	assert.Same(t, cfg, GetConfig(WithConfig(ctx, cfg)))

	buf.Reset()
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())
}
