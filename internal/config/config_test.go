package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	c, err := Load(newFlags(t, "--home", home))
	require.NoError(t, err)

	want := Default()
	want.Home = home
	require.Equal(t, want, c)
	require.Equal(t, filepath.Join(home, "data"), c.DataDir())
}

func TestLoad_FilesEnvAndFlagsLayer(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "app.toml"), []byte(
		"log-level = \"debug\"\nallow-mint = true\naddr = \"tcp://0.0.0.0:1\"\n"), 0o644))

	t.Setenv("WAGERD_LOG_FORMAT", "json")
	t.Setenv("WAGERD_ADDR", "tcp://0.0.0.0:2")

	c, err := Load(newFlags(t, "--home", home, "--transport", "grpc"))
	require.NoError(t, err)
	require.Equal(t, "debug", c.LogLevel)
	require.True(t, c.AllowMint)
	require.Equal(t, "json", c.LogFormat)
	require.Equal(t, "tcp://0.0.0.0:2", c.Addr)
	require.Equal(t, "grpc", c.Transport)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	_, err := Load(newFlags(t, "--home", t.TempDir(), "--db-backend", "rocksdb"))
	require.ErrorContains(t, err, "unknown db backend")
}
