package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	require.Equal(t, defaultConfigPath, configPath())

	t.Setenv("CONFIG_PATH", "/etc/quotes.yaml")
	require.Equal(t, "/etc/quotes.yaml", configPath())
}

func TestQuoteRejectsSlippage(t *testing.T) {
	root := newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"quote", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "--slippage", "0.001"})

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--slippage")
}

func TestMissingConfig(t *testing.T) {
	for _, sub := range []string{"serve", "quote"} {
		root := newRootCommand()
		root.SetArgs([]string{sub, "--config", filepath.Join(t.TempDir(), "absent.yaml")})

		err := root.Execute()
		require.Error(t, err, sub)
		require.Contains(t, err.Error(), "config.Load", sub)
	}
}

func TestTrimAll(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"koi", "across"}, trimAll([]string{" koi", "", "across "}))
	require.Nil(t, trimAll(nil))
}
