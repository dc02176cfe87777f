package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGlobal_DirFlagWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LAYER_TIMING_DIR", t.TempDir())

	cli := CLI{Config: filepath.Join(t.TempDir(), "absent.yaml"), Dir: dir}
	g, err := cli.BuildGlobal()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "layer_timing.json"), g.Manager.CounterPath())
	require.Equal(t, filepath.Join(dir, "layer_timing_enabled"), g.Manager.FlagPath())
}

func TestBuildGlobal_EnvDirUsedWithoutFlag(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LAYER_TIMING_DIR", dir)

	cli := CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	g, err := cli.BuildGlobal()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "layer_timing.json"), g.Manager.CounterPath())
}

func TestGateCommandsRoundTrip(t *testing.T) {
	cli := CLI{Dir: t.TempDir()}
	g, err := cli.BuildGlobal()
	require.NoError(t, err)

	require.NoError(t, (&EnableCmd{}).Run(g))
	require.True(t, g.Manager.IsEnabled())

	require.NoError(t, (&RecordCmd{Attention: 10, FFN: 5, TotalLayer: 16}).Run(g))
	require.Equal(t, 1, g.Manager.Summary().NumLayers)

	require.NoError(t, (&ResetCmd{}).Run(g))
	require.False(t, g.Manager.IsEnabled())
	require.Equal(t, 0, g.Manager.Summary().NumLayers)
}
