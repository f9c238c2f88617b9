package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

func parse(t *testing.T, args ...string) (*Options, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := NewOptions()
	o.Bind(fs)
	require.NoError(t, fs.Parse(args))
	return o, fs
}

func TestOptions_Defaults(t *testing.T) {
	o, fs := parse(t)
	cfg, err := o.Config(fs)
	require.NoError(t, err)
	require.Equal(t, simulation.DefaultConfig(), cfg)
	require.Equal(t, "info", o.LogLevel)
}

func TestOptions_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("population: 300\nworkers: 2\nindex: grid\n"), 0o644))

	o, fs := parse(t, "-config", path, "-workers", "6", "-seed", "99")
	cfg, err := o.Config(fs)
	require.NoError(t, err)
	require.Equal(t, 300, cfg.Population)
	require.Equal(t, 6, cfg.Workers)
	require.Equal(t, uint64(99), cfg.Seed)
	require.Equal(t, "grid", cfg.Index)
}

func TestOptions_Invalid(t *testing.T) {
	o, fs := parse(t, "-index", "octree")
	_, err := o.Config(fs)
	require.ErrorIs(t, err, simulation.ErrInvalidConfig)

	o, fs = parse(t, "-config", filepath.Join(t.TempDir(), "missing.json"))
	_, err = o.Config(fs)
	require.Error(t, err)
}
