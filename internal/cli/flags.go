// Package cli holds the command line options shared by the binaries.
package cli

import (
	"flag"
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

// Options are the flags common to every binary. Simulation flags override
// the config file only when given explicitly.
type Options struct {
	ConfigFile string
	SchemaFile string
	LogLevel   string
	Population int
	Workers    int
	Seed       uint64
	Index      string
}

func NewOptions() *Options {
	return &Options{LogLevel: "info"}
}

// Bind attaches the options to the provided FlagSet.
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "JSON or YAML config file, defaults are used when empty")
	fs.StringVar(&o.SchemaFile, "schema", o.SchemaFile, "JSON schema for the config file, the built-in one when empty")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "debug, info, warn, error or off")
	fs.IntVar(&o.Population, "population", o.Population, "number of boids")
	fs.IntVar(&o.Workers, "workers", o.Workers, "force workers per frame, 0 for GOMAXPROCS")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "random seed, 0 for a clock seed")
	fs.StringVar(&o.Index, "index", o.Index, "spatial index: quadtree, grid or kdtree")
}

// Config loads the config file, if any, then applies the flags that were set on fs.
func (o *Options) Config(fs *flag.FlagSet) (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(o.ConfigFile, o.SchemaFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", o.ConfigFile, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "population":
			cfg.Population = o.Population
		case "workers":
			cfg.Workers = o.Workers
		case "seed":
			cfg.Seed = o.Seed
		case "index":
			cfg.Index = o.Index
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
