// Command flock-bench runs the simulation without a window and reports frame timings,
// optionally for several worker counts in a row.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/cli"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/logger"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

type result struct {
	workers int
	frames  int
	elapsed time.Duration
	stats   simulation.Stats
}

func (r result) String() string {
	perFrame := time.Duration(0)
	if r.frames > 0 {
		perFrame = r.elapsed / time.Duration(r.frames)
	}
	return fmt.Sprintf("workers=%-3d frames=%d total=%v per-frame=%v parallel=%v commit=%v max-fps=%.1f",
		r.workers, r.frames, r.elapsed.Round(time.Millisecond), perFrame.Round(time.Microsecond),
		r.stats.Parallel.Round(time.Microsecond), r.stats.Commit.Round(time.Microsecond), r.stats.MaxFPS())
}

// parseWorkers reads a comma separated list such as "1,2,4,8".
func parseWorkers(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid worker count %q", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no worker count in %q", s)
	}
	return out, nil
}

func run(ctx context.Context, cfg *simulation.Config, workers, frames int, opt simulation.Option) (result, error) {
	w, err := simulation.NewWorld(cfg, opt, simulation.WithWorkers(workers))
	if err != nil {
		return result{}, err
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := w.Update(ctx); err != nil {
			return result{}, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return result{workers: w.Workers(), frames: frames, elapsed: time.Since(start), stats: w.Stats()}, nil
}

func main() {
	opts := cli.NewOptions()
	opts.Bind(flag.CommandLine)
	frames := flag.Int("frames", 300, "frames per run")
	sweep := flag.String("sweep", "", "comma separated worker counts to compare, overrides -workers")
	flag.Parse()

	logg, err := logger.New(opts.LogLevel, os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := opts.Config(flag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Seed == 0 {
		// Every run of a sweep must simulate the same flock.
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	counts := []int{cfg.Workers}
	if *sweep != "" {
		if counts, err = parseWorkers(*sweep); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg.Infof("Benchmark: %d boids, %d frames, index %s, seed %d", cfg.Population, *frames, cfg.Index, cfg.Seed)
	for _, n := range counts {
		r, err := run(ctx, cfg, n, *frames, simulation.WithLogger(logg))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(r)
	}
}
