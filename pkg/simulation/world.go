package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

var (
	// ErrWorkerPanic wraps a panic raised while computing forces.
	// The frame is discarded and the population is left as it was.
	ErrWorkerPanic = errors.New("force worker panicked")
	// ErrIncompleteFrame means the workers did not return one force per boid.
	ErrIncompleteFrame = errors.New("incomplete frame")
)

// World owns the population and advances it one frame at a time.
//
// A frame is a fork-join: the population is copied into a Snapshot, a fresh
// spatial index is built over it, workers compute the force on their own
// index range in parallel, and once all of them are done the forces are
// applied on the calling goroutine. Nothing the workers read is written
// until they have all returned.
//
// A World is not safe for concurrent use.
type World struct {
	cfg      Config
	boids    []behavior.Boid
	settings behavior.Settings
	weights  Weights
	workers  int
	seed     uint64
	rng      *rand.Rand
	logger   log.Logger
	runID    uuid.UUID
	newIndex func(n int) (spatial.Index, error)
	// rangeForces computes one worker's share of the frame.
	rangeForces func(snap *Snapshot, index spatial.Index, r Range, p Params) []geometry.Vector2D

	frame uint64
	stats Stats

	// --- Benchmark Stats ---
	framesSinceLog int
	lastLogTime    time.Time
}

type Option func(*World)

// WithLogger sets the logger. The default is log.DefaultLogger.
func WithLogger(l log.Logger) Option {
	return func(w *World) { w.logger = l }
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(w *World) { w.workers = n }
}

// WithBoids replaces the spawned population with a copy of boids.
func WithBoids(boids []behavior.Boid) Option {
	return func(w *World) {
		w.boids = append([]behavior.Boid(nil), boids...)
	}
}

// NewWorld validates cfg and spawns cfg.Population boids at the origin with
// random headings.
func NewWorld(cfg *Config, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	w := &World{
		cfg:         *cfg,
		settings:    cfg.BoidSettings(),
		weights:     cfg.Weights(),
		workers:     cfg.Workers,
		seed:        seed,
		rng:         newRand(seed),
		logger:      log.DefaultLogger,
		runID:       uuid.New(),
		lastLogTime: time.Now(),
	}
	w.newIndex = w.buildIndex
	w.rangeForces = rangeForces
	for _, opt := range opts {
		opt(w)
	}
	if w.workers < 0 {
		return nil, fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, w.workers)
	}
	if w.workers == 0 {
		w.workers = runtime.GOMAXPROCS(0)
	}
	if w.boids == nil {
		w.boids = w.spawn(cfg.Population)
	}

	w.logger.Infof("🐦 World %s: %d boids, %d workers, %s index, seed %d",
		w.runID, len(w.boids), w.workers, w.indexKind(), w.seed)
	return w, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (w *World) spawn(n int) []behavior.Boid {
	boids := make([]behavior.Boid, n)
	for i := range boids {
		boids[i] = behavior.New(w.rng)
	}
	return boids
}

func (w *World) indexKind() spatial.Kind {
	if w.cfg.Index == "" {
		return spatial.KindQuadTree
	}
	return spatial.Kind(w.cfg.Index)
}

func (w *World) buildIndex(n int) (spatial.Index, error) {
	return spatial.New(w.indexKind(), spatial.Options{
		HalfExtent:   w.cfg.IndexMargin,
		NodeCapacity: w.cfg.QuadTreeCapacity,
		CellSize:     float64(w.cfg.NeighborRadius),
		SizeHint:     n,
	})
}

// chunk is one worker's output: the forces for the boids in r, in order.
type chunk struct {
	r      Range
	forces []geometry.Vector2D
}

// Update advances the simulation by one frame. On error the population is
// unchanged and the frame counter does not move.
func (w *World) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	snap := newSnapshot(w.boids)
	index, err := w.newIndex(snap.Len())
	if err != nil {
		return fmt.Errorf("failed to build spatial index: %w", err)
	}
	for i := 0; i < snap.Len(); i++ {
		b := snap.At(i)
		index.Insert(spatial.Point{X: float64(b.Pos.X), Y: float64(b.Pos.Y)}, i)
	}

	chunks, err := w.computeForces(ctx, snap, index)
	if err != nil {
		return err
	}
	parallel := time.Since(start)

	start = time.Now()
	w.commit(chunks)
	w.stats.record(parallel, time.Since(start))
	w.frame++
	w.framesSinceLog++
	w.logBenchmarks()
	return nil
}

// computeForces runs one goroutine per non-empty range and waits for all of them.
func (w *World) computeForces(ctx context.Context, snap *Snapshot, index spatial.Index) ([]chunk, error) {
	params := w.params()
	ranges := Partition(snap.Len(), w.workers)
	chunks := make([]chunk, len(ranges))

	var g errgroup.Group
	for i, r := range ranges {
		chunks[i].r = r
		if r.Len() == 0 {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("%w: range [%d, %d): %v\n%s", ErrWorkerPanic, r.Start, r.End, p, debug.Stack())
				}
			}()
			chunks[i].forces = w.rangeForces(snap, index, r, params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.logger.Errorf("World %s frame %d: %v", w.runID, w.frame, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range chunks {
		if len(c.forces) != c.r.Len() {
			return nil, fmt.Errorf("%w: range [%d, %d) returned %d forces", ErrIncompleteFrame, c.r.Start, c.r.End, len(c.forces))
		}
		total += len(c.forces)
	}
	if total != len(w.boids) {
		return nil, fmt.Errorf("%w: %d forces for %d boids", ErrIncompleteFrame, total, len(w.boids))
	}
	return chunks, nil
}

// rangeForces returns the forces on the boids in r, in index order.
func rangeForces(snap *Snapshot, index spatial.Index, r Range, p Params) []geometry.Vector2D {
	forces := make([]geometry.Vector2D, 0, r.Len())
	for j := r.Start; j < r.End; j++ {
		forces = append(forces, ComputeForce(snap, index, j, p))
	}
	return forces
}

// commit blends each force into its boid's heading and moves the boid.
// It runs on the caller's goroutine, in index order, so the random wander
// sequence does not depend on the worker count.
func (w *World) commit(chunks []chunk) {
	for _, c := range chunks {
		for k, force := range c.forces {
			b := &w.boids[c.r.Start+k]
			b.AddVel(&force, w.weights.Blend)
			b.Update(w.rng, w.settings)
		}
	}
}

func (w *World) params() Params {
	return Params{
		Radius:     w.cfg.NeighborRadius,
		Separation: w.weights.Separation,
		Alignment:  w.weights.Alignment,
		Cohesion:   w.weights.Cohesion,
	}
}

func (w *World) logBenchmarks() {
	if time.Since(w.lastLogTime) >= time.Second {
		w.logger.Infof("📊 FRAME RATE: %d/sec | parallel %.2fms commit %.2fms | boids %d | workers %d",
			w.framesSinceLog, ms(w.stats.Parallel), ms(w.stats.Commit), len(w.boids), w.workers)
		w.framesSinceLog = 0
		w.lastLogTime = time.Now()
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Positions appends every boid position to dst[:0] and returns it.
func (w *World) Positions(dst []geometry.Vector2D) []geometry.Vector2D {
	dst = dst[:0]
	for _, b := range w.boids {
		dst = append(dst, b.Pos)
	}
	return dst
}

// Len returns the population size.
func (w *World) Len() int { return len(w.boids) }

// Frame returns the number of frames committed so far.
func (w *World) Frame() uint64 { return w.frame }

func (w *World) Stats() Stats { return w.stats }

// Workers returns the number of ranges a frame is split into.
func (w *World) Workers() int { return w.workers }

// Seed returns the seed of the random source, so a run can be replayed.
func (w *World) Seed() uint64 { return w.seed }

func (w *World) RunID() string { return w.runID.String() }

func (w *World) Weights() Weights { return w.weights }

// SetWeights changes the flocking coefficients from the next frame on.
func (w *World) SetWeights(wt Weights) {
	w.weights = wt
	w.settings.WanderWeight = wt.Wander
	w.logger.Debugf("World %s weights: sep %.2f align %.2f coh %.2f wander %.2f blend %.2f",
		w.runID, wt.Separation, wt.Alignment, wt.Cohesion, wt.Wander, wt.Blend)
}

// Reset respawns the population at the origin, keeping its size and the
// current weights. The random source carries on, it is not reseeded.
func (w *World) Reset() {
	w.boids = w.spawn(len(w.boids))
	w.frame = 0
	w.stats = Stats{}
	w.logger.Infof("World %s reset: %d boids", w.runID, len(w.boids))
}
