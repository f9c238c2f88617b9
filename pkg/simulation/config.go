package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

//go:embed config.schema.json
var configSchema string

// ErrInvalidConfig is returned when a Config breaks an invariant.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Population
	Population int `json:"population" yaml:"population"`

	// Arena
	HalfExtent   float32 `json:"halfExtent" yaml:"halfExtent"`     // hard boundary on |x| and |y|
	BoundaryRamp float32 `json:"boundaryRamp" yaml:"boundaryRamp"` // overshoot for a push of weight 1
	IndexMargin  float64 `json:"indexMargin" yaml:"indexMargin"`   // quadtree half extent, slack past the boundary

	// Flocking
	NeighborRadius   float32 `json:"neighborRadius" yaml:"neighborRadius"`
	SeparationWeight float32 `json:"separationWeight" yaml:"separationWeight"`
	AlignmentWeight  float32 `json:"alignmentWeight" yaml:"alignmentWeight"`
	CohesionWeight   float32 `json:"cohesionWeight" yaml:"cohesionWeight"`
	WanderWeight     float32 `json:"wanderWeight" yaml:"wanderWeight"`
	ForceBlend       float32 `json:"forceBlend" yaml:"forceBlend"` // weight of the flocking force in the heading

	// Physics
	Step float32 `json:"step" yaml:"step"`

	// Runtime
	Workers          int    `json:"workers" yaml:"workers"` // 0 means GOMAXPROCS
	Seed             uint64 `json:"seed" yaml:"seed"`       // 0 means seeded from the clock
	Index            string `json:"index" yaml:"index"`
	QuadTreeCapacity int    `json:"quadTreeCapacity" yaml:"quadTreeCapacity"`
}

func DefaultConfig() *Config {
	return &Config{
		Population:       20000,
		HalfExtent:       0.8,
		BoundaryRamp:     0.2,
		IndexMargin:      1.1,
		NeighborRadius:   0.03,
		SeparationWeight: 2.0,
		AlignmentWeight:  0.5,
		CohesionWeight:   0.6,
		WanderWeight:     0.2,
		ForceBlend:       0.6,
		Step:             0.005,
		Workers:          0,
		Seed:             0,
		Index:            string(spatial.KindQuadTree),
		QuadTreeCapacity: 75,
	}
}

// namedValue keeps Validate's checks in field order.
type namedValue struct {
	name  string
	value float32
}

// Validate checks the invariants the schema cannot express.
func (c *Config) Validate() error {
	if c.Population < 0 {
		return fmt.Errorf("%w: population %d is negative", ErrInvalidConfig, c.Population)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	}
	positive := []namedValue{
		{"halfExtent", c.HalfExtent},
		{"boundaryRamp", c.BoundaryRamp},
		{"neighborRadius", c.NeighborRadius},
		{"step", c.Step},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(float64(f.value), 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}
	weights := []namedValue{
		{"separationWeight", c.SeparationWeight},
		{"alignmentWeight", c.AlignmentWeight},
		{"cohesionWeight", c.CohesionWeight},
		{"wanderWeight", c.WanderWeight},
		{"forceBlend", c.ForceBlend},
	}
	for _, f := range weights {
		if math.IsNaN(float64(f.value)) || math.IsInf(float64(f.value), 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}
	if c.IndexMargin < float64(c.HalfExtent) {
		return fmt.Errorf("%w: indexMargin %v is smaller than halfExtent %v", ErrInvalidConfig, c.IndexMargin, c.HalfExtent)
	}
	if _, err := spatial.New(spatial.Kind(c.Index), spatial.Options{HalfExtent: c.IndexMargin}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// BoidSettings is the part of the config the local boid rule needs.
func (c *Config) BoidSettings() behavior.Settings {
	return behavior.Settings{
		Boundary:     c.HalfExtent,
		BoundaryRamp: c.BoundaryRamp,
		Step:         c.Step,
		WanderWeight: c.WanderWeight,
	}
}

// Weights is the runtime-tunable subset of the config.
func (c *Config) Weights() Weights {
	return Weights{
		Separation: c.SeparationWeight,
		Alignment:  c.AlignmentWeight,
		Cohesion:   c.CohesionWeight,
		Wander:     c.WanderWeight,
		Blend:      c.ForceBlend,
	}
}

// LoadConfig loads configuration from a JSON or YAML file and validates it against the schema.
// An empty schemaFile uses the schema compiled into the binary.
// Fields missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	var sch *jsonschema.Schema
	var err error
	if schemaFile == "" {
		sch, err = jsonschema.CompileString("config.schema.json", configSchema)
	} else {
		sch, err = jsonschema.Compile(schemaFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File, YAML is converted to JSON so a single schema covers both
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		if b, err = yamlToJSON(b); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	}

	// 3. Validate
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct, on top of the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = map[string]interface{}{}
	}
	return json.Marshal(v)
}
