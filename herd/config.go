package herd

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaSource string

var compileConfigSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", configSchemaSource)
})

// Config holds every tunable of a world. It is stored as a singleton and may
// be replaced between ticks by ConfigReloadSystem.
type Config struct {
	Flock  FlockConfig  `json:"flock"`
	Dog    DogConfig    `json:"dog"`
	Herder HerderConfig `json:"herder"`
	Field  FieldConfig  `json:"field"`
}

type FlockConfig struct {
	MaxSpeed          float64 `json:"maxSpeed"`
	BoundaryDamping   float64 `json:"boundaryDamping"`
	SpeedMultiplier   float64 `json:"speedMultiplier"`
	ProtectedDistance float64 `json:"protectedDistance"`
	VisibleDistance   float64 `json:"visibleDistance"`
	AvoidFactor       float64 `json:"avoidFactor"`
	AlignFactor       float64 `json:"alignFactor"`
	CenteringFactor   float64 `json:"centeringFactor"`
	WanderForce       float64 `json:"wanderForce"`
	Margin            float64 `json:"margin"` // fraction of the half extents agents stay within

	Seed         uint64  `json:"seed"`
	SheepCount   int     `json:"sheepCount"`
	BiasStrength float64 `json:"biasStrength"`
	SpawnSpread  float64 `json:"spawnSpread"`
	InitialSpeed float64 `json:"initialSpeed"`
}

type DogConfig struct {
	PatrolSpeed float64 `json:"patrolSpeed"`
	DriftScale  float64 `json:"driftScale"`
}

// HerderConfig controls the dog's push on nearby sheep.
type HerderConfig struct {
	Enabled  bool    `json:"enabled"`
	Radius   float64 `json:"radius"`
	Strength float64 `json:"strength"`
}

type FieldConfig struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	TileSize float64 `json:"tileSize"`
}

func DefaultConfig() *Config {
	return &Config{
		Flock: FlockConfig{
			MaxSpeed:          50,
			BoundaryDamping:   2,
			SpeedMultiplier:   150,
			ProtectedDistance: 40,
			VisibleDistance:   200,
			AvoidFactor:       0.008,
			AlignFactor:       0.18,
			CenteringFactor:   0.000001,
			WanderForce:       0.5,
			Margin:            0.9,

			Seed:         1,
			SheepCount:   44,
			BiasStrength: 0.02,
			SpawnSpread:  1000,
			InitialSpeed: 10,
		},
		Dog: DogConfig{
			PatrolSpeed: 20,
			DriftScale:  0.1,
		},
		Herder: HerderConfig{
			Enabled:  false,
			Radius:   150,
			Strength: 0.5,
		},
		Field: FieldConfig{
			Width:    1280,
			Height:   720,
			TileSize: DefaultTileSize,
		},
	}
}

// Validate checks relationships the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	f := c.Flock
	if f.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("flock.maxSpeed must be positive, got %v", f.MaxSpeed))
	}
	if f.ProtectedDistance <= 0 {
		errs = append(errs, fmt.Errorf("flock.protectedDistance must be positive, got %v", f.ProtectedDistance))
	}
	if f.ProtectedDistance >= f.VisibleDistance {
		errs = append(errs, fmt.Errorf("flock.protectedDistance (%v) must be less than flock.visibleDistance (%v)",
			f.ProtectedDistance, f.VisibleDistance))
	}
	if f.Margin <= 0 || f.Margin > 1 {
		errs = append(errs, fmt.Errorf("flock.margin must be in (0, 1], got %v", f.Margin))
	}
	if f.SheepCount < 0 {
		errs = append(errs, fmt.Errorf("flock.sheepCount must not be negative, got %d", f.SheepCount))
	}
	if c.Herder.Radius < 0 {
		errs = append(errs, fmt.Errorf("herder.radius must not be negative, got %v", c.Herder.Radius))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a JSON or YAML file (chosen by extension), validates it
// against the embedded schema and decodes it over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err := ParseConfigYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	default:
		cfg, err := ParseConfigJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	}
}

// ParseConfigYAML converts a YAML document to JSON and parses it with ParseConfigJSON.
func ParseConfigYAML(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config yaml: %w", err)
	}
	return ParseConfigJSON(asJSON)
}

func ParseConfigJSON(data []byte) (*Config, error) {
	sch, err := compileConfigSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
