// Package config loads cornermesh settings from a JSON file and overlays
// command-line flags on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chazu/cornermesh/pkg/meshlog"
)

// Defaults applied by Resolve.
const (
	DefaultLogLevel    = "info"
	DefaultPrecision   = 6
	DefaultMeshCells   = 200
	DefaultEvalTimeout = 5 * time.Second
	DefaultOutputDir   = "."
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid setting")

// Duration is a time.Duration that reads from JSON as either a Go duration
// string ("1m30s") or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(x * float64(time.Second))
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("duration %q: %w", x, err)
		}
		*d = Duration(p)
	default:
		return fmt.Errorf("duration: unexpected %s", strings.TrimSpace(string(data)))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds all tunable settings.
type Config struct {
	// Logging
	LogLevel string `json:"log_level"`

	// STL output. Nil means DefaultPrecision; negative selects the
	// shortest exact representation.
	Precision *int `json:"precision"`

	// Scripting and meshing
	MeshCells   int      `json:"mesh_cells"`
	EvalTimeout Duration `json:"eval_timeout"`
	OutputDir   string   `json:"output_dir"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Zero
// values and nil pointers mean "not given".
type Flags struct {
	LogLevel    string
	Precision   *int
	MeshCells   int
	EvalTimeout time.Duration
	OutputDir   string
}

// Resolve overlays flags and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Precision != nil {
		p := *flags.Precision
		c.Precision = &p
	}
	if flags.MeshCells > 0 {
		c.MeshCells = flags.MeshCells
	}
	if flags.EvalTimeout > 0 {
		c.EvalTimeout = Duration(flags.EvalTimeout)
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Precision == nil {
		p := DefaultPrecision
		c.Precision = &p
	}
	if c.MeshCells <= 0 {
		c.MeshCells = DefaultMeshCells
	}
	if c.EvalTimeout <= 0 {
		c.EvalTimeout = Duration(DefaultEvalTimeout)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// Validate reports settings Resolve cannot repair.
func (c Config) Validate() error {
	if _, ok := meshlog.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.Precision != nil && *c.Precision > 17 {
		return fmt.Errorf("%w: precision %d exceeds float32 significance", ErrInvalid, *c.Precision)
	}
	return nil
}

// PrecisionOrDefault returns the resolved STL precision.
func (c Config) PrecisionOrDefault() int {
	if c.Precision == nil {
		return DefaultPrecision
	}
	return *c.Precision
}

// Timeout returns EvalTimeout as a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.EvalTimeout)
}
