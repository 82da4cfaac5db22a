// Package config loads dada.toml, the per-project settings file.
//
// The file is optional. Discover walks up from a start directory, and
// missing sections keep their defaults. Command-line flags override the
// loaded values through With.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"dada/internal/diagfmt"
	"dada/internal/trace"
)

// FileName is the manifest looked up by Find.
const FileName = "dada.toml"

// Config mirrors the sections of dada.toml.
type Config struct {
	Session Session `toml:"session"`
	Trace   Trace   `toml:"trace"`
	Output  Output  `toml:"output"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type Session struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type Trace struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

type Output struct {
	Color    string `toml:"color"`  // auto|on|off
	Format   string `toml:"format"` // pretty|json|short
	PathMode string `toml:"path_mode"`
}

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Default returns the configuration used when no dada.toml exists.
func Default() Config {
	return Config{
		Session: Session{
			Jobs:           runtime.GOMAXPROCS(0),
			MaxDiagnostics: 100,
		},
		Trace: Trace{
			Level:    "off",
			Mode:     "ring",
			RingSize: 4096,
		},
		Output: Output{
			Color:    "auto",
			Format:   "pretty",
			PathMode: "auto",
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir to locate dada.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest dada.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated values and limits.
func (c Config) Validate() error {
	if c.Session.Jobs < 0 {
		return fmt.Errorf("%w: session.jobs must be >= 0, got %d", ErrInvalid, c.Session.Jobs)
	}
	if c.Session.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: session.max_diagnostics must be >= 0, got %d", ErrInvalid, c.Session.MaxDiagnostics)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: trace.level: %w", ErrInvalid, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("%w: trace.mode: %w", ErrInvalid, err)
	}
	if _, err := ParseColor(c.Output.Color); err != nil {
		return fmt.Errorf("%w: output.color: %w", ErrInvalid, err)
	}
	switch c.Output.Format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("%w: output.format must be pretty|json|short, got %q", ErrInvalid, c.Output.Format)
	}
	if _, ok := diagfmt.ParsePathMode(c.Output.PathMode); !ok {
		return fmt.Errorf("%w: output.path_mode must be auto|absolute|relative|basename, got %q", ErrInvalid, c.Output.PathMode)
	}
	return nil
}

// Overrides holds command-line values; nil fields keep the loaded value.
type Overrides struct {
	Jobs           *int
	MaxDiagnostics *int
	TraceLevel     *string
	TraceMode      *string
	TraceOutput    *string
	Color          *string
	Format         *string
}

// With returns c with the non-nil overrides applied and validated.
func (c Config) With(o Overrides) (Config, error) {
	set(&c.Session.Jobs, o.Jobs)
	set(&c.Session.MaxDiagnostics, o.MaxDiagnostics)
	set(&c.Trace.Level, o.TraceLevel)
	set(&c.Trace.Mode, o.TraceMode)
	set(&c.Trace.Output, o.TraceOutput)
	set(&c.Output.Color, o.Color)
	set(&c.Output.Format, o.Format)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ColorMode is the tri-state of output.color.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorOn
	ColorOff
)

func ParseColor(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always", "true":
		return ColorOn, nil
	case "off", "never", "false":
		return ColorOff, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (expected: auto|on|off)", s)
}

// Enabled resolves the mode against whether the output is a terminal.
func (m ColorMode) Enabled(isTerminal bool) bool {
	switch m {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	return isTerminal
}
