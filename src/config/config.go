// Package config resolves runtime settings for the chart tools. Sources are
// applied in order: defaults, .env files, PREDIBENCH_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/PresageLabs/PrediBench-sub001/src/chart"
	"github.com/PresageLabs/PrediBench-sub001/src/dataset"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PREDIBENCH_"

var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings shared by fcviewer and fcrender.
type Config struct {
	DataFile        string
	AnnotationsFile string
	Width           int
	Height          int
	Theme           string
	LogLevel        string
	TickMin         int
	TickMax         int
	Domain          *types.Domain
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:    960,
		Height:   480,
		Theme:    "light",
		LogLevel: "info",
		TickMin:  chart.DefaultTickRange.Min,
		TickMax:  chart.DefaultTickRange.Max,
	}
}

// Load returns defaults overlaid with the given .env files and the process
// environment. Missing .env files are ignored; variables already set in the
// environment win over .env content.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays PREDIBENCH_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalid, EnvPrefix, name, v)
		}
		*dst = n
		return nil
	}
	str("DATA", &c.DataFile)
	str("ANNOTATIONS", &c.AnnotationsFile)
	str("THEME", &c.Theme)
	str("LOG_LEVEL", &c.LogLevel)
	for name, dst := range map[string]*int{"WIDTH": &c.Width, "HEIGHT": &c.Height, "TICK_MIN": &c.TickMin, "TICK_MAX": &c.TickMax} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup(EnvPrefix + "DOMAIN"); ok && v != "" {
		d, err := ParseDomain(v)
		if err != nil {
			return err
		}
		c.Domain = d
	}
	return nil
}

// RegisterFlags binds the settings to fs, using the current values as
// defaults. Call after Load so flags override the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataFile, "data", c.DataFile, "Path to a series file (.json document or .jsonl records)")
	fs.StringVar(&c.AnnotationsFile, "annotations", c.AnnotationsFile, "Path to an annotations file (YAML or JSON)")
	fs.IntVar(&c.Width, "width", c.Width, "Chart width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "Chart height in pixels")
	fs.StringVar(&c.Theme, "theme", c.Theme, "Colour theme: light|dark")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug|info|warn|error")
	fs.IntVar(&c.TickMin, "tick-min", c.TickMin, "Minimum number of y-axis ticks")
	fs.IntVar(&c.TickMax, "tick-max", c.TickMax, "Maximum number of y-axis ticks")
	fs.Var(domainValue{&c.Domain}, "domain", "Fixed y domain as min,max (empty infers it from the data)")
}

// Validate checks values that would otherwise surface as rendering errors.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.TickMin < 2 || c.TickMax < c.TickMin {
		return fmt.Errorf("%w: tick range %d-%d", ErrInvalid, c.TickMin, c.TickMax)
	}
	switch strings.ToLower(c.Theme) {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalid, c.Theme)
	}
	return nil
}

// TickRange returns the configured y tick count bounds.
func (c Config) TickRange() chart.TickRange {
	return chart.TickRange{Min: c.TickMin, Max: c.TickMax}
}

// ChartTheme resolves the configured theme name.
func (c Config) ChartTheme() chart.Theme { return chart.ThemeByName(c.Theme) }

// ParseDomain parses "min,max". An empty string clears the domain.
func ParseDomain(s string) (*types.Domain, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: domain %q, want min,max", ErrInvalid, s)
	}
	lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: domain %q", ErrInvalid, s)
	}
	d := &types.Domain{Min: lo, Max: hi}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: domain %q must have min < max", ErrInvalid, s)
	}
	return d, nil
}

// domainValue adapts a **types.Domain to flag.Value.
type domainValue struct{ p **types.Domain }

func (d domainValue) String() string {
	if d.p == nil || *d.p == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", (*d.p).Min, (*d.p).Max)
}

func (d domainValue) Set(s string) error {
	v, err := ParseDomain(s)
	if err != nil {
		return err
	}
	*d.p = v
	return nil
}

// LoadInputs reads the configured series file and, when set, the annotation
// file. A domain fixed in the series file is used unless one was configured.
func (c Config) LoadInputs() (dataset.Dataset, map[string]types.Annotation, error) {
	if c.DataFile == "" {
		return dataset.Dataset{}, nil, fmt.Errorf("%w: no data file", ErrInvalid)
	}
	ds, err := dataset.LoadSeries(c.DataFile)
	if err != nil {
		return dataset.Dataset{}, nil, err
	}
	if c.Domain != nil {
		ds.Domain = c.Domain
	}
	var ann map[string]types.Annotation
	if c.AnnotationsFile != "" {
		if ann, err = dataset.LoadAnnotations(c.AnnotationsFile); err != nil {
			return dataset.Dataset{}, nil, err
		}
	}
	return ds, ann, nil
}
