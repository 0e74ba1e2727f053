// Package config provides layered configuration for the cargograph CLI.
//
// Values are resolved from, lowest to highest precedence: built-in
// defaults, a YAML config file, CARGOGRAPH_* environment variables, and
// command-line flags that were explicitly set.
package config

import (
	"slices"
	"strings"

	"github.com/matzehuels/cargograph/pkg/deps"
	"github.com/matzehuels/cargograph/pkg/errors"
	"github.com/matzehuels/cargograph/pkg/pipeline"
)

// Output formats.
const (
	FormatDOT  = pipeline.FormatDOT
	FormatJSON = pipeline.FormatJSON
	FormatSVG  = pipeline.FormatSVG
	FormatPNG  = pipeline.FormatPNG
)

// Formats lists every supported output format.
var Formats = pipeline.Formats

// Config file names looked up in the root directory, in order.
var FileNames = []string{".cargograph.yaml", ".cargograph.yml"}

// Defaults.
const (
	DefaultRoot   = pipeline.DefaultRoot
	DefaultFormat = pipeline.DefaultFormat
)

// Config holds all options for one run.
type Config struct {
	Root        string   `koanf:"root"`
	Monolithic  bool     `koanf:"monolithic"`
	Local       bool     `koanf:"local"`
	Ignore      []string `koanf:"ignore"`
	IgnorePaths []string `koanf:"ignore_paths"`
	Dev         bool     `koanf:"dev"`
	Build       bool     `koanf:"build"`
	Format      string   `koanf:"format"`
	Output      string   `koanf:"output"`
	Watch       bool     `koanf:"watch"`
	Verbose     bool     `koanf:"verbose"`
	FromJSON    string   `koanf:"from_json"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Validate checks option combinations.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if err := pipeline.ValidateFormat(c.Format); err != nil {
		return err
	}
	if len(c.IgnorePaths) > 0 && !c.Monolithic {
		return errors.New(errors.ErrCodeInvalidConfig, "--ignore-paths requires --monolithic")
	}
	if c.FromJSON != "" && c.Watch {
		return errors.New(errors.ErrCodeInvalidConfig, "--watch cannot be combined with --from-json")
	}
	return nil
}

// Filter returns the node filters selected by the configuration.
func (c *Config) Filter() deps.Filter {
	return deps.Filter{LocalOnly: c.Local, Ignored: slices.Clone(c.Ignore)}
}

// ExtraTables returns the optional dependency tables to read.
func (c *Config) ExtraTables() []string {
	var out []string
	if c.Dev {
		out = append(out, deps.TableDev)
	}
	if c.Build {
		out = append(out, deps.TableBuild)
	}
	return out
}

// PipelineOptions converts the configuration into options for one
// pipeline run.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Input:        c.FromJSON,
		Root:         c.Root,
		Monolithic:   c.Monolithic,
		IgnoredPaths: slices.Clone(c.IgnorePaths),
		Extra:        c.ExtraTables(),
		LocalOnly:    c.Local,
		Ignored:      slices.Clone(c.Ignore),
		Format:       c.Format,
	}
}
