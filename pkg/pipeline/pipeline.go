// Package pipeline provides the complete manifest-to-graph pipeline.
//
// The pipeline consists of three stages:
//
//  1. Discover: find manifests by workspace resolution or a flat scan
//  2. Build: extract package nodes, apply filters and build the edge graph
//  3. Render: serialize the graph as DOT or JSON, or render it with Graphviz
//
// Each stage can be run on its own or through [Runner.Execute]. When
// [Options.Input] names a graph saved in the json format, [Load] replaces
// the first two stages and the saved graph is rendered as is.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Root:      ".",
//	    LocalOnly: true,
//	    Format:    pipeline.FormatDOT,
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(res.Artifact)
//
// Stage timings are reported to the hooks registered with
// [observability.SetPipelineHooks].
//
// [observability.SetPipelineHooks]: github.com/matzehuels/cargograph/pkg/observability.SetPipelineHooks
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargograph/pkg/deps"
	"github.com/matzehuels/cargograph/pkg/errors"
	"github.com/matzehuels/cargograph/pkg/graph"
)

// Format constants for output formats.
//
// FormatDOT is the single-line digraph text that is the tool's primary
// output. FormatJSON is the node-link document from package graph, which
// [Load] can read back. FormatSVG and FormatPNG pass the DOT text through
// Graphviz.
const (
	FormatDOT  = "dot"  // digraph {"a"->"b";}
	FormatJSON = "json" // {"nodes": [...], "edges": [...]}
	FormatSVG  = "svg"  // Graphviz layout, vector
	FormatPNG  = "png"  // Graphviz layout, raster
)

// Formats lists every supported output format.
var Formats = []string{FormatDOT, FormatJSON, FormatSVG, FormatPNG}

// Defaults applied by [Options.ValidateAndSetDefaults].
const (
	DefaultRoot   = "."
	DefaultFormat = FormatDOT
)

// Options contains all configuration for one pipeline run.
//
// The zero value is usable: it resolves the workspace in the current
// directory and prints DOT. Call [Options.ValidateAndSetDefaults] before
// using the stage functions directly; [Runner.Execute] does this itself.
type Options struct {
	// Input is a JSON graph to re-render. When set, Root and the discover
	// and build options are not used.
	Input string

	// Discover options
	Root         string   // Directory to start from (default: ".")
	Monolithic   bool     // Flat scan instead of workspace resolution
	IgnoredPaths []string // Path substrings skipped by the flat scan

	// Build options
	Extra     []string // Additional dependency tables (deps.TableDev, deps.TableBuild)
	LocalOnly bool     // Keep only packages found under Root
	Ignored   []string // Package names left out of the graph

	// Render options
	Format string // One of Formats (default: FormatDOT)

	// Runtime options
	Logger *log.Logger

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the deduplicated edge graph.
	Graph *graph.Graph

	// Artifact is the serialized graph in the requested format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
//
// Packages counts nodes before filtering and NodeCount counts graph nodes
// after it, which includes dependency names that never had a manifest. A
// run where Packages > 0 and NodeCount == 0 means the filters removed
// everything.
type Stats struct {
	Manifests    int // Manifests discovered
	Packages     int // Package nodes extracted, before filtering
	NodeCount    int
	EdgeCount    int
	Duplicates   int // Edges suppressed as duplicates
	DiscoverTime time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// ValidateFormat checks that a format is supported. Formats are
// case-sensitive; callers taking user input (package config) lower-case it
// first. The error is INVALID_FORMAT and lists the available formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (available: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateAndSetDefaults checks option combinations and applies defaults.
// It is idempotent.
//
// Rejected combinations, all INVALID_CONFIG:
//   - IgnoredPaths without Monolithic, since workspace resolution never
//     walks the directories those substrings would skip
//   - Input together with any discover or build option
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if len(o.IgnoredPaths) > 0 && !o.Monolithic {
		return errors.New(errors.ErrCodeInvalidConfig, "--ignore-paths requires --monolithic")
	}
	if o.Input != "" && o.discovers() {
		return errors.New(errors.ErrCodeInvalidConfig,
			"--from-json re-renders a saved graph and cannot be combined with discovery or filter options")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// discovers reports whether any option only matters when manifests are
// read, i.e. when Input is empty.
func (o *Options) discovers() bool {
	return o.Monolithic || o.LocalOnly ||
		len(o.IgnoredPaths) > 0 || len(o.Extra) > 0 || len(o.Ignored) > 0
}

// Filter returns the node filters selected by the options. The local set
// is left empty here; [Build] fills it from the discovered manifests.
func (o *Options) Filter() deps.Filter {
	return deps.Filter{LocalOnly: o.LocalOnly, Ignored: o.Ignored}
}

// Tables returns every dependency table the run reads, normal first.
func (o *Options) Tables() []string {
	return deps.Options{Extra: o.Extra}.Tables()
}

// IsRendered reports whether the format needs Graphviz, i.e. whether the
// render stage can fail for reasons outside the graph itself.
func (o *Options) IsRendered() bool {
	return o.Format == FormatSVG || o.Format == FormatPNG
}
