package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargograph/pkg/graph"
	"github.com/matzehuels/cargograph/pkg/observability"
)

// Runner executes the pipeline and reports stage events to the registered
// observability hooks. A Runner holds no per-run state and may be reused,
// e.g. by watch mode.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete discover → build → render pipeline, or
// load → render when opts.Input is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	var (
		g     *graph.Graph
		stats Stats
		err   error
	)
	if opts.Input != "" {
		g, stats, err = r.load(ctx, opts)
	} else {
		g, stats, err = r.discoverAndBuild(ctx, opts)
	}
	if err != nil {
		return nil, err
	}

	// Stage 3: Render
	hooks.OnRenderStart(ctx, opts.Format)
	renderStart := time.Now()
	artifact, err := Render(ctx, g, opts.Format)
	stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Format, len(artifact), stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	r.Logger.Debug("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", stats.RenderTime)

	return &Result{Graph: g, Artifact: artifact, Stats: stats}, nil
}

// discoverAndBuild runs the first two stages against opts.Root.
func (r *Runner) discoverAndBuild(ctx context.Context, opts Options) (*graph.Graph, Stats, error) {
	if err := CheckRoot(opts.Root); err != nil {
		return nil, Stats{}, err
	}
	hooks := observability.Pipeline()

	// Stage 1: Discover
	hooks.OnDiscoverStart(ctx, opts.Root, opts.Monolithic)
	discoverStart := time.Now()
	docs := Discover(opts)
	discoverTime := time.Since(discoverStart)
	hooks.OnDiscoverComplete(ctx, opts.Root, len(docs), discoverTime)

	r.Logger.Debug("discovered manifests",
		"root", opts.Root,
		"manifests", len(docs),
		"duration", discoverTime)

	// Stage 2: Build
	buildStart := time.Now()
	g, stats, err := Build(docs, opts)
	stats.DiscoverTime = discoverTime
	stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, stats.NodeCount, stats.EdgeCount, stats.BuildTime, err)
	if err != nil {
		return nil, stats, err
	}

	r.Logger.Debug("built graph",
		"packages", stats.Packages,
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"duplicates", stats.Duplicates,
		"duration", stats.BuildTime)
	return g, stats, nil
}

// load stands in for discovery and build when the graph comes from a JSON
// file. It reports to OnBuildComplete only; no discover events fire.
func (r *Runner) load(ctx context.Context, opts Options) (*graph.Graph, Stats, error) {
	start := time.Now()
	g, stats, err := Load(opts.Input)
	stats.BuildTime = time.Since(start)
	observability.Pipeline().OnBuildComplete(ctx, stats.NodeCount, stats.EdgeCount, stats.BuildTime, err)
	if err != nil {
		return nil, stats, err
	}

	r.Logger.Debug("loaded graph",
		"input", opts.Input,
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"duration", stats.BuildTime)
	return g, stats, nil
}
