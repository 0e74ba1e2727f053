package pipeline

import (
	"os"

	"github.com/matzehuels/cargograph/pkg/deps"
	"github.com/matzehuels/cargograph/pkg/errors"
	"github.com/matzehuels/cargograph/pkg/graph"
	"github.com/matzehuels/cargograph/pkg/manifest"
	"github.com/matzehuels/cargograph/pkg/scan"
	"github.com/matzehuels/cargograph/pkg/workspace"
)

// CheckRoot fails with ROOT_NOT_FOUND unless root is an existing directory.
// It is the only check on the root; everything below it that cannot be read
// is skipped silently by discovery.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRootNotFound, err, "root path not found: %s", root)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeRootNotFound, "root path is not a directory: %s", root)
	}
	return nil
}

// Discover returns the manifests a run operates on: a flat scan of Root in
// monolithic mode, otherwise the workspace tree rooted there.
//
// Discover never fails. Unreadable directories and malformed manifests are
// dropped and, when opts.Logger is set, reported at debug level. An empty
// result is turned into NO_MANIFESTS by [Build].
func Discover(opts Options) []*manifest.Document {
	logf := debugf(opts)
	if opts.Monolithic {
		return scan.Scan(opts.Root, scan.Options{IgnoredPaths: opts.IgnoredPaths, Logger: logf})
	}
	r := workspace.New(workspace.Options{Tables: opts.Tables(), Logger: logf})
	return r.Resolve(opts.Root)
}

// Build extracts package nodes from docs, applies the filters and builds
// the edge graph. It fails with NO_MANIFESTS when no manifest yields a
// package node; filters that remove every node produce an empty graph.
//
// The local-only filter treats every package.name in docs as local, including
// manifests that produced no node because they declare no dependencies.
func Build(docs []*manifest.Document, opts Options) (*graph.Graph, Stats, error) {
	stats := Stats{Manifests: len(docs)}

	nodes := deps.Extract(docs, deps.Options{Extra: opts.Extra, Logger: debugf(opts)})
	stats.Packages = len(nodes)
	if len(nodes) == 0 {
		return nil, stats, errors.New(errors.ErrCodeNoManifests, "no applicable manifests found under %s", opts.Root)
	}

	filter := opts.Filter()
	if filter.LocalOnly {
		filter.Local = deps.PackageNames(docs)
	}
	g := graph.Build(filter.Apply(nodes))
	stats.NodeCount = g.NodeCount()
	stats.EdgeCount = g.EdgeCount()
	stats.Duplicates = g.Duplicates()
	return g, stats, nil
}

// Load reads a graph saved in the json format. It fails with INVALID_INPUT
// when the file cannot be read or decoded. Packages and NodeCount are both
// the number of nodes in the file, since no filters run on a loaded graph.
func Load(path string) (*graph.Graph, Stats, error) {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, Stats{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read graph %s", path)
	}
	return g, Stats{
		Packages:  g.NodeCount(),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}, nil
}

// debugf adapts the run's logger to the printf-style callbacks that the
// scan, workspace and deps packages accept. It returns nil when no logger is
// set, which those packages treat as "don't log".
func debugf(opts Options) func(string, ...any) {
	if opts.Logger == nil {
		return nil
	}
	return func(msg string, args ...any) { opts.Logger.Debugf(msg, args...) }
}
