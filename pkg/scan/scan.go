// Package scan collects every manifest under a directory tree without
// regard to workspace structure.
//
// This is the flat alternative to [workspace.Resolver]: each *.toml file in
// the tree is parsed on its own and returned if it parses. Paths containing
// any of the configured ignore substrings are skipped, which is the usual
// way to keep build output (target/) or vendored crates out of the graph.
//
// [workspace.Resolver]: github.com/matzehuels/cargograph/pkg/workspace.Resolver
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/matzehuels/cargograph/pkg/manifest"
)

// Options configures a flat scan.
type Options struct {
	// IgnoredPaths drops any path containing one of these substrings.
	// Matching is literal and case-sensitive.
	IgnoredPaths []string
	// Logger receives debug messages for skipped entries (optional).
	Logger func(string, ...any)
}

// Ignored reports whether path contains any of the ignored substrings.
func (o Options) Ignored(path string) bool {
	for _, s := range o.IgnoredPaths {
		if s != "" && strings.Contains(path, s) {
			return true
		}
	}
	return false
}

// Scan walks dir and returns every manifest that parses, in lexical walk
// order. Unreadable entries and parse failures are skipped.
func Scan(dir string, opts Options) []*manifest.Document {
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}

	var docs []*manifest.Document
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logf("skip %s: %v", path, err)
			return nil
		}
		if opts.Ignored(path) {
			logf("skip %s: ignored path", path)
			if d.IsDir() {
				// every path below contains the same substring
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !manifest.IsCandidate(path) {
			return nil
		}
		doc, err := manifest.Parse(path)
		if err != nil {
			logf("skip %s: %v", path, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	return docs
}
