// Package deps turns parsed manifests into package nodes and filters them.
//
// # Overview
//
// A [Node] is the lossy projection of a manifest that the graph needs: the
// package name and the names of its dependencies. Versions, features and
// path specifiers are dropped, since only identity matters for the graph.
//
//	nodes := deps.Extract(docs, deps.Options{})
//	f := deps.Filter{LocalOnly: true, Local: deps.PackageNames(docs), Ignored: []string{"xtask"}}
//	nodes = f.Apply(nodes)
//
// # Extraction
//
// [Extract] requires both a package.name string and a [dependencies] table.
// Workspace-only manifests, tool configuration files and manifests without
// dependencies produce no node. This is a silent drop, not an error.
//
// [Options.Extra] folds dev-dependencies and build-dependencies into the
// same node when the caller wants test and build-script edges too.
//
// # Filters
//
// [LocalOnly] keeps packages that were themselves discovered and drops edges
// to external crates. A leaf crate with no [dependencies] table yields no
// node but is still local; set [Filter.Local] from [PackageNames] over the
// whole manifest set so edges to it survive. [IgnoreNames] removes named packages both as nodes and
// as dependencies. [Filter.Apply] composes them, local-only first. Filters
// are pure: they return new slices and leave their input untouched.
package deps
