// Package manifest reads TOML package manifests into a dynamically typed
// document tree.
//
// # Overview
//
// A manifest is decoded into a [Value], a tagged variant that is either a
// table, an array, a string, some other scalar, or absent. Accessors return
// an (value, ok) pair or the absent Value instead of panicking, which makes
// optional nested fields cheap to probe:
//
//	doc, err := manifest.Parse("Cargo.toml")
//	name, ok := doc.Root.Lookup("package", "name").String()
//	members := doc.Root.Lookup("workspace", "members").Strings()
//
// Tables keep the key order of the source file, so dependency names come
// out in the order they were written.
//
// # Locating
//
// [Locate] picks the first parseable *.toml file in a directory. It is a
// best-effort lookup: unreadable directories, directories without TOML
// files, and directories where nothing parses all report not found.
package manifest
