package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Extension is the file extension that marks a manifest candidate.
const Extension = ".toml"

// Document is one parsed manifest file.
type Document struct {
	Path string // Path of the file the document was read from
	Root Value  // Top-level table
}

// Dir returns the directory containing the manifest.
func (d *Document) Dir() string { return filepath.Dir(d.Path) }

// PackageName returns the [package] name, if the manifest declares one.
func (d *Document) PackageName() (string, bool) {
	return d.Root.Lookup("package", "name").String()
}

// Decode parses TOML content into a Value.
func Decode(data []byte) (Value, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Value{}, err
	}
	return fromDecoded(raw, nil, newKeyOrder(md)), nil
}

// Parse reads and decodes the manifest at path.
func Parse(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Document{Path: path, Root: root}, nil
}

// IsCandidate reports whether name looks like a manifest file.
func IsCandidate(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// Locate returns the first parseable manifest directly inside dir.
//
// Entries are tried in name order. Several manifests in one directory are
// not an error: the first that parses wins. The second result is false when
// dir cannot be read or holds no parseable manifest.
func Locate(dir string) (*Document, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}
	for _, e := range entries {
		if e.IsDir() || !IsCandidate(e.Name()) {
			continue
		}
		doc, err := Parse(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		return doc, true
	}
	return nil, false
}
