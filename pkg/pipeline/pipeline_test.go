package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/cargograph/pkg/errors"
	"github.com/matzehuels/cargograph/pkg/graph"
	"github.com/matzehuels/cargograph/pkg/observability"
)

func writeManifest(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func workspaceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeManifest(t, dir, "Cargo.toml", `
[workspace]
members = ["crates/*"]
`)
	writeManifest(t, dir, "crates/cli/Cargo.toml", `
[package]
name = "cli"

[dependencies]
lib = { path = "../lib" }
clap = "4"
`)
	writeManifest(t, dir, "crates/lib/Cargo.toml", `
[package]
name = "lib"

[dependencies]
clap = "4"

[build-dependencies]
cc = "1"
`)
	return dir
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"json", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"DOT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %q", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Root != DefaultRoot || opts.Format != DefaultFormat || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}

	bad := Options{IgnoredPaths: []string{"target"}}
	err := bad.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ignored paths without monolithic: err = %v", err)
	}

	ok := Options{Monolithic: true, IgnoredPaths: []string{"target"}}
	if err := ok.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ignored paths with monolithic: %v", err)
	}

	for _, opts := range []Options{
		{Input: "deps.json", LocalOnly: true},
		{Input: "deps.json", Ignored: []string{"x"}},
		{Input: "deps.json", Monolithic: true},
		{Input: "deps.json", Extra: []string{"dev-dependencies"}},
	} {
		if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("input with %+v: err = %v", opts, err)
		}
	}
}

func TestExecute(t *testing.T) {
	dir := workspaceDir(t)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "workspace glob members",
			opts: Options{Root: dir},
			want: `digraph {"cli"->"lib";"cli"->"clap";"lib"->"clap";}` + "\n",
		},
		{
			name: "build dependencies",
			opts: Options{Root: dir, Extra: []string{"build-dependencies"}},
			want: `digraph {"cli"->"lib";"cli"->"clap";"lib"->"clap";"lib"->"cc";}` + "\n",
		},
		{
			name: "local only",
			opts: Options{Root: dir, LocalOnly: true},
			want: `digraph {"cli"->"lib";}` + "\n",
		},
		{
			name: "monolithic ignore paths",
			opts: Options{Root: dir, Monolithic: true, IgnoredPaths: []string{"crates/lib"}},
			want: `digraph {"cli"->"lib";"cli"->"clap";}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewRunner(nil).Execute(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(res.Artifact); got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteLocalOnlyLeafCrate(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "Cargo.toml", `
[package]
name = "app"

[dependencies]
leaf = { path = "leaf" }
serde = "1"
`)
	writeManifest(t, dir, "leaf/Cargo.toml", `
[package]
name = "leaf"
`)

	for _, monolithic := range []bool{false, true} {
		res, err := NewRunner(nil).Execute(context.Background(), Options{
			Root:       dir,
			Monolithic: monolithic,
			LocalOnly:  true,
		})
		if err != nil {
			t.Fatal(err)
		}
		want := `digraph {"app"->"leaf";}` + "\n"
		if got := string(res.Artifact); got != want {
			t.Errorf("Execute(monolithic=%v) = %q, want %q", monolithic, got, want)
		}
		if res.Stats.Manifests != 2 || res.Stats.Packages != 1 {
			t.Errorf("Stats = %+v", res.Stats)
		}
	}
}

func TestExecuteFromJSON(t *testing.T) {
	saved, err := NewRunner(nil).Execute(context.Background(), Options{Root: workspaceDir(t), Format: FormatJSON})
	if err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(t.TempDir(), "deps.json")
	if err := os.WriteFile(input, saved.Artifact, 0o644); err != nil {
		t.Fatal(err)
	}

	// Root is not consulted when re-rendering a saved graph.
	res, err := NewRunner(nil).Execute(context.Background(), Options{
		Input: input,
		Root:  filepath.Join(t.TempDir(), "missing"),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `digraph {"cli"->"lib";"cli"->"clap";"lib"->"clap";}` + "\n"
	if got := string(res.Artifact); got != want {
		t.Errorf("Execute() = %q, want %q", got, want)
	}
	s := res.Stats
	if s.Manifests != 0 || s.Packages != 3 || s.NodeCount != 3 || s.EdgeCount != 3 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestExecuteFromJSONInvalid(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("digraph {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, input := range []string{broken, filepath.Join(dir, "missing.json")} {
		_, err := NewRunner(nil).Execute(context.Background(), Options{Input: input})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Execute(%s) err = %v, want INVALID_INPUT", filepath.Base(input), err)
		}
	}
}

func TestExecuteStats(t *testing.T) {
	res, err := NewRunner(nil).Execute(context.Background(), Options{Root: workspaceDir(t)})
	if err != nil {
		t.Fatal(err)
	}
	s := res.Stats
	if s.Manifests != 3 || s.Packages != 2 || s.NodeCount != 3 || s.EdgeCount != 3 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		root func(t *testing.T) string
		want errors.Code
	}{
		{
			name: "missing root",
			root: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
			want: errors.ErrCodeRootNotFound,
		},
		{
			name: "no manifests",
			root: func(t *testing.T) string { return t.TempDir() },
			want: errors.ErrCodeNoManifests,
		},
		{
			name: "virtual manifest only",
			root: func(t *testing.T) string {
				dir := t.TempDir()
				writeManifest(t, dir, "Cargo.toml", "[workspace]\nmembers = [\"gone\"]\n")
				return dir
			},
			want: errors.ErrCodeNoManifests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil).Execute(context.Background(), Options{Root: tt.root(t)})
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Execute() code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b")

	out, err := Render(context.Background(), g, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var doc graph.Document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if len(doc.Edges) != 1 || doc.Edges[0] != (graph.Edge{From: "a", To: "b"}) {
		t.Errorf("edges = %+v", doc.Edges)
	}

	if _, err := Render(context.Background(), g, "pdf"); err == nil {
		t.Error("Render should reject unknown formats")
	}

	bad := graph.New()
	bad.AddEdge("\xff", "b")
	_, err = Render(context.Background(), bad, FormatDOT)
	if !errors.Is(err, errors.ErrCodeInvalidOutput) {
		t.Errorf("invalid UTF-8: err = %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	g := graph.New()
	g.AddEdge("a", "b")
	out, err := Render(context.Background(), g, FormatSVG)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Error("expected SVG output")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnDiscoverStart(context.Context, string, bool) { h.record("discover") }
func (h *recordingHooks) OnBuildComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	if err != nil {
		h.record("build error")
		return
	}
	h.record("build")
}
func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.record("render " + format)
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	if _, err := NewRunner(nil).Execute(context.Background(), Options{Root: workspaceDir(t), Format: FormatJSON}); err != nil {
		t.Fatal(err)
	}
	_, _ = NewRunner(nil).Execute(context.Background(), Options{Root: t.TempDir()})

	want := []string{"discover", "build", "render json", "discover", "build error"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
