// Package cli implements the cargograph command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargograph/internal/config"
	"github.com/matzehuels/cargograph/pkg/buildinfo"
)

// appName is the application name used for display.
const appName = "cargograph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer // graph output
	Stderr io.Writer // status lines
}

// New creates a CLI that writes graph output to stdout and logs to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Stdout: stdout,
		Stderr: stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the cargograph command.
func (c *CLI) RootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   appName + " [root]",
		Short: "Cargograph draws the dependency graph of a Cargo workspace",
		Long: `Cargograph finds the Cargo manifests under a directory, extracts each
package's dependency names and prints the package-to-dependency edges as a
Graphviz DOT digraph.

By default the root manifest is followed through [workspace] members and
path dependencies. With --monolithic every manifest under the root is read
instead.

Examples:
  cargograph                           # workspace in the current directory
  cargograph ../mono -m -I target      # flat scan, skipping build output
  cargograph -l -i xtask | dot -Tsvg   # local crates only, without xtask
  cargograph -f svg -o deps.svg        # render with Graphviz
  cargograph -f json -o deps.json && cargograph --from-json deps.json -f png -o deps.png`,
		Args:          cobra.MaximumNArgs(1),
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := config.DefaultRoot
			if len(args) == 1 {
				root = args[0]
			}
			cfg, err := config.Load(root, cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Verbose {
				c.SetLogLevel(LogDebug)
			}
			if cfg.File != "" {
				c.Logger.Debugf("Using config %s", cfg.File)
			}

			ctx := withLogger(cmd.Context(), c.Logger)
			if cfg.Watch {
				return c.watch(ctx, cfg)
			}
			return c.generate(ctx, cfg)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.Flags()
	f.BoolP("monolithic", "m", false, "read every manifest under root instead of resolving the workspace")
	f.BoolP("local", "l", false, "keep only packages found under root")
	f.StringSliceP("ignore", "i", nil, "package names to leave out of the graph")
	f.StringSliceP("ignore-paths", "I", nil, "skip manifests whose path contains any of these substrings (requires --monolithic)")
	f.Bool("dev", false, "also read [dev-dependencies]")
	f.Bool("build", false, "also read [build-dependencies]")
	f.StringP("format", "f", config.DefaultFormat, "output format: "+strings.Join(config.Formats, ", "))
	f.StringP("output", "o", "", "output file (stdout if empty)")
	f.BoolP("watch", "w", false, "regenerate whenever a manifest changes")
	f.String("from-json", "", "re-render a graph saved with --format json instead of reading manifests")
	f.BoolP("verbose", "v", false, "enable verbose logging")
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default: .cargograph.yaml in root)")

	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}
