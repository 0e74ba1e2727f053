package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/cargograph/internal/config"
	"github.com/matzehuels/cargograph/pkg/pipeline"
)

// generate runs the pipeline once and writes the artifact to the configured
// output file, or to stdout.
func (c *CLI) generate(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)

	res, err := pipeline.NewRunner(logger).Execute(ctx, cfg.PipelineOptions())
	if err != nil {
		return err
	}
	if res.Stats.NodeCount == 0 && res.Stats.Packages > 0 {
		c.printWarning("All %d packages were filtered out", res.Stats.Packages)
	}

	if cfg.Output == "" {
		_, err := c.Stdout.Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(cfg.Output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	c.printSuccess("Wrote %s graph", cfg.Format)
	c.printFile(cfg.Output)
	c.printStats(res.Stats)
	return nil
}
