package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/testpulse/testpulse-go/config"
	"github.com/testpulse/testpulse-go/model"
	"github.com/testpulse/testpulse-go/reporter"
)

// report maps an aggregate result file and delivers it once.
func (a *App) report(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one aggregate result file, got %d arguments", ctx.NArg())
	}
	path := ctx.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read result file: %w", err)
	}
	agg, err := model.ParseAggregate(data)
	if err != nil {
		return err
	}

	a.logger.Debug().
		Str("file", path).
		Int("suites", len(agg.TestResults)).
		Msg("Parsed aggregate result")

	cfg := a.resolveConfig(ctx)
	if !cfg.Enabled {
		return nil
	}

	rep := reporter.New(a.logger, cfg, a.version)
	return rep.RunComplete(ctx.Context, agg)
}

// resolveConfig merges command-line flags over the file/env configuration.
func (a *App) resolveConfig(ctx *cli.Context) config.Config {
	opts := config.Options{
		ProjectID:    ctx.String("project-id"),
		ProjectName:  ctx.String("project-name"),
		BaseURL:      ctx.String("base-url"),
		TimeoutMS:    ctx.Int("timeout-ms"),
		MaxRetries:   ctx.Int("retries"),
		RetryDelayMS: ctx.Int("retry-delay-ms"),
	}
	if ctx.IsSet("fail-on-error") {
		failOnError := ctx.Bool("fail-on-error")
		opts.FailOnError = &failOnError
	}
	return config.Resolve(opts)
}
