package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/testpulse/testpulse-go/ciinfo"
	"github.com/testpulse/testpulse-go/config"
	"github.com/testpulse/testpulse-go/gitinfo"
)

// detect prints what the adapter would attach to a report from this
// environment. Useful when debugging a pipeline that reports wrong
// metadata.
func (a *App) detect(ctx *cli.Context) error {
	cfg := config.Resolve(config.Options{BaseURL: ctx.String("base-url")})
	git := gitinfo.Detect(ctx.Context)
	ci := ciinfo.Detect()

	provider := ci.Provider
	if provider == "" {
		provider = "none"
	}

	a.logger.Info().
		Str("project_id", cfg.ProjectID).
		Str("base_url", cfg.BaseURL).
		Bool("enabled", cfg.Enabled).
		Msg("Resolved configuration")
	a.logger.Info().
		Str("branch", git.Branch).
		Str("sha", git.SHA).
		Msg("Detected git state")
	a.logger.Info().
		Bool("is_ci", ci.IsCI).
		Str("provider", provider).
		Str("actor", ci.Actor).
		Str("build_url", ci.BuildURL).
		Msg("Detected CI environment")
	return nil
}
