// Package reporter wires a test runner's run-complete event to the result
// mapper and the transport client. Delivery failures never affect the
// run's own outcome unless the fail-on-error flag is set.
package reporter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/testpulse/testpulse-go/ciinfo"
	"github.com/testpulse/testpulse-go/config"
	"github.com/testpulse/testpulse-go/gitinfo"
	"github.com/testpulse/testpulse-go/mapper"
	"github.com/testpulse/testpulse-go/model"
	"github.com/testpulse/testpulse-go/transport"
)

// GitProvider resolves the commit under test.
type GitProvider func(ctx context.Context) gitinfo.Info

// CIProvider resolves the build environment.
type CIProvider func() ciinfo.Info

// TransportClient delivers a mapped run to the collection service.
type TransportClient interface {
	Report(ctx context.Context, run *model.TestRun) (*transport.ReportResponse, error)
	Ping(ctx context.Context) bool
}

// PreReportHook runs after mapping and before delivery. An error aborts
// the report.
type PreReportHook func(ctx context.Context, run *model.TestRun) error

// PostReportHook runs after delivery with its outcome. Errors are logged,
// never propagated.
type PostReportHook func(ctx context.Context, run *model.TestRun, deliveryErr error)

// Reporter is the adapter glue. One RunComplete call is expected per
// process lifetime; there is no cross-run state.
type Reporter struct {
	cfg       config.Config
	logger    zerolog.Logger
	git       GitProvider
	ci        CIProvider
	client    TransportClient
	preHooks  []PreReportHook
	postHooks []PostReportHook
}

// New creates a Reporter with the default providers and a real transport
// client. A disabled configuration logs a single notice; every later call
// is then a no-op.
func New(logger zerolog.Logger, cfg config.Config, version string) *Reporter {
	r := &Reporter{
		cfg:    cfg,
		logger: logger,
		git:    gitinfo.Detect,
		ci:     ciinfo.Detect,
		client: transport.New(logger, transport.Options{
			BaseURL:        cfg.BaseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryBaseDelay: cfg.RetryBaseDelay,
			Version:        version,
		}),
	}
	if !cfg.Enabled {
		logger.Info().Msg("Reporting disabled, run results will not be sent")
	}
	return r
}

// WithProviders overrides the git/CI providers and the transport client.
// Nil arguments keep the current value.
func (r *Reporter) WithProviders(git GitProvider, ci CIProvider, client TransportClient) *Reporter {
	if git != nil {
		r.git = git
	}
	if ci != nil {
		r.ci = ci
	}
	if client != nil {
		r.client = client
	}
	return r
}

// AddPreReportHook appends a hook invoked after mapping, before delivery.
func (r *Reporter) AddPreReportHook(hook PreReportHook) {
	r.preHooks = append(r.preHooks, hook)
}

// AddPostReportHook appends a hook invoked after delivery.
func (r *Reporter) AddPostReportHook(hook PostReportHook) {
	r.postHooks = append(r.postHooks, hook)
}

// Enabled reports whether the adapter will do anything on run completion.
func (r *Reporter) Enabled() bool {
	return r.cfg.Enabled
}

// RunComplete maps the aggregated result and delivers it. The returned
// error is nil unless fail-on-error is configured and delivery failed, or
// a pre-report hook aborted the report.
func (r *Reporter) RunComplete(ctx context.Context, agg *model.Aggregate) error {
	if !r.cfg.Enabled {
		return nil
	}

	// Git and CI lookups are independent, fetch them concurrently
	gitCh := make(chan gitinfo.Info, 1)
	ciCh := make(chan ciinfo.Info, 1)
	go func() { gitCh <- r.git(ctx) }()
	go func() { ciCh <- r.ci() }()
	git := <-gitCh
	ci := <-ciCh

	run := mapper.MapAggregate(agg, r.cfg.ProjectID, r.cfg.ProjectName, git, ci)
	r.logSummary(run)

	for _, hook := range r.preHooks {
		if err := hook(ctx, run); err != nil {
			return fmt.Errorf("pre-report hook failed: %w", err)
		}
	}

	_, deliveryErr := r.client.Report(ctx, run)

	for _, hook := range r.postHooks {
		hook(ctx, run, deliveryErr)
	}

	if deliveryErr != nil {
		if r.cfg.FailOnError {
			return fmt.Errorf("failed to report test run: %w", deliveryErr)
		}
		r.logger.Warn().Err(deliveryErr).Msg("Failed to report test run, continuing")
	}
	return nil
}

// logSummary emits the fixed-format run summary before transmission.
func (r *Reporter) logSummary(run *model.TestRun) {
	counts := run.Count()
	sha := run.GitSHA
	if len(sha) > 8 {
		sha = sha[:8]
	}
	r.logger.Info().
		Str("project", run.TestProjectID).
		Str("branch", run.GitBranch).
		Str("sha", sha).
		Int("suites", len(run.SuiteRuns)).
		Str("specs", fmt.Sprintf("%d total, %d passed, %d failed, %d skipped",
			counts.Total, counts.Passed, counts.Failed, counts.Skipped)).
		Msg("Reporting test run")
}
