package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/testpulse/testpulse-go/ciinfo"
	"github.com/testpulse/testpulse-go/config"
	"github.com/testpulse/testpulse-go/gitinfo"
	"github.com/testpulse/testpulse-go/model"
	"github.com/testpulse/testpulse-go/transport"
)

type fakeClient struct {
	calls int
	last  *model.TestRun
	err   error
}

func (f *fakeClient) Report(ctx context.Context, run *model.TestRun) (*transport.ReportResponse, error) {
	f.calls++
	f.last = run
	if f.err != nil {
		return nil, f.err
	}
	return &transport.ReportResponse{ID: "remote-1"}, nil
}

func (f *fakeClient) Ping(ctx context.Context) bool { return f.err == nil }

func staticGit(info gitinfo.Info) GitProvider {
	return func(ctx context.Context) gitinfo.Info { return info }
}

func staticCI(info ciinfo.Info) CIProvider {
	return func() ciinfo.Info { return info }
}

func sampleAggregate() *model.Aggregate {
	duration := int64(5)
	return &model.Aggregate{
		StartTime: 1700000000000,
		TestResults: []model.SuiteResult{
			{
				TestFilePath: "/x/calc.test.ts",
				TestResults: []model.TestResult{
					{AncestorTitles: []string{"Calc"}, Title: "adds [unit]", Status: "passed", Duration: &duration},
					{Title: "breaks", Status: "failed", FailureMessages: []string{"broken"}},
				},
			},
		},
	}
}

func newTestReporter(cfg config.Config, client TransportClient) *Reporter {
	rep := New(zerolog.Nop(), cfg, "test")
	return rep.WithProviders(
		staticGit(gitinfo.Info{Branch: "main", SHA: "abcdef0123456789"}),
		staticCI(ciinfo.Info{Actor: "local-developer"}),
		client,
	)
}

func enabledConfig() config.Config {
	return config.Config{
		ProjectID:   "proj-1",
		ProjectName: "proj-1",
		Enabled:     true,
	}
}

func TestRunComplete_ReportsMappedRun(t *testing.T) {
	client := &fakeClient{}
	rep := newTestReporter(enabledConfig(), client)

	require.NoError(t, rep.RunComplete(context.Background(), sampleAggregate()))
	require.Equal(t, 1, client.calls)

	run := client.last
	require.Equal(t, "proj-1", run.TestProjectID)
	require.Equal(t, "main", run.GitBranch)
	require.Equal(t, "local-developer", run.BuildTriggerActor)
	require.Len(t, run.SuiteRuns, 1)
	require.Len(t, run.SuiteRuns[0].SpecRuns, 2)
}

func TestRunComplete_Disabled(t *testing.T) {
	client := &fakeClient{}
	cfg := enabledConfig()
	cfg.Enabled = false
	rep := newTestReporter(cfg, client)

	require.NoError(t, rep.RunComplete(context.Background(), sampleAggregate()))
	require.Zero(t, client.calls)
}

func TestRunComplete_DeliveryFailureSwallowedByDefault(t *testing.T) {
	client := &fakeClient{err: &transport.DeliveryError{StatusCode: 503, Attempts: 3}}
	rep := newTestReporter(enabledConfig(), client)

	require.NoError(t, rep.RunComplete(context.Background(), sampleAggregate()))
	require.Equal(t, 1, client.calls)
}

func TestRunComplete_FailOnError(t *testing.T) {
	client := &fakeClient{err: &transport.DeliveryError{StatusCode: 503, Attempts: 3}}
	cfg := enabledConfig()
	cfg.FailOnError = true
	rep := newTestReporter(cfg, client)

	err := rep.RunComplete(context.Background(), sampleAggregate())
	var deliveryErr *transport.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
}

func TestRunComplete_HookOrder(t *testing.T) {
	client := &fakeClient{}
	rep := newTestReporter(enabledConfig(), client)

	var order []string
	rep.AddPreReportHook(func(ctx context.Context, run *model.TestRun) error {
		order = append(order, "pre1")
		return nil
	})
	rep.AddPreReportHook(func(ctx context.Context, run *model.TestRun) error {
		order = append(order, "pre2")
		return nil
	})
	rep.AddPostReportHook(func(ctx context.Context, run *model.TestRun, deliveryErr error) {
		order = append(order, "post")
		require.NoError(t, deliveryErr)
	})

	require.NoError(t, rep.RunComplete(context.Background(), sampleAggregate()))
	require.Equal(t, []string{"pre1", "pre2", "post"}, order)
}

func TestRunComplete_PreHookAbortsDelivery(t *testing.T) {
	client := &fakeClient{}
	rep := newTestReporter(enabledConfig(), client)
	rep.AddPreReportHook(func(ctx context.Context, run *model.TestRun) error {
		return errors.New("payload vetoed")
	})

	err := rep.RunComplete(context.Background(), sampleAggregate())
	require.ErrorContains(t, err, "payload vetoed")
	require.Zero(t, client.calls)
}

func TestRunComplete_PostHookSeesDeliveryError(t *testing.T) {
	client := &fakeClient{err: &transport.DeliveryError{StatusCode: 500, Attempts: 1}}
	rep := newTestReporter(enabledConfig(), client)

	var seen error
	rep.AddPostReportHook(func(ctx context.Context, run *model.TestRun, deliveryErr error) {
		seen = deliveryErr
	})

	require.NoError(t, rep.RunComplete(context.Background(), sampleAggregate()))
	require.Error(t, seen)
}

// End-to-end over a real transport client and an httptest collector.
func TestRunComplete_EndToEnd(t *testing.T) {
	var received model.TestRun
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/test-runs", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"run-1"}`))
	}))
	defer srv.Close()

	cfg := config.Config{
		ProjectID:      "proj-1",
		ProjectName:    "Project One",
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
		Enabled:        true,
	}
	rep := New(zerolog.Nop(), cfg, "test").WithProviders(
		staticGit(gitinfo.Info{Branch: "main", SHA: "abcdef0123456789"}),
		staticCI(ciinfo.Info{Actor: "octocat", BuildURL: "https://ci.example.com/1", IsCI: true}),
		nil,
	)

	require.NoError(t, rep.RunComplete(context.Background(), sampleAggregate()))

	require.Equal(t, "proj-1", received.TestProjectID)
	require.Equal(t, "Project One", received.TestProjectName)
	require.Equal(t, model.ClientType, received.ClientType)
	require.Equal(t, "octocat", received.BuildTriggerActor)
	require.Equal(t, "https://ci.example.com/1", received.BuildURL)
	require.Len(t, received.SuiteRuns, 1)
	require.Equal(t, "calc", received.SuiteRuns[0].SuiteName)
	require.Equal(t, "Calc > adds [unit]", received.SuiteRuns[0].SpecRuns[0].SpecDescription)
	require.Equal(t, []model.Tag{{ID: 1, Name: "unit"}}, received.SuiteRuns[0].SpecRuns[0].Tags)
	require.Equal(t, "broken", received.SuiteRuns[0].SpecRuns[1].Message)
}
