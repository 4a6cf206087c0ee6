package model

import "time"

// ClientType identifies this adapter in reported payloads.
const ClientType = "testpulse-go"

// Tag is a single category marker extracted from a spec title.
type Tag struct {
	// Dense 1-based sequence, scoped to one spec's tag list
	ID int `json:"id"`
	// Tag name, unique within one spec's tag list
	Name string `json:"name"`
}

// SpecRun is the reported outcome of a single test case.
type SpecRun struct {
	// 1-based sequence number, unique within the parent suite
	ID int `json:"id"`
	// ID of the parent suite
	SuiteID int `json:"suite_id"`
	// ">"-joined concatenation of ancestor group titles and the spec's own title
	SpecDescription string `json:"spec_description"`
	// Normalized status (passed, failed, skipped, pending, unknown)
	Status Status `json:"status"`
	// Failure text; empty for passed/skipped specs
	Message string `json:"message"`
	// Extracted tags, at least one (the "default" tag when none were found)
	Tags []Tag `json:"tags"`
	// Timestamp when the spec started
	StartTime time.Time `json:"start_time"`
	// Timestamp when the spec finished (start + duration)
	EndTime time.Time `json:"end_time"`
}

// SuiteRun is the reported outcome of one suite (one test file).
type SuiteRun struct {
	// 1-based sequence number, unique within the parent test run
	ID int `json:"id"`
	// ID of the parent test run
	TestRunID int64 `json:"test_run_id"`
	// Suite name derived from the test file path
	SuiteName string `json:"suite_name"`
	// Timestamp when the suite started
	StartTime time.Time `json:"start_time"`
	// Timestamp when the suite finished
	EndTime time.Time `json:"end_time"`
	// Specs in the order the runner reported them
	SpecRuns []SpecRun `json:"spec_runs"`
}

// TestRun is the top-level reported document, one per completed run.
type TestRun struct {
	// Timestamp-derived identifier, unique with very high probability per host
	ID int64 `json:"id"`
	// Human-readable project name
	TestProjectName string `json:"test_project_name"`
	// Project identifier in the collection service
	TestProjectID string `json:"test_project_id"`
	// Same derived value as ID, reported separately for the collector
	TestSeed int64 `json:"test_seed"`
	// Timestamp when the runner started the run
	StartTime time.Time `json:"start_time"`
	// Timestamp when mapping completed
	EndTime time.Time `json:"end_time"`
	// Git branch at time of execution
	GitBranch string `json:"git_branch"`
	// Git commit hash at time of execution
	GitSHA string `json:"git_sha"`
	// User or CI actor that triggered the build
	BuildTriggerActor string `json:"build_trigger_actor"`
	// URL of the CI build, empty outside CI
	BuildURL string `json:"build_url"`
	// Adapter identifier (always ClientType)
	ClientType string `json:"client_type"`
	// Suites in the order the runner reported them
	SuiteRuns []SuiteRun `json:"suite_runs"`
}

// Status is the normalized reporting status vocabulary.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusPending Status = "pending"
	StatusUnknown Status = "unknown"
)

// Counts summarizes a test run by normalized status.
type Counts struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Count tallies the specs of a mapped run by status. Pending and unknown
// specs contribute to Total only.
func (t *TestRun) Count() Counts {
	var c Counts
	for _, suite := range t.SuiteRuns {
		for _, spec := range suite.SpecRuns {
			c.Total++
			switch spec.Status {
			case StatusPassed:
				c.Passed++
			case StatusFailed:
				c.Failed++
			case StatusSkipped:
				c.Skipped++
			}
		}
	}
	return c
}
