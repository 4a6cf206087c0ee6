// Package mapper transforms a runner's native aggregated result into the
// normalized reporting schema. Mapping is total: malformed or partial input
// degrades to fallback values instead of returning errors.
package mapper

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/testpulse/testpulse-go/ciinfo"
	"github.com/testpulse/testpulse-go/gitinfo"
	"github.com/testpulse/testpulse-go/model"
)

// fallbackMessage is reported for a failed spec that carries no failure
// text at all.
const fallbackMessage = "Test failed"

var suiteSuffixes = []string{
	".test.js", ".test.ts", ".test.jsx", ".test.tsx",
	".spec.js", ".spec.ts", ".spec.jsx", ".spec.tsx",
}

// ExtractSuiteName derives a suite name from its test file path: the final
// path segment with any trailing .test.<ext> or .spec.<ext> suffix removed.
func ExtractSuiteName(path string) string {
	name := filepath.Base(path)
	for _, suffix := range suiteSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// runIdentifier derives the shared TestRun id/seed from the current
// instant: epoch milliseconds scaled by 1e6 plus the sub-millisecond
// nanosecond component. Unique with very high probability on one host,
// not guaranteed.
func runIdentifier(now time.Time) int64 {
	return now.UnixMilli()*1_000_000 + int64(now.Nanosecond()%1_000_000)
}

// MapTest maps one native test result into a SpecRun.
func MapTest(test model.TestResult, suiteStart time.Time, suiteID, specID int) model.SpecRun {
	description := test.Title
	if len(test.AncestorTitles) > 0 {
		description = strings.Join(test.AncestorTitles, " > ") + " > " + test.Title
	}

	status := NormalizeStatus(test.Status)

	var message string
	if status == model.StatusFailed {
		switch {
		case len(test.FailureMessages) > 0:
			message = strings.Join(test.FailureMessages, "\n")
		case len(test.FailureDetails) > 0:
			message = test.FailureDetails[0].Message
		default:
			message = fallbackMessage
		}
	}

	var duration time.Duration
	if test.Duration != nil {
		duration = time.Duration(*test.Duration) * time.Millisecond
	}

	return model.SpecRun{
		ID:              specID,
		SuiteID:         suiteID,
		SpecDescription: description,
		Status:          status,
		Message:         message,
		Tags:            collectTags(test.Title, test.AncestorTitles),
		StartTime:       suiteStart,
		EndTime:         suiteStart.Add(duration),
	}
}

// MapSuite maps one native suite result into a SuiteRun. Suites that did
// not report start or end instants fall back to the instant mapping runs.
func MapSuite(suite model.SuiteResult, testRunID int64, suiteID int) model.SuiteRun {
	now := time.Now()

	start := now
	if suite.StartTime != nil {
		start = time.UnixMilli(*suite.StartTime)
	}
	end := now
	if suite.EndTime != nil {
		end = time.UnixMilli(*suite.EndTime)
	}

	specs := make([]model.SpecRun, 0, len(suite.TestResults))
	for i, test := range suite.TestResults {
		specs = append(specs, MapTest(test, start, suiteID, i+1))
	}

	return model.SuiteRun{
		ID:        suiteID,
		TestRunID: testRunID,
		SuiteName: ExtractSuiteName(suite.TestFilePath),
		StartTime: start,
		EndTime:   end,
		SpecRuns:  specs,
	}
}

// MapAggregate maps a complete native aggregated result into a TestRun.
// The run's end time is the wall-clock instant mapping completes; the
// runner does not report one.
func MapAggregate(agg *model.Aggregate, projectID, projectName string, git gitinfo.Info, ci ciinfo.Info) *model.TestRun {
	now := time.Now()
	id := runIdentifier(now)

	suites := make([]model.SuiteRun, 0, len(agg.TestResults))
	for i, suite := range agg.TestResults {
		suites = append(suites, MapSuite(suite, id, i+1))
	}

	return &model.TestRun{
		ID:                id,
		TestProjectName:   projectName,
		TestProjectID:     projectID,
		TestSeed:          id,
		StartTime:         time.UnixMilli(agg.StartTime),
		EndTime:           now,
		GitBranch:         git.Branch,
		GitSHA:            git.SHA,
		BuildTriggerActor: ci.Actor,
		BuildURL:          ci.BuildURL,
		ClientType:        model.ClientType,
		SuiteRuns:         suites,
	}
}
