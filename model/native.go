package model

import (
	"encoding/json"
	"fmt"
)

// Aggregate is the runner's own representation of a completed run, as
// handed to the adapter on run completion. Optional fields are pointers;
// their defaults are applied during mapping, not here.
type Aggregate struct {
	// Run start instant as epoch milliseconds
	StartTime int64 `json:"startTime"`
	// Per-file suite results in runner order
	TestResults []SuiteResult `json:"testResults"`
}

// SuiteResult is the native result of one test file.
type SuiteResult struct {
	// Absolute path of the test file
	TestFilePath string `json:"testFilePath"`
	// Suite start instant as epoch milliseconds, if the runner reported one
	StartTime *int64 `json:"startTime,omitempty"`
	// Suite end instant as epoch milliseconds, if the runner reported one
	EndTime *int64 `json:"endTime,omitempty"`
	// Individual test results in runner order
	TestResults []TestResult `json:"testResults"`
}

// TestResult is the native result of one test case.
type TestResult struct {
	// Titles of the enclosing describe blocks, outermost first
	AncestorTitles []string `json:"ancestorTitles"`
	// The test's own title
	Title string `json:"title"`
	// Native status literal (passed, failed, pending, todo, ...)
	Status string `json:"status"`
	// Test duration in milliseconds, if measured
	Duration *int64 `json:"duration,omitempty"`
	// Raw failure message strings
	FailureMessages []string `json:"failureMessages"`
	// Structured failure details, populated by some runners instead of messages
	FailureDetails []FailureDetail `json:"failureDetails,omitempty"`
}

// FailureDetail is a structured failure record.
type FailureDetail struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ParseAggregate decodes a runner-emitted aggregate result document.
func ParseAggregate(data []byte) (*Aggregate, error) {
	var agg Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("failed to parse aggregate result: %w", err)
	}
	return &agg, nil
}
