// Package ciinfo detects the CI provider a run executed under from
// well-known environment variables, in a fixed precedence order.
package ciinfo

import "os"

// Info describes the build environment that triggered the run.
type Info struct {
	// User or service account that triggered the build
	Actor string `json:"actor"`
	// URL of the build in the provider's UI, empty when unknown
	BuildURL string `json:"build_url"`
	// Whether any CI environment was detected
	IsCI bool `json:"is_ci"`
	// Provider name (github-actions, gitlab-ci, jenkins, circleci, generic), empty locally
	Provider string `json:"provider,omitempty"`
}

// Detect inspects the process environment and returns the build metadata.
// Providers are checked in order: GitHub Actions, GitLab CI, Jenkins,
// CircleCI. When none match but a generic CI indicator is set, a generic
// result is returned; otherwise the local-developer default.
func Detect() Info {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return Info{
			Actor:    envOr("GITHUB_ACTOR", "ci-user"),
			BuildURL: githubBuildURL(),
			IsCI:     true,
			Provider: "github-actions",
		}
	}

	if os.Getenv("GITLAB_CI") == "true" {
		return Info{
			Actor:    envOr("GITLAB_USER_LOGIN", "ci-user"),
			BuildURL: firstEnv("CI_JOB_URL", "CI_PIPELINE_URL"),
			IsCI:     true,
			Provider: "gitlab-ci",
		}
	}

	if os.Getenv("JENKINS_URL") != "" || os.Getenv("JENKINS_HOME") != "" {
		return Info{
			Actor:    envOr("BUILD_USER_ID", "jenkins"),
			BuildURL: os.Getenv("BUILD_URL"),
			IsCI:     true,
			Provider: "jenkins",
		}
	}

	if os.Getenv("CIRCLECI") == "true" {
		return Info{
			Actor:    envOr("CIRCLE_USERNAME", "ci-user"),
			BuildURL: os.Getenv("CIRCLE_BUILD_URL"),
			IsCI:     true,
			Provider: "circleci",
		}
	}

	// Generic indicator without provider-specific variables
	if os.Getenv("CI") == "true" {
		return Info{Actor: "ci-user", IsCI: true, Provider: "generic"}
	}

	return Info{Actor: "local-developer", IsCI: false}
}

func githubBuildURL() string {
	server := os.Getenv("GITHUB_SERVER_URL")
	repo := os.Getenv("GITHUB_REPOSITORY")
	runID := os.Getenv("GITHUB_RUN_ID")
	if server == "" || repo == "" || runID == "" {
		return ""
	}
	return server + "/" + repo + "/actions/runs/" + runID
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
