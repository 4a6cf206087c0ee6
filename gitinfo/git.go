// Package gitinfo resolves the branch and commit of the repository the
// tests ran in. Resolution is best-effort: when git is unavailable and no
// CI environment supplies the values, both fields degrade to "unknown".
package gitinfo

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Unknown is reported when a field cannot be determined.
const Unknown = "unknown"

// Info identifies the commit under test.
type Info struct {
	Branch string `json:"branch"`
	SHA    string `json:"sha"`
}

// branchEnvVars and shaEnvVars are consulted before shelling out; CI
// checkouts are frequently detached HEADs where rev-parse reports "HEAD"
// instead of a branch name.
var branchEnvVars = []string{"GITHUB_REF_NAME", "CI_COMMIT_REF_NAME"}
var shaEnvVars = []string{"GITHUB_SHA", "CI_COMMIT_SHA"}

// Detect resolves branch and SHA from the environment, falling back to the
// git CLI in the working directory. It never fails; undeterminable fields
// are the literal "unknown".
func Detect(ctx context.Context) Info {
	info := Info{Branch: Unknown, SHA: Unknown}

	for _, key := range branchEnvVars {
		if v := os.Getenv(key); v != "" {
			info.Branch = v
			break
		}
	}
	for _, key := range shaEnvVars {
		if v := os.Getenv(key); v != "" {
			info.SHA = v
			break
		}
	}

	if info.Branch == Unknown {
		if out, err := runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD"); err == nil && out != "" {
			info.Branch = out
		}
	}
	if info.SHA == Unknown {
		if out, err := runGit(ctx, "rev-parse", "HEAD"); err == nil && out != "" {
			info.SHA = out
		}
	}

	return info
}

func runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
