package mapper

import "github.com/testpulse/testpulse-go/model"

// NormalizeStatus maps the runner's native status vocabulary onto the
// reporting vocabulary. Total over any input: unrecognized literals map to
// StatusUnknown rather than failing.
func NormalizeStatus(native string) model.Status {
	switch native {
	case "passed":
		return model.StatusPassed
	case "failed":
		return model.StatusFailed
	case "skipped", "pending", "disabled":
		return model.StatusSkipped
	case "todo":
		return model.StatusPending
	default:
		return model.StatusUnknown
	}
}
