package bootstrap

import "time"

// StepStatus is the outcome of a step.
type StepStatus string

const (
	// StatusSucceeded marks a step whose action and readiness wait completed.
	StatusSucceeded StepStatus = "Succeeded"
	// StatusSkipped marks a step that was not attempted.
	StatusSkipped StepStatus = "Skipped"
	// StatusFailed marks the step that aborted the run.
	StatusFailed StepStatus = "Failed"
)

// Skip reasons.
const (
	SkipReasonBasicMode = "basic cluster: package manager unavailable"
	SkipReasonDisabled  = "disabled"
)

// StepResult records what happened to one step.
type StepResult struct {
	Name       string        `json:"name"                 yaml:"name"`
	Rank       int           `json:"rank"                 yaml:"rank"`
	Status     StepStatus    `json:"status"               yaml:"status"`
	SkipReason string        `json:"skipReason,omitempty" yaml:"skipReason,omitempty"`
	Origin     PayloadOrigin `json:"origin,omitempty"     yaml:"origin,omitempty"`
	Err        error         `json:"-"                    yaml:"-"`
	Message    string        `json:"error,omitempty"      yaml:"error,omitempty"`
	Duration   time.Duration `json:"duration"             yaml:"duration"`
}

// Succeeded reports whether the named step succeeded.
func Succeeded(results []StepResult, name string) bool {
	for _, result := range results {
		if result.Name == name {
			return result.Status == StatusSucceeded
		}
	}

	return false
}
