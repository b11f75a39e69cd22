// Package errorhandler runs the root command and turns its failures into
// user-facing messages and process exit codes.
package errorhandler

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/spf13/cobra"
)

// Exit codes reported by the CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	// ExitUsage covers unknown commands, bad flags and invalid configuration.
	ExitUsage = 2
)

// Executor runs a Cobra command tree while capturing its error stream.
type Executor struct{}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs cmd with ctx. It returns nil on success, or a *CommandError
// carrying the cleaned-up stderr text, the original error and an exit code.
func (e *Executor) Execute(ctx context.Context, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	message := Normalize(errBuf.String())

	return &CommandError{
		message:  message,
		cause:    err,
		exitCode: classify(err, message),
	}
}

// CommandError is a command failure with its normalized stderr output.
type CommandError struct {
	message  string
	cause    error
	exitCode int
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var commandErr *CommandError
	if errors.As(err, &commandErr) {
		return commandErr.exitCode
	}

	return classify(err, "")
}

func classify(err error, stderr string) int {
	if errors.Is(err, v1alpha1.ErrInvalidConfig) || errors.Is(err, v1alpha1.ErrInvalidProfile) {
		return ExitUsage
	}

	// Cobra reports argument and flag errors with a usage hint on stderr.
	if strings.Contains(stderr, "--help' for usage") ||
		strings.HasPrefix(err.Error(), "unknown command") ||
		strings.HasPrefix(err.Error(), "unknown flag") ||
		strings.HasPrefix(err.Error(), "unknown shorthand flag") {
		return ExitUsage
	}

	return ExitFailure
}

// Normalize trims whitespace and the leading "Error:" prefix Cobra adds,
// keeping any following usage hint lines.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}
