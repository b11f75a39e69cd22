package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrBinaryNotFound is returned when the requested binary is not on PATH.
var ErrBinaryNotFound = errors.New("binary not found on PATH")

// BinaryRunner executes external binaries and captures their output.
type BinaryRunner interface {
	RunBinary(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs binaries with os/exec. Stderr is mirrored to the configured
// writer while the command runs; stdout is only captured.
type ExecRunner struct {
	stderr io.Writer
}

// NewExecRunner creates an ExecRunner. A nil writer discards stderr mirroring.
func NewExecRunner(stderr io.Writer) *ExecRunner {
	if stderr == nil {
		stderr = io.Discard
	}

	return &ExecRunner{stderr: stderr}
}

// RunBinary runs name with args and returns the captured output.
func (r *ExecRunner) RunBinary(ctx context.Context, name string, args ...string) (CommandResult, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return CommandResult{}, fmt.Errorf("%w: %s", ErrBinaryNotFound, name)
	}

	logrus.WithField("command", name+" "+strings.Join(args, " ")).Debug("running binary")

	var outBuf, errBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, path, args...) //nolint:gosec // binary and args are built by the caller
	cmd.Stdout = &outBuf
	cmd.Stderr = io.MultiWriter(&errBuf, r.stderr)

	runErr := cmd.Run()

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if runErr != nil {
		detail := strings.TrimSpace(result.Stderr)
		if detail == "" {
			return result, fmt.Errorf("%s %s: %w", name, firstArg(args), runErr)
		}

		return result, fmt.Errorf("%s %s: %w: %s", name, firstArg(args), runErr, detail)
	}

	return result, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
