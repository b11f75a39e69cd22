package runner_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/devantler-tech/k3d-manager/pkg/cmd/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := runner.NewExecRunner(nil).RunBinary(context.Background(), "k3d-manager-no-such-binary", "version")

	require.ErrorIs(t, err, runner.ErrBinaryNotFound)
}

func TestExecRunner_CapturesStdout(t *testing.T) {
	t.Parallel()

	res, err := runner.NewExecRunner(nil).RunBinary(context.Background(), "sh", "-c", "echo v3.14.0")

	require.NoError(t, err)
	assert.Equal(t, "v3.14.0\n", res.Stdout)
}

func TestExecRunner_FailureIncludesStderr(t *testing.T) {
	t.Parallel()

	var mirror bytes.Buffer

	res, err := runner.NewExecRunner(&mirror).RunBinary(context.Background(), "sh", "-c", "echo broken >&2; exit 3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, "broken\n", res.Stderr)
	assert.Equal(t, "broken\n", mirror.String())
}
