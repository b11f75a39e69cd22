package envvar_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/k3d-manager/pkg/utils/envvar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel
func TestExpand(t *testing.T) {
	t.Setenv("K3DM_TEST_VALUES", "/srv/values")
	t.Setenv("K3DM_TEST_PROFILE", "prod")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no placeholders", input: "./values", expected: "./values"},
		{name: "single placeholder", input: "${K3DM_TEST_VALUES}/x", expected: "/srv/values/x"},
		{name: "missing variable", input: "${K3DM_TEST_MISSING}/x", expected: "/x"},
		{
			name:     "multiple placeholders",
			input:    "${K3DM_TEST_VALUES}/${K3DM_TEST_PROFILE}",
			expected: "/srv/values/prod",
		},
		{name: "bare dollar untouched", input: "$K3DM_TEST_VALUES", expected: "$K3DM_TEST_VALUES"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, envvar.Expand(testCase.input))
		})
	}
}

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel
func TestExpandPath(t *testing.T) {
	t.Setenv("K3DM_TEST_DIR", "charts")

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "charts"), envvar.ExpandPath("~/${K3DM_TEST_DIR}"))
	assert.Equal(t, home, envvar.ExpandPath("~"))
	assert.Equal(t, "~user/charts", envvar.ExpandPath("~user/charts"))
	assert.Equal(t, "/abs/charts", envvar.ExpandPath("/abs/${K3DM_TEST_DIR}"))
	assert.Empty(t, envvar.ExpandPath(""))
}
