package helm

import (
	"fmt"
	"maps"
	"os"
	"slices"

	helmv4strvals "helm.sh/helm/v4/pkg/strvals"
	"sigs.k8s.io/yaml"
)

const valuesFileMode = 0o600

// RenderSetValues merges strvals expressions into a nested values map.
// Keys are applied in sorted order so the result is deterministic.
func RenderSetValues(setValues map[string]string) (map[string]any, error) {
	base := map[string]any{}

	for _, key := range slices.Sorted(maps.Keys(setValues)) {
		val := setValues[key]

		err := helmv4strvals.ParseInto(fmt.Sprintf("%s=%s", key, val), base)
		if err != nil {
			return nil, fmt.Errorf("failed to parse set value %s=%s: %w", key, val, err)
		}
	}

	return base, nil
}

func writeSetValuesFile(dir, release string, setValues map[string]string) (string, error) {
	values, err := RenderSetValues(setValues)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal values for %s: %w", release, err)
	}

	file, err := os.CreateTemp(dir, "k3d-manager-"+release+"-*.yaml")
	if err != nil {
		return "", fmt.Errorf("create values file for %s: %w", release, err)
	}

	path := file.Name()

	_, writeErr := file.Write(data)
	closeErr := file.Close()

	if writeErr != nil {
		return "", fmt.Errorf("write values file %s: %w", path, writeErr)
	}

	if closeErr != nil {
		return "", fmt.Errorf("close values file %s: %w", path, closeErr)
	}

	err = os.Chmod(path, valuesFileMode)
	if err != nil {
		return "", fmt.Errorf("chmod values file %s: %w", path, err)
	}

	return path, nil
}
