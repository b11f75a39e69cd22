package helm

import (
	"errors"
	"fmt"

	helmv4loader "helm.sh/helm/v4/pkg/chart/loader"
	chartv2 "helm.sh/helm/v4/pkg/chart/v2"
)

var errUnexpectedChartType = errors.New("helm: unexpected chart type")

// LoadChartDir loads a local chart directory and validates its metadata.
func LoadChartDir(path string) (*chartv2.Chart, error) {
	chartInterface, err := helmv4loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load chart %s: %w", path, err)
	}

	chart, ok := chartInterface.(*chartv2.Chart)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errUnexpectedChartType, chartInterface)
	}

	err = chart.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate chart %s: %w", path, err)
	}

	return chart, nil
}
