package configmanager

import (
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
)

// Output formats of the bootstrap report.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// Settings are the resolved inputs of a command.
type Settings struct {
	v1alpha1.Options `mapstructure:",squash"`

	ValuesDir       string        `mapstructure:"values-dir"`
	ChartsDir       string        `mapstructure:"charts-dir"`
	ScratchDir      string        `mapstructure:"scratch-dir"`
	Kubeconfig      string        `mapstructure:"kubeconfig"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Settle          time.Duration `mapstructure:"settle"`
	Output          string        `mapstructure:"output"`
	TolerateFailure bool          `mapstructure:"tolerate-failure"`
	Verbose         bool          `mapstructure:"verbose"`
}

func settingKeys() []string {
	return []string{
		"name", "servers", "agents", "profile",
		"skip-monitoring", "skip-logging", "skip-argocd",
		"values-dir", "charts-dir", "scratch-dir", "kubeconfig",
		"timeout", "settle", "output", "tolerate-failure", "verbose",
	}
}
