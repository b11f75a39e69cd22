package bootstrap

import (
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
)

// ActionKind is the effect a step has on the cluster.
type ActionKind string

const (
	// ActionCreateCluster provisions the cluster itself.
	ActionCreateCluster ActionKind = "create-cluster"
	// ActionApplyManifest server-side applies a manifest.
	ActionApplyManifest ActionKind = "apply-manifest"
	// ActionInstallPackage installs or upgrades a chart release.
	ActionInstallPackage ActionKind = "install-package"
)

// ReadinessWait is the pod condition awaited after a step's action.
type ReadinessWait struct {
	Selector  string
	Namespace string
	Timeout   time.Duration
}

// PackageRef is the chart release a step installs.
type PackageRef struct {
	Release   string
	Chart     string
	Version   string
	Namespace string
	// Repository is registered before installing. Nil for OCI and local charts.
	Repository *helm.RepositoryEntry
}

// PayloadSource lists where a step's payload may come from.
type PayloadSource struct {
	// Overlay accepts the values/<step> overlay when set.
	Overlay bool
	// Workload accepts a local chart directory chart/<Workload> when set.
	Workload string
	// Package is the chart release installed by install-package steps and by
	// steps whose local chart is available.
	Package *PackageRef
}

// EnablementFunc decides whether a step runs for a plan.
type EnablementFunc func(plan v1alpha1.Plan, caps v1alpha1.Capabilities) bool

// Step is one unit of the bootstrap pipeline.
type Step struct {
	Name   string
	Rank   int
	Action ActionKind
	// Optional steps are skipped in basic mode.
	Optional bool
	// Enabled is nil for steps that always run.
	Enabled EnablementFunc
	Wait    *ReadinessWait
	Payload PayloadSource
}

// IsEnabled evaluates the step's enablement predicate.
func (s Step) IsEnabled(plan v1alpha1.Plan, caps v1alpha1.Capabilities) bool {
	if s.Enabled == nil {
		return true
	}

	return s.Enabled(plan, caps)
}

// FeatureEnabled enables a step when feature is switched on in the plan.
func FeatureEnabled(feature v1alpha1.Feature) EnablementFunc {
	return func(plan v1alpha1.Plan, _ v1alpha1.Capabilities) bool {
		return plan.Enabled(feature)
	}
}
