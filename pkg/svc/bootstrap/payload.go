package bootstrap

import (
	"fmt"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/devantler-tech/k3d-manager/pkg/svc/detector/capability"
	"github.com/devantler-tech/k3d-manager/pkg/svc/template"
)

// Mode is the plan-level fallback decision.
type Mode string

const (
	// ModeFull runs every enabled step.
	ModeFull Mode = "full"
	// ModeBasic skips every optional step because no package manager is available.
	ModeBasic Mode = "basic"
)

// ModeFor returns basic when the package manager is unavailable.
func ModeFor(caps v1alpha1.Capabilities) Mode {
	if caps.Has(v1alpha1.CapabilityPackageManager) {
		return ModeFull
	}

	return ModeBasic
}

// PayloadOrigin records where a step's payload came from.
type PayloadOrigin string

const (
	// OriginExternal is an operator-supplied overlay file or chart directory.
	OriginExternal PayloadOrigin = "external"
	// OriginDefault is a built-in manifest or built-in chart values.
	OriginDefault PayloadOrigin = "default"
	// OriginNone marks steps that take no payload.
	OriginNone PayloadOrigin = "none"
)

// Sources locates operator-supplied payloads.
type Sources struct {
	ValuesDir string
	ChartsDir string
}

// Payload is the resolved input of a step's action. Exactly one of
// Manifest, ManifestPath and Chart is set unless Origin is OriginNone.
type Payload struct {
	Origin PayloadOrigin
	// Manifest is a rendered built-in manifest.
	Manifest []byte
	// ManifestPath is an external manifest file, read when the step runs.
	ManifestPath string
	// Chart is the release to install.
	Chart *helm.ChartSpec
	// Repository is registered before Chart is installed.
	Repository *helm.RepositoryEntry
}

// ResolvePayload picks the payload of step: an external overlay or chart
// when the capability confirms it, else the built-in default.
func ResolvePayload(
	step Step,
	plan v1alpha1.Plan,
	caps v1alpha1.Capabilities,
	sources Sources,
) (Payload, error) {
	src := step.Payload

	if step.Action == ActionCreateCluster || (!src.Overlay && src.Workload == "" && src.Package == nil) {
		return Payload{Origin: OriginNone}, nil
	}

	overlay := ""
	if src.Overlay && caps.Has(v1alpha1.CapabilityValuesDir) && caps.Has(v1alpha1.ValuesCapability(step.Name)) {
		overlay = capability.OverlayPath(sources.ValuesDir, step.Name)
	}

	if src.Workload != "" {
		if src.Package != nil && caps.Has(v1alpha1.ChartCapability(src.Workload)) {
			chart := newChartSpec(src.Package, capability.ChartPath(sources.ChartsDir, src.Workload))
			if overlay != "" {
				chart.ValueFiles = []string{overlay}
			}

			return Payload{Origin: OriginExternal, Chart: chart}, nil
		}

		// A workload overlay holds chart values, never a manifest.
		return defaultManifestPayload(step, plan)
	}

	if step.Action == ActionInstallPackage {
		return resolvePackagePayload(step, plan, overlay)
	}

	if overlay != "" {
		return Payload{Origin: OriginExternal, ManifestPath: overlay}, nil
	}

	return defaultManifestPayload(step, plan)
}

func defaultManifestPayload(step Step, plan v1alpha1.Plan) (Payload, error) {
	if !template.HasManifest(step.Name) {
		return Payload{}, &FallbackExhaustedError{Step: step.Name, Err: template.ErrNoDefault}
	}

	manifest, err := template.Manifest(plan, step.Name)
	if err != nil {
		return Payload{}, fmt.Errorf("render default manifest for %s: %w", step.Name, err)
	}

	return Payload{Origin: OriginDefault, Manifest: manifest}, nil
}

func resolvePackagePayload(step Step, plan v1alpha1.Plan, overlay string) (Payload, error) {
	ref := step.Payload.Package
	if ref == nil || ref.Chart == "" {
		return Payload{}, &FallbackExhaustedError{Step: step.Name}
	}

	chart := newChartSpec(ref, ref.Chart)

	if overlay != "" {
		chart.ValueFiles = []string{overlay}

		return Payload{Origin: OriginExternal, Chart: chart, Repository: ref.Repository}, nil
	}

	if !template.HasDefaultValues(step.Name) {
		return Payload{}, &FallbackExhaustedError{Step: step.Name, Err: template.ErrNoDefault}
	}

	values, err := template.DefaultValues(plan, step.Name)
	if err != nil {
		return Payload{}, fmt.Errorf("render default values for %s: %w", step.Name, err)
	}

	chart.SetValues = values

	return Payload{Origin: OriginDefault, Chart: chart, Repository: ref.Repository}, nil
}

func newChartSpec(ref *PackageRef, chartName string) *helm.ChartSpec {
	spec := &helm.ChartSpec{
		ReleaseName:     ref.Release,
		ChartName:       chartName,
		Namespace:       ref.Namespace,
		CreateNamespace: true,
		Timeout:         helm.DefaultTimeout,
	}

	if chartName == ref.Chart {
		spec.Version = ref.Version
	}

	return spec
}
