package bootstrap

import (
	"context"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/svc/detector/capability"
)

// CapabilityProber reports the capabilities of the current environment.
type CapabilityProber interface {
	Probe(ctx context.Context, targets capability.Targets) v1alpha1.Capabilities
}

// Report is the outcome of a bootstrap run. Summary is nil when the run
// aborted and failures are not tolerated.
type Report struct {
	Plan         v1alpha1.Plan         `json:"plan"              yaml:"plan"`
	Capabilities v1alpha1.Capabilities `json:"-"                 yaml:"-"`
	Mode         Mode                  `json:"mode"              yaml:"mode"`
	Results      []StepResult          `json:"results"           yaml:"results"`
	Summary      *Summary              `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Bootstrapper probes the environment, sequences the plan's steps and builds
// the post-provision summary.
type Bootstrapper struct {
	prober          CapabilityProber
	sequencer       *Sequencer
	sources         Sources
	tolerateFailure bool
}

// NewBootstrapper creates a bootstrapper. With tolerateFailure set, a summary
// is built even after an aborted run.
func NewBootstrapper(
	prober CapabilityProber,
	sequencer *Sequencer,
	sources Sources,
	tolerateFailure bool,
) *Bootstrapper {
	return &Bootstrapper{
		prober:          prober,
		sequencer:       sequencer,
		sources:         sources,
		tolerateFailure: tolerateFailure,
	}
}

// Run executes probe, sequence and report for plan. The report is always
// returned; err is the error that terminated the run, if any.
func (b *Bootstrapper) Run(ctx context.Context, plan v1alpha1.Plan) (*Report, error) {
	steps := b.sequencer.Steps()

	caps := b.prober.Probe(ctx, capability.Targets{
		ValuesDir: b.sources.ValuesDir,
		Steps:     OverlaySteps(steps),
		ChartsDir: b.sources.ChartsDir,
		Workloads: Workloads(steps),
	})

	report := &Report{
		Plan:         plan,
		Capabilities: caps,
		Mode:         ModeFor(caps),
	}

	results, err := b.sequencer.Run(ctx, plan, caps)
	report.Results = results

	if err != nil && !b.tolerateFailure {
		return report, err
	}

	summary := BuildSummary(plan, results, report.Mode)
	report.Summary = &summary

	return report, err
}
