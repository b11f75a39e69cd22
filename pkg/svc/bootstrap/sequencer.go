package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
	"github.com/devantler-tech/k3d-manager/pkg/utils/notify"
	"github.com/devantler-tech/k3d-manager/pkg/utils/timer"
	"github.com/sirupsen/logrus"
)

// ClusterProvisioner creates the cluster of a plan.
type ClusterProvisioner interface {
	Provision(ctx context.Context, plan v1alpha1.Plan, caps v1alpha1.Capabilities) error
}

// ResourceManager applies manifests and waits for pods.
type ResourceManager interface {
	Apply(ctx context.Context, manifest []byte) error
	WaitForReady(ctx context.Context, selector, namespace string, timeout time.Duration) error
}

// PackageManager installs chart releases.
type PackageManager interface {
	AddRepository(ctx context.Context, entry *helm.RepositoryEntry) error
	InstallOrUpgradeChart(ctx context.Context, spec *helm.ChartSpec) (*helm.ReleaseInfo, error)
}

// Collaborators are the external systems a Sequencer drives.
type Collaborators struct {
	Provisioner ClusterProvisioner
	Resources   ResourceManager
	Packages    PackageManager
}

// SequencerOptions tunes a Sequencer.
type SequencerOptions struct {
	Sources Sources
	// WaitTimeout replaces every step's readiness timeout when positive.
	WaitTimeout time.Duration
	// Writer receives progress output. Defaults to os.Stdout.
	Writer io.Writer
}

// Sequencer runs steps strictly in rank order.
type Sequencer struct {
	steps   []Step
	collab  Collaborators
	sources Sources
	timeout time.Duration
	writer  io.Writer
}

// NewSequencer creates a sequencer over steps.
func NewSequencer(steps []Step, collab Collaborators, opts SequencerOptions) *Sequencer {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	return &Sequencer{
		steps:   steps,
		collab:  collab,
		sources: opts.Sources,
		timeout: opts.WaitTimeout,
		writer:  writer,
	}
}

// Steps returns the sequencer's pipeline.
func (s *Sequencer) Steps() []Step {
	return s.steps
}

// Run executes the pipeline. On failure it returns the results of every step
// attempted so far together with the terminating error.
func (s *Sequencer) Run(
	ctx context.Context,
	plan v1alpha1.Plan,
	caps v1alpha1.Capabilities,
) ([]StepResult, error) {
	mode := ModeFor(caps)
	results := make([]StepResult, 0, len(s.steps))

	tmr := timer.New()
	tmr.Start()

	for _, step := range s.steps {
		result := StepResult{Name: step.Name, Rank: step.Rank}

		switch {
		case mode == ModeBasic && step.Optional:
			result.Status = StatusSkipped
			result.SkipReason = SkipReasonBasicMode
		case !step.IsEnabled(plan, caps):
			result.Status = StatusSkipped
			result.SkipReason = SkipReasonDisabled
		}

		if result.Status == StatusSkipped {
			logrus.WithField("step", step.Name).Debugf("skipped: %s", result.SkipReason)

			results = append(results, result)

			continue
		}

		tmr.NewStage()
		notify.Titlef(s.writer, "🚀", "%s...", step.Name)

		started := time.Now()
		origin, err := s.runStep(ctx, step, plan, caps)
		result.Origin = origin
		result.Duration = time.Since(started)

		if err != nil {
			result.Status = StatusFailed
			result.Err = err
			result.Message = err.Error()
			results = append(results, result)

			notify.Errorf(s.writer, "%s failed: %v", step.Name, err)

			return results, err
		}

		result.Status = StatusSucceeded
		results = append(results, result)

		notify.SuccessWithTimerf(s.writer, tmr, "%s ready (%s payload)", step.Name, origin)
	}

	return results, nil
}

func (s *Sequencer) runStep(
	ctx context.Context,
	step Step,
	plan v1alpha1.Plan,
	caps v1alpha1.Capabilities,
) (PayloadOrigin, error) {
	if step.Action == ActionCreateCluster {
		notify.Activityf(s.writer, "creating cluster %s", plan.Name)

		err := s.collab.Provisioner.Provision(ctx, plan, caps)
		if err != nil {
			return OriginNone, &ClusterCreateError{Cluster: plan.Name, Err: err}
		}

		return OriginNone, nil
	}

	payload, err := ResolvePayload(step, plan, caps, s.sources)
	if err != nil {
		var exhausted *FallbackExhaustedError
		if errors.As(err, &exhausted) {
			return OriginNone, err
		}

		return OriginNone, &StepActionError{Step: step.Name, Err: err}
	}

	err = s.execute(ctx, step, payload)
	if err != nil {
		return payload.Origin, &StepActionError{Step: step.Name, Err: err}
	}

	if step.Wait != nil {
		err = s.wait(ctx, step)
		if err != nil {
			return payload.Origin, err
		}
	}

	return payload.Origin, nil
}

func (s *Sequencer) execute(ctx context.Context, step Step, payload Payload) error {
	switch {
	case payload.Chart != nil:
		return s.install(ctx, payload)
	case payload.ManifestPath != "":
		manifest, err := os.ReadFile(payload.ManifestPath)
		if err != nil {
			return fmt.Errorf("read manifest overlay: %w", err)
		}

		notify.Activityf(s.writer, "applying %s", payload.ManifestPath)

		return s.apply(ctx, manifest)
	case len(payload.Manifest) > 0:
		notify.Activityf(s.writer, "applying built-in %s manifest", step.Name)

		return s.apply(ctx, payload.Manifest)
	default:
		return nil
	}
}

func (s *Sequencer) apply(ctx context.Context, manifest []byte) error {
	err := s.collab.Resources.Apply(ctx, manifest)
	if err != nil {
		return fmt.Errorf("apply manifest: %w", err)
	}

	return nil
}

func (s *Sequencer) install(ctx context.Context, payload Payload) error {
	if payload.Repository != nil {
		notify.Activityf(s.writer, "adding repository %s", payload.Repository.Name)

		err := s.collab.Packages.AddRepository(ctx, payload.Repository)
		if err != nil {
			return fmt.Errorf("add repository %s: %w", payload.Repository.Name, err)
		}
	}

	notify.Activityf(s.writer, "installing %s into %s", payload.Chart.ChartName, payload.Chart.Namespace)

	release, err := s.collab.Packages.InstallOrUpgradeChart(ctx, payload.Chart)
	if err != nil {
		return fmt.Errorf("install release %s: %w", payload.Chart.ReleaseName, err)
	}

	if release != nil {
		logrus.WithFields(logrus.Fields{
			"release":  release.Name,
			"revision": release.Revision,
			"status":   release.Status,
		}).Debug("release installed")
	}

	return nil
}

func (s *Sequencer) wait(ctx context.Context, step Step) error {
	timeout := step.Wait.Timeout
	if s.timeout > 0 {
		timeout = s.timeout
	}

	notify.Activityf(s.writer, "waiting up to %s for pods %q in %s", timeout, step.Wait.Selector, step.Wait.Namespace)

	err := s.collab.Resources.WaitForReady(ctx, step.Wait.Selector, step.Wait.Namespace, timeout)
	if err == nil {
		return nil
	}

	if errors.Is(err, readiness.ErrTimeoutExceeded) {
		return &ReadinessTimeoutError{
			Step:      step.Name,
			Selector:  step.Wait.Selector,
			Namespace: step.Wait.Namespace,
			Err:       err,
		}
	}

	return &StepActionError{Step: step.Name, Err: fmt.Errorf("wait for readiness: %w", err)}
}
