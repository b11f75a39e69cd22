package bootstrap_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
	"github.com/devantler-tech/k3d-manager/pkg/svc/bootstrap"
	"github.com/devantler-tech/k3d-manager/pkg/svc/detector/capability"
	"github.com/stretchr/testify/mock"
)

type fakeProvisioner struct {
	err   error
	calls int
}

func (f *fakeProvisioner) Provision(context.Context, v1alpha1.Plan, v1alpha1.Capabilities) error {
	f.calls++

	return f.err
}

type waitCall struct {
	selector  string
	namespace string
	timeout   time.Duration
}

// fakeResources records applies and waits in call order.
type fakeResources struct {
	mu       sync.Mutex
	applied  [][]byte
	waits    []waitCall
	applyErr error
	// waitErrs maps a selector to the error its wait returns.
	waitErrs map[string]error
}

func (f *fakeResources) Apply(_ context.Context, manifest []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applied = append(f.applied, manifest)

	return f.applyErr
}

func (f *fakeResources) WaitForReady(_ context.Context, selector, namespace string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.waits = append(f.waits, waitCall{selector: selector, namespace: namespace, timeout: timeout})

	return f.waitErrs[selector]
}

type fakeProber struct {
	caps    v1alpha1.Capabilities
	targets capability.Targets
}

func (f *fakeProber) Probe(_ context.Context, targets capability.Targets) v1alpha1.Capabilities {
	f.targets = targets

	return f.caps
}

// recordingPackages returns a helm mock that accepts any repository and
// records installed chart specs.
func recordingPackages(t *testing.T) (*helm.MockInterface, *[]*helm.ChartSpec) {
	t.Helper()

	installed := &[]*helm.ChartSpec{}
	packages := helm.NewMockInterface(t)

	packages.EXPECT().AddRepository(mock.Anything, mock.Anything).Return(nil).Maybe()
	packages.EXPECT().InstallOrUpgradeChart(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, spec *helm.ChartSpec) (*helm.ReleaseInfo, error) {
			*installed = append(*installed, spec)

			return &helm.ReleaseInfo{Name: spec.ReleaseName, Namespace: spec.Namespace, Revision: 1}, nil
		}).Maybe()

	return packages, installed
}

func scenarioPlan() v1alpha1.Plan {
	return v1alpha1.Plan{
		Name:    "prod-cluster",
		Servers: 3,
		Agents:  3,
		Profile: v1alpha1.ProfileProd,
		Features: v1alpha1.Features{
			Monitoring:         true,
			Logging:            false,
			DeliveryController: true,
		},
	}
}

func capsWith(names ...v1alpha1.Capability) v1alpha1.Capabilities {
	facts := map[v1alpha1.Capability]bool{}
	for _, name := range names {
		facts[name] = true
	}

	return v1alpha1.NewCapabilities(facts)
}

func fullCaps() v1alpha1.Capabilities {
	return capsWith(v1alpha1.CapabilityPackageManager, v1alpha1.CapabilityContainerRuntime)
}

func newSequencer(
	provisioner bootstrap.ClusterProvisioner,
	resources bootstrap.ResourceManager,
	packages bootstrap.PackageManager,
	opts bootstrap.SequencerOptions,
) *bootstrap.Sequencer {
	if opts.Writer == nil {
		opts.Writer = io.Discard
	}

	return bootstrap.NewSequencer(bootstrap.DefaultSteps(), bootstrap.Collaborators{
		Provisioner: provisioner,
		Resources:   resources,
		Packages:    packages,
	}, opts)
}

func statuses(results []bootstrap.StepResult) map[string]bootstrap.StepStatus {
	out := make(map[string]bootstrap.StepStatus, len(results))
	for _, result := range results {
		out[result.Name] = result.Status
	}

	return out
}

func timeoutErr() error {
	return fmt.Errorf("wait for pods: %w after 5m0s", readiness.ErrTimeoutExceeded)
}
