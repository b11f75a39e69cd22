package bootstrap_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
	"github.com/devantler-tech/k3d-manager/pkg/svc/bootstrap"
	"github.com/devantler-tech/k3d-manager/pkg/svc/detector/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_FullRunWithDefaults(t *testing.T) {
	t.Parallel()

	provisioner := &fakeProvisioner{}
	resources := &fakeResources{}
	packages, installed := recordingPackages(t)

	results, err := newSequencer(provisioner, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), fullCaps())
	require.NoError(t, err)

	require.Len(t, results, len(bootstrap.DefaultSteps()))

	for i, result := range results {
		assert.Equal(t, i, result.Rank)
	}

	assert.Equal(t, map[string]bootstrap.StepStatus{
		bootstrap.StepCluster:            bootstrap.StatusSucceeded,
		bootstrap.StepCertManager:        bootstrap.StatusSucceeded,
		bootstrap.StepCertIssuer:         bootstrap.StatusSucceeded,
		bootstrap.StepIngressNginx:       bootstrap.StatusSucceeded,
		bootstrap.StepMonitoring:         bootstrap.StatusSucceeded,
		bootstrap.StepLogging:            bootstrap.StatusSkipped,
		bootstrap.StepDeliveryController: bootstrap.StatusSucceeded,
		bootstrap.StepNamespaces:         bootstrap.StatusSucceeded,
		bootstrap.StepNetworkPolicies:    bootstrap.StatusSucceeded,
		bootstrap.StepResourceQuotas:     bootstrap.StatusSucceeded,
		bootstrap.StepRBAC:               bootstrap.StatusSucceeded,
		bootstrap.StepSampleApp:          bootstrap.StatusSucceeded,
	}, statuses(results))

	assert.Equal(t, bootstrap.SkipReasonDisabled, results[5].SkipReason)
	assert.Equal(t, bootstrap.OriginNone, results[0].Origin)

	for _, result := range results[1:] {
		if result.Status == bootstrap.StatusSucceeded {
			assert.Equal(t, bootstrap.OriginDefault, result.Origin, result.Name)
		}
	}

	assert.Equal(t, 1, provisioner.calls)

	releases := make([]string, 0, len(*installed))
	for _, spec := range *installed {
		releases = append(releases, spec.ReleaseName)
		assert.NotEmpty(t, spec.SetValues, spec.ReleaseName)
		assert.Empty(t, spec.ValueFiles, spec.ReleaseName)
	}

	assert.Equal(t, []string{"cert-manager", "ingress-nginx", "monitoring", "argocd"}, releases)
	assert.Len(t, resources.applied, 6)

	selectors := make([]string, 0, len(resources.waits))
	for _, wait := range resources.waits {
		selectors = append(selectors, wait.selector)
	}

	assert.Equal(t, []string{
		"app.kubernetes.io/instance=cert-manager",
		"app.kubernetes.io/component=controller",
		"app.kubernetes.io/name=grafana",
		"app.kubernetes.io/name=argocd-server",
		"app=nginx",
	}, selectors)

	summary := bootstrap.BuildSummary(scenarioPlan(), results, bootstrap.ModeFor(fullCaps()))
	assert.Equal(t, bootstrap.ModeFull, summary.Variant)

	for _, endpoint := range summary.Endpoints {
		assert.NotEqual(t, "Kibana", endpoint.Name)
	}
}

func TestSequencer_BasicModeWithoutPackageManager(t *testing.T) {
	t.Parallel()

	provisioner := &fakeProvisioner{}
	resources := &fakeResources{}
	packages := helm.NewMockInterface(t)
	caps := capsWith(v1alpha1.CapabilityContainerRuntime)

	results, err := newSequencer(provisioner, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), caps)
	require.NoError(t, err)

	for _, result := range results {
		switch result.Name {
		case bootstrap.StepCluster, bootstrap.StepNamespaces:
			assert.Equal(t, bootstrap.StatusSucceeded, result.Status, result.Name)
		default:
			assert.Equal(t, bootstrap.StatusSkipped, result.Status, result.Name)
			assert.Equal(t, bootstrap.SkipReasonBasicMode, result.SkipReason, result.Name)
		}
	}

	require.Len(t, resources.applied, 1)
	assert.Contains(t, string(resources.applied[0]), "kind: Namespace")
	assert.Empty(t, resources.waits)

	summary := bootstrap.BuildSummary(scenarioPlan(), results, bootstrap.ModeFor(caps))
	assert.Equal(t, bootstrap.ModeBasic, summary.Variant)
	assert.Empty(t, summary.Endpoints)
}

func TestSequencer_ReadinessTimeoutAborts(t *testing.T) {
	t.Parallel()

	resources := &fakeResources{waitErrs: map[string]error{
		"app.kubernetes.io/component=controller": timeoutErr(),
	}}
	packages, installed := recordingPackages(t)

	results, err := newSequencer(&fakeProvisioner{}, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), fullCaps())

	require.Error(t, err)
	require.ErrorIs(t, err, bootstrap.ErrReadinessTimeout)
	require.ErrorIs(t, err, readiness.ErrTimeoutExceeded)

	var timeout *bootstrap.ReadinessTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, bootstrap.StepIngressNginx, timeout.Step)
	assert.Equal(t, "ingress-nginx", timeout.Namespace)

	require.Len(t, results, 4)
	assert.Equal(t, bootstrap.StatusSucceeded, results[0].Status)
	assert.Equal(t, bootstrap.StatusSucceeded, results[1].Status)
	assert.Equal(t, bootstrap.StatusSucceeded, results[2].Status)
	assert.Equal(t, bootstrap.StepIngressNginx, results[3].Name)
	assert.Equal(t, bootstrap.StatusFailed, results[3].Status)
	require.ErrorIs(t, results[3].Err, bootstrap.ErrReadinessTimeout)
	assert.NotEmpty(t, results[3].Message)

	assert.Len(t, *installed, 2)
	assert.Len(t, resources.applied, 1)
}

func TestSequencer_ClusterCreateFailureRunsNothingElse(t *testing.T) {
	t.Parallel()

	errDocker := errors.New("docker daemon unreachable")
	resources := &fakeResources{}
	packages := helm.NewMockInterface(t)

	results, err := newSequencer(&fakeProvisioner{err: errDocker}, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), fullCaps())

	require.ErrorIs(t, err, bootstrap.ErrClusterCreate)
	require.ErrorIs(t, err, errDocker)

	var createErr *bootstrap.ClusterCreateError
	require.ErrorAs(t, err, &createErr)
	assert.Equal(t, "prod-cluster", createErr.Cluster)

	require.Len(t, results, 1)
	assert.Equal(t, bootstrap.StatusFailed, results[0].Status)
	assert.Empty(t, resources.applied)
}

func TestSequencer_ApplyFailureIsStepActionError(t *testing.T) {
	t.Parallel()

	errForbidden := errors.New("forbidden")
	resources := &fakeResources{applyErr: errForbidden}
	packages, _ := recordingPackages(t)

	results, err := newSequencer(&fakeProvisioner{}, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), fullCaps())

	require.ErrorIs(t, err, bootstrap.ErrStepAction)
	require.ErrorIs(t, err, errForbidden)
	require.Len(t, results, 3)
	assert.Equal(t, bootstrap.StepCertIssuer, results[2].Name)
	assert.Equal(t, bootstrap.StatusFailed, results[2].Status)
}

func TestSequencer_InstallFailureIsStepActionError(t *testing.T) {
	t.Parallel()

	errChart := errors.New("chart not found")
	packages := helm.NewMockInterface(t)
	packages.EXPECT().AddRepository(context.Background(), &helm.RepositoryEntry{
		Name: "jetstack",
		URL:  "https://charts.jetstack.io",
	}).Return(nil)
	packages.EXPECT().InstallOrUpgradeChart(context.Background(), &helm.ChartSpec{
		ReleaseName:     "cert-manager",
		ChartName:       "jetstack/cert-manager",
		Namespace:       "cert-manager",
		Version:         "v1.13.2",
		CreateNamespace: true,
		Timeout:         helm.DefaultTimeout,
		SetValues:       map[string]string{"installCRDs": "true"},
	}).Return(nil, errChart)

	resources := &fakeResources{}

	results, err := newSequencer(&fakeProvisioner{}, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), fullCaps())

	var actionErr *bootstrap.StepActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, bootstrap.StepCertManager, actionErr.Step)
	require.ErrorIs(t, err, errChart)
	require.Len(t, results, 2)
	assert.Empty(t, resources.waits)
}

func TestSequencer_WaitErrorOtherThanTimeout(t *testing.T) {
	t.Parallel()

	errForbidden := errors.New("pods is forbidden")
	resources := &fakeResources{waitErrs: map[string]error{
		"app.kubernetes.io/instance=cert-manager": errForbidden,
	}}
	packages, _ := recordingPackages(t)

	_, err := newSequencer(&fakeProvisioner{}, resources, packages, bootstrap.SequencerOptions{}).
		Run(context.Background(), scenarioPlan(), fullCaps())

	require.ErrorIs(t, err, bootstrap.ErrStepAction)
	require.NotErrorIs(t, err, bootstrap.ErrReadinessTimeout)
}

func TestSequencer_WaitTimeoutOverride(t *testing.T) {
	t.Parallel()

	resources := &fakeResources{}
	packages, _ := recordingPackages(t)

	_, err := newSequencer(&fakeProvisioner{}, resources, packages, bootstrap.SequencerOptions{
		WaitTimeout: 42 * time.Second,
	}).Run(context.Background(), scenarioPlan(), fullCaps())
	require.NoError(t, err)

	require.NotEmpty(t, resources.waits)

	for _, wait := range resources.waits {
		assert.Equal(t, 42*time.Second, wait.timeout)
	}
}

func TestSequencer_ExternalOverlays(t *testing.T) {
	t.Parallel()

	valuesDir := t.TempDir()
	rbacOverlay := "apiVersion: v1\nkind: ServiceAccount\nmetadata:\n  name: custom\n  namespace: production\n"
	require.NoError(t, os.WriteFile(capability.OverlayPath(valuesDir, "rbac"), []byte(rbacOverlay), 0o600))
	require.NoError(t, os.WriteFile(capability.OverlayPath(valuesDir, "cert-manager"), []byte("installCRDs: true\n"), 0o600))

	caps := capsWith(
		v1alpha1.CapabilityPackageManager,
		v1alpha1.CapabilityContainerRuntime,
		v1alpha1.CapabilityValuesDir,
		v1alpha1.ValuesCapability("rbac"),
		v1alpha1.ValuesCapability("cert-manager"),
	)

	resources := &fakeResources{}
	packages, installed := recordingPackages(t)

	results, err := newSequencer(&fakeProvisioner{}, resources, packages, bootstrap.SequencerOptions{
		Sources: bootstrap.Sources{ValuesDir: valuesDir},
	}).Run(context.Background(), scenarioPlan(), caps)
	require.NoError(t, err)

	for _, result := range results {
		switch result.Name {
		case bootstrap.StepRBAC, bootstrap.StepCertManager:
			assert.Equal(t, bootstrap.OriginExternal, result.Origin, result.Name)
		case bootstrap.StepCluster, bootstrap.StepLogging:
		default:
			assert.Equal(t, bootstrap.OriginDefault, result.Origin, result.Name)
		}
	}

	certManager := (*installed)[0]
	assert.Equal(t, []string{filepath.Join(valuesDir, "cert-manager.yaml")}, certManager.ValueFiles)
	assert.Empty(t, certManager.SetValues)

	assert.Contains(t, resources.applied, []byte(rbacOverlay))
}

func TestSequencer_UnreadableOverlayFails(t *testing.T) {
	t.Parallel()

	caps := capsWith(
		v1alpha1.CapabilityContainerRuntime,
		v1alpha1.CapabilityValuesDir,
		v1alpha1.ValuesCapability("namespaces"),
	)

	results, err := newSequencer(&fakeProvisioner{}, &fakeResources{}, helm.NewMockInterface(t), bootstrap.SequencerOptions{
		Sources: bootstrap.Sources{ValuesDir: filepath.Join(t.TempDir(), "gone")},
	}).Run(context.Background(), scenarioPlan(), caps)

	var actionErr *bootstrap.StepActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, bootstrap.StepNamespaces, actionErr.Step)
	assert.Equal(t, bootstrap.OriginExternal, results[len(results)-1].Origin)
}

func TestSequencer_FallbackExhausted(t *testing.T) {
	t.Parallel()

	steps := []bootstrap.Step{
		{Name: "custom-policy", Action: bootstrap.ActionApplyManifest, Payload: bootstrap.PayloadSource{Overlay: true}},
		{Name: bootstrap.StepNamespaces, Rank: 1, Action: bootstrap.ActionApplyManifest},
	}
	resources := &fakeResources{}

	sequencer := bootstrap.NewSequencer(steps, bootstrap.Collaborators{Resources: resources}, bootstrap.SequencerOptions{
		Writer: &bytes.Buffer{},
	})

	results, err := sequencer.Run(context.Background(), scenarioPlan(), fullCaps())

	require.ErrorIs(t, err, bootstrap.ErrFallbackExhausted)
	require.Len(t, results, 1)
	assert.Equal(t, bootstrap.StatusFailed, results[0].Status)
	assert.Empty(t, resources.applied)
}

func TestSequencer_DevProfile(t *testing.T) {
	t.Parallel()

	provisioner := &fakeProvisioner{}
	plan := v1alpha1.Plan{Name: "dev-cluster", Servers: 1, Agents: 2, Profile: v1alpha1.ProfileDev}

	sequencer := bootstrap.NewSequencer(bootstrap.StepsFor(plan.Profile), bootstrap.Collaborators{
		Provisioner: provisioner,
	}, bootstrap.SequencerOptions{Writer: &bytes.Buffer{}})

	results, err := sequencer.Run(context.Background(), plan, capsWith(v1alpha1.CapabilityContainerRuntime))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, bootstrap.StatusSucceeded, results[0].Status)
	assert.Equal(t, 1, provisioner.calls)
}

func TestSequencer_WritesProgress(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	packages, _ := recordingPackages(t)

	_, err := newSequencer(&fakeProvisioner{}, &fakeResources{}, packages, bootstrap.SequencerOptions{Writer: &out}).
		Run(context.Background(), scenarioPlan(), fullCaps())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "cert-manager...")
	assert.Contains(t, out.String(), "installing jetstack/cert-manager into cert-manager")
	assert.Contains(t, out.String(), "sample-app ready (default payload)")
}
