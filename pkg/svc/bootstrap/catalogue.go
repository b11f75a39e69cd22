package bootstrap

import (
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/devantler-tech/k3d-manager/pkg/svc/template"
)

// Step names.
const (
	StepCluster            = "cluster"
	StepCertManager        = "cert-manager"
	StepCertIssuer         = "cert-issuer"
	StepIngressNginx       = "ingress-nginx"
	StepMonitoring         = "monitoring"
	StepLogging            = "logging"
	StepDeliveryController = "delivery-controller"
	StepNamespaces         = "namespaces"
	StepNetworkPolicies    = "network-policies"
	StepResourceQuotas     = "resource-quotas"
	StepRBAC               = "rbac"
	StepSampleApp          = "sample-app"
)

const (
	componentWaitTimeout = 300 * time.Second
	sampleAppWaitTimeout = 180 * time.Second
)

// DefaultSteps returns the full pipeline in rank order.
func DefaultSteps() []Step {
	steps := []Step{
		{Name: StepCluster, Action: ActionCreateCluster},
		{
			Name:     StepCertManager,
			Action:   ActionInstallPackage,
			Optional: true,
			Wait: &ReadinessWait{
				Selector:  "app.kubernetes.io/instance=cert-manager",
				Namespace: "cert-manager",
				Timeout:   componentWaitTimeout,
			},
			Payload: PayloadSource{
				Overlay: true,
				Package: &PackageRef{
					Release:    "cert-manager",
					Chart:      "jetstack/cert-manager",
					Version:    "v1.13.2",
					Namespace:  "cert-manager",
					Repository: &helm.RepositoryEntry{Name: "jetstack", URL: "https://charts.jetstack.io"},
				},
			},
		},
		{Name: StepCertIssuer, Action: ActionApplyManifest, Optional: true, Payload: PayloadSource{Overlay: true}},
		{
			Name:     StepIngressNginx,
			Action:   ActionInstallPackage,
			Optional: true,
			Wait: &ReadinessWait{
				Selector:  "app.kubernetes.io/component=controller",
				Namespace: "ingress-nginx",
				Timeout:   componentWaitTimeout,
			},
			Payload: PayloadSource{
				Overlay: true,
				Package: &PackageRef{
					Release:   "ingress-nginx",
					Chart:     "ingress-nginx/ingress-nginx",
					Version:   "4.8.3",
					Namespace: "ingress-nginx",
					Repository: &helm.RepositoryEntry{
						Name: "ingress-nginx",
						URL:  "https://kubernetes.github.io/ingress-nginx",
					},
				},
			},
		},
		{
			Name:     StepMonitoring,
			Action:   ActionInstallPackage,
			Optional: true,
			Enabled:  FeatureEnabled(v1alpha1.FeatureMonitoring),
			Wait: &ReadinessWait{
				Selector:  "app.kubernetes.io/name=grafana",
				Namespace: "monitoring",
				Timeout:   componentWaitTimeout,
			},
			Payload: PayloadSource{
				Overlay: true,
				Package: &PackageRef{
					Release:   "monitoring",
					Chart:     "prometheus-community/kube-prometheus-stack",
					Namespace: "monitoring",
					Repository: &helm.RepositoryEntry{
						Name: "prometheus-community",
						URL:  "https://prometheus-community.github.io/helm-charts",
					},
				},
			},
		},
		{
			Name:     StepLogging,
			Action:   ActionApplyManifest,
			Optional: true,
			Enabled:  FeatureEnabled(v1alpha1.FeatureLogging),
			Payload:  PayloadSource{Overlay: true},
		},
		{
			Name:     StepDeliveryController,
			Action:   ActionInstallPackage,
			Optional: true,
			Enabled:  FeatureEnabled(v1alpha1.FeatureDeliveryController),
			Wait: &ReadinessWait{
				Selector:  "app.kubernetes.io/name=argocd-server",
				Namespace: "argocd",
				Timeout:   componentWaitTimeout,
			},
			Payload: PayloadSource{
				Overlay: true,
				Package: &PackageRef{
					Release:   "argocd",
					Chart:     "oci://ghcr.io/argoproj/argo-helm/argo-cd",
					Namespace: "argocd",
				},
			},
		},
		{Name: StepNamespaces, Action: ActionApplyManifest, Payload: PayloadSource{Overlay: true}},
		{Name: StepNetworkPolicies, Action: ActionApplyManifest, Optional: true, Payload: PayloadSource{Overlay: true}},
		{Name: StepResourceQuotas, Action: ActionApplyManifest, Optional: true, Payload: PayloadSource{Overlay: true}},
		{Name: StepRBAC, Action: ActionApplyManifest, Optional: true, Payload: PayloadSource{Overlay: true}},
		{
			Name:     StepSampleApp,
			Action:   ActionApplyManifest,
			Optional: true,
			Wait: &ReadinessWait{
				Selector:  "app=nginx",
				Namespace: template.AppNamespace,
				Timeout:   sampleAppWaitTimeout,
			},
			Payload: PayloadSource{
				Overlay:  true,
				Workload: StepSampleApp,
				Package: &PackageRef{
					Release:   StepSampleApp,
					Namespace: template.AppNamespace,
				},
			},
		},
	}

	return ranked(steps)
}

// DevSteps returns the pipeline of the dev profile: the cluster and nothing on top.
func DevSteps() []Step {
	return ranked([]Step{{Name: StepCluster, Action: ActionCreateCluster}})
}

// StepsFor returns the pipeline of profile.
func StepsFor(profile v1alpha1.Profile) []Step {
	if profile == v1alpha1.ProfileDev {
		return DevSteps()
	}

	return DefaultSteps()
}

// OverlaySteps returns the names of steps that accept a values overlay.
func OverlaySteps(steps []Step) []string {
	names := make([]string, 0, len(steps))

	for _, step := range steps {
		if step.Payload.Overlay {
			names = append(names, step.Name)
		}
	}

	return names
}

// Workloads returns the names of workloads that may be installed from a local chart.
func Workloads(steps []Step) []string {
	var names []string

	for _, step := range steps {
		if step.Payload.Workload != "" {
			names = append(names, step.Payload.Workload)
		}
	}

	return names
}

func ranked(steps []Step) []Step {
	for i := range steps {
		steps[i].Rank = i
	}

	return steps
}
