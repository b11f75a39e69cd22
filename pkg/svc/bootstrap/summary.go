package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/svc/template"
)

const separatorWidth = 60

// Endpoint is one reachable service of a provisioned cluster. Credentials is
// either a literal user/password pair or a command printing the password.
type Endpoint struct {
	Group       string `json:"group"                 yaml:"group"`
	Name        string `json:"name"                  yaml:"name"`
	URL         string `json:"url"                   yaml:"url"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	Note        string `json:"note,omitempty"        yaml:"note,omitempty"`
}

// Summary is the post-provision access information of a cluster.
type Summary struct {
	Variant   Mode       `json:"variant"             yaml:"variant"`
	Cluster   string     `json:"cluster"             yaml:"cluster"`
	Context   string     `json:"context"             yaml:"context"`
	Endpoints []Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	Commands  []string   `json:"commands"            yaml:"commands"`
	Teardown  string     `json:"teardown"            yaml:"teardown"`
	Notes     []string   `json:"notes,omitempty"     yaml:"notes,omitempty"`
}

// BuildSummary derives the summary of a run. Only succeeded steps contribute
// endpoints. It has no side effects.
func BuildSummary(plan v1alpha1.Plan, results []StepResult, mode Mode) Summary {
	summary := Summary{
		Variant:  mode,
		Cluster:  plan.Name,
		Context:  plan.ContextName(),
		Teardown: "k3d cluster delete " + plan.Name,
	}

	if mode == ModeBasic {
		summary.Commands = []string{"kubectl config use-context " + plan.ContextName()}
		summary.Notes = []string{
			"basic cluster: optional components were omitted because no package manager is available",
		}

		return summary
	}

	summary.Endpoints = endpointsFor(results)
	summary.Commands = []string{
		"kubectl get pods -A",
		"kubectl config use-context " + plan.ContextName(),
	}

	return summary
}

func endpointsFor(results []StepResult) []Endpoint {
	var endpoints []Endpoint

	if Succeeded(results, StepMonitoring) {
		endpoints = append(endpoints,
			Endpoint{Group: "Monitoring", Name: "Prometheus", URL: "http://localhost:9090"},
			Endpoint{
				Group:       "Monitoring",
				Name:        "Grafana",
				URL:         "http://localhost:3000",
				Credentials: "admin/" + template.GrafanaAdminPassword,
			},
		)
	}

	if Succeeded(results, StepLogging) {
		endpoints = append(endpoints, Endpoint{
			Group: "Logging",
			Name:  "Kibana",
			URL:   fmt.Sprintf("http://localhost:%d", template.KibanaPort),
		})
	}

	if Succeeded(results, StepDeliveryController) {
		endpoints = append(endpoints, Endpoint{
			Group: "GitOps",
			Name:  "ArgoCD",
			URL:   "http://localhost:8080",
			Credentials: `kubectl -n argocd get secret argocd-initial-admin-secret ` +
				`-o jsonpath="{.data.password}" | base64 -d`,
		})
	}

	if Succeeded(results, StepSampleApp) {
		endpoints = append(endpoints, Endpoint{
			Group: "Sample App",
			Name:  "nginx",
			URL:   "http://" + template.SampleHost,
			Note:  "add to /etc/hosts: 127.0.0.1 " + template.SampleHost,
		})
	}

	return endpoints
}

// WriteSummary renders summary for the console.
func WriteSummary(writer io.Writer, summary Summary) error {
	var builder strings.Builder

	separator := strings.Repeat("=", separatorWidth)

	fmt.Fprintf(&builder, "\n%s\n", separator)

	if summary.Variant == ModeBasic {
		fmt.Fprintf(&builder, "🎯 Basic cluster '%s' is ready\n", summary.Cluster)
	} else {
		fmt.Fprintf(&builder, "🎯 Access Information for '%s':\n", summary.Cluster)
	}

	fmt.Fprintf(&builder, "%s\n", separator)

	group := ""

	for _, endpoint := range summary.Endpoints {
		if endpoint.Group != group {
			group = endpoint.Group
			fmt.Fprintf(&builder, "\n%s:\n", group)
		}

		fmt.Fprintf(&builder, "  %-11s %s\n", endpoint.Name+":", endpoint.URL)

		if endpoint.Credentials != "" {
			fmt.Fprintf(&builder, "  %-11s %s\n", "Login:", endpoint.Credentials)
		}

		if endpoint.Note != "" {
			fmt.Fprintf(&builder, "  %-11s %s\n", "Note:", endpoint.Note)
		}
	}

	for _, note := range summary.Notes {
		fmt.Fprintf(&builder, "\nℹ %s\n", note)
	}

	builder.WriteString("\n🔍 Useful Commands:\n")

	for _, command := range summary.Commands {
		fmt.Fprintf(&builder, "  %s\n", command)
	}

	fmt.Fprintf(&builder, "  %s\n", summary.Teardown)
	fmt.Fprintf(&builder, "\n%s\n", separator)

	_, err := io.WriteString(writer, builder.String())
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
