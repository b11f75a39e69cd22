package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"maps"
	"path"
	texttemplate "text/template"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
)

const (
	// AppNamespace receives the sample workload and its policies.
	AppNamespace = "production"
	// CAIssuer is the cluster issuer backed by the local CA.
	CAIssuer = "local-ca-issuer"
	// SampleHost is the ingress host of the sample workload.
	SampleHost = "nginx.local"
	// KibanaPort is the Kibana service port exposed through the load balancer.
	KibanaPort = 5601
	// GrafanaAdminPassword is the default Grafana admin password.
	GrafanaAdminPassword = "admin"

	sampleReplicas = 3
	manifestsDir   = "manifests"
	templateSuffix = ".yaml.tmpl"
)

// ErrNoDefault is returned when a step has no built-in default payload.
var ErrNoDefault = errors.New("no built-in default payload")

//go:embed manifests/*.yaml.tmpl
var manifestFS embed.FS

var manifests = texttemplate.Must(texttemplate.New("manifests").Option("missingkey=error").ParseFS(
	manifestFS, path.Join(manifestsDir, "*"+templateSuffix),
))

// Environments are the application namespaces created on every cluster.
func Environments() []string {
	return []string{"production", "staging", "development"}
}

type renderData struct {
	Name           string
	Environments   []string
	AppNamespace   string
	CAIssuer       string
	SampleHost     string
	SampleReplicas int
	KibanaPort     int
}

// HasManifest reports whether step has a built-in manifest.
func HasManifest(step string) bool {
	return manifests.Lookup(step+templateSuffix) != nil
}

// Manifest renders the built-in manifest of step for plan.
func Manifest(plan v1alpha1.Plan, step string) ([]byte, error) {
	tmpl := manifests.Lookup(step + templateSuffix)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: manifest for step %q", ErrNoDefault, step)
	}

	data := renderData{
		Name:           plan.Name,
		Environments:   Environments(),
		AppNamespace:   AppNamespace,
		CAIssuer:       CAIssuer,
		SampleHost:     SampleHost,
		SampleReplicas: sampleReplicas,
		KibanaPort:     KibanaPort,
	}

	var buf bytes.Buffer

	err := tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("render manifest for step %q: %w", step, err)
	}

	return buf.Bytes(), nil
}

var defaultValues = map[string]map[string]string{
	"cert-manager": {
		"installCRDs": "true",
	},
	"ingress-nginx": {
		"controller.hostPort.enabled": "true",
		"controller.service.type":     "LoadBalancer",
	},
	"monitoring": {
		"grafana.adminPassword":   GrafanaAdminPassword,
		"grafana.service.type":    "LoadBalancer",
		"grafana.service.port":    "3000",
		"prometheus.service.type": "LoadBalancer",
		"prometheus.service.port": "9090",
	},
	"delivery-controller": {
		"server.service.type":            "LoadBalancer",
		"server.service.servicePortHttp": "8080",
	},
}

// HasDefaultValues reports whether step has built-in chart values.
func HasDefaultValues(step string) bool {
	_, ok := defaultValues[step]

	return ok
}

// DefaultValues returns a copy of the built-in --set style chart values of step.
func DefaultValues(_ v1alpha1.Plan, step string) (map[string]string, error) {
	values, ok := defaultValues[step]
	if !ok {
		return nil, fmt.Errorf("%w: values for step %q", ErrNoDefault, step)
	}

	return maps.Clone(values), nil
}
