package template_test

import (
	"testing"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/kubectl"
	"github.com/devantler-tech/k3d-manager/pkg/svc/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() v1alpha1.Plan {
	return v1alpha1.Plan{Name: "prod-cluster", Servers: 3, Agents: 3, Profile: v1alpha1.ProfileProd}
}

func kindsAndNames(t *testing.T, manifest []byte) []string {
	t.Helper()

	objects, err := kubectl.DecodeManifest(manifest)
	require.NoError(t, err)

	result := make([]string, 0, len(objects))
	for _, obj := range objects {
		result = append(result, obj.GetKind()+"/"+obj.GetNamespace()+"/"+obj.GetName())
	}

	return result
}

func TestManifest_Namespaces(t *testing.T) {
	t.Parallel()

	manifest, err := template.Manifest(testPlan(), "namespaces")
	require.NoError(t, err)

	objects, err := kubectl.DecodeManifest(manifest)
	require.NoError(t, err)
	require.Len(t, objects, 3)

	for i, env := range template.Environments() {
		assert.Equal(t, "Namespace", objects[i].GetKind())
		assert.Equal(t, env, objects[i].GetName())
		assert.Equal(t, env, objects[i].GetLabels()["environment"])
		assert.Equal(t, "prod-cluster", objects[i].GetLabels()["k3d-manager.io/cluster"])
	}
}

func TestManifest_CertIssuer(t *testing.T) {
	t.Parallel()

	manifest, err := template.Manifest(testPlan(), "cert-issuer")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ClusterIssuer//selfsigned-issuer",
		"Certificate/cert-manager/local-ca",
		"ClusterIssuer//" + template.CAIssuer,
	}, kindsAndNames(t, manifest))
}

func TestManifest_SampleApp(t *testing.T) {
	t.Parallel()

	manifest, err := template.Manifest(testPlan(), "sample-app")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Deployment/production/nginx-app",
		"Service/production/nginx-service",
		"Ingress/production/nginx-ingress",
		"HorizontalPodAutoscaler/production/nginx-hpa",
	}, kindsAndNames(t, manifest))
	assert.Contains(t, string(manifest), "host: nginx.local")
	assert.Contains(t, string(manifest), `cert-manager.io/cluster-issuer: "local-ca-issuer"`)
}

func TestManifest_EveryBuiltInRendersValidYAML(t *testing.T) {
	t.Parallel()

	steps := []string{
		"cert-issuer", "logging", "namespaces", "network-policies", "resource-quotas", "rbac", "sample-app",
	}

	for _, step := range steps {
		require.True(t, template.HasManifest(step), step)

		manifest, err := template.Manifest(testPlan(), step)
		require.NoError(t, err, step)

		assert.NotEmpty(t, kindsAndNames(t, manifest), step)
	}
}

func TestManifest_IsPure(t *testing.T) {
	t.Parallel()

	first, err := template.Manifest(testPlan(), "logging")
	require.NoError(t, err)

	second, err := template.Manifest(testPlan(), "logging")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "port: 5601")
}

func TestManifest_Unknown(t *testing.T) {
	t.Parallel()

	assert.False(t, template.HasManifest("monitoring"))

	_, err := template.Manifest(testPlan(), "monitoring")
	require.ErrorIs(t, err, template.ErrNoDefault)
}

func TestDefaultValues(t *testing.T) {
	t.Parallel()

	values, err := template.DefaultValues(testPlan(), "cert-manager")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"installCRDs": "true"}, values)

	values["installCRDs"] = "false"

	again, err := template.DefaultValues(testPlan(), "cert-manager")
	require.NoError(t, err)
	assert.Equal(t, "true", again["installCRDs"])

	monitoring, err := template.DefaultValues(testPlan(), "monitoring")
	require.NoError(t, err)
	assert.Equal(t, template.GrafanaAdminPassword, monitoring["grafana.adminPassword"])

	assert.True(t, template.HasDefaultValues("delivery-controller"))
	assert.False(t, template.HasDefaultValues("namespaces"))

	_, err = template.DefaultValues(testPlan(), "namespaces")
	require.ErrorIs(t, err, template.ErrNoDefault)
}
