package kubectl_test

import (
	"context"
	"testing"
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/client/kubectl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
	clienttesting "k8s.io/client-go/testing"
)

func newTestMapper() meta.RESTMapper {
	resources := []*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name: "",
				Versions: []metav1.GroupVersionForDiscovery{
					{GroupVersion: "v1", Version: "v1"},
				},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "configmaps", SingularName: "configmap", Namespaced: true, Kind: "ConfigMap"},
					{Name: "namespaces", SingularName: "namespace", Namespaced: false, Kind: "Namespace"},
					{Name: "nodes", SingularName: "node", Namespaced: false, Kind: "Node"},
					{Name: "pods", SingularName: "pod", Namespaced: true, Kind: "Pod"},
					{Name: "services", SingularName: "service", Namespaced: true, Kind: "Service"},
				},
			},
		},
	}

	return restmapper.NewDiscoveryRESTMapper(resources)
}

func newUnstructured(apiVersion, kind, namespace, name string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion(apiVersion)
	obj.SetKind(kind)
	obj.SetNamespace(namespace)
	obj.SetName(name)

	return obj
}

func newDynamicClient(objects ...runtime.Object) *dynamicfake.FakeDynamicClient {
	listKinds := map[schema.GroupVersionResource]string{
		{Version: "v1", Resource: "pods"}:       "PodList",
		{Version: "v1", Resource: "nodes"}:      "NodeList",
		{Version: "v1", Resource: "services"}:   "ServiceList",
		{Version: "v1", Resource: "configmaps"}: "ConfigMapList",
		{Version: "v1", Resource: "namespaces"}: "NamespaceList",
	}

	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(), listKinds, objects...)
}

func echoPatches(dynamicClient *dynamicfake.FakeDynamicClient) {
	dynamicClient.PrependReactor("patch", "*", func(action clienttesting.Action) (bool, runtime.Object, error) {
		patchAction, _ := action.(clienttesting.PatchAction)

		obj := &unstructured.Unstructured{}

		err := obj.UnmarshalJSON(patchAction.GetPatch())
		if err != nil {
			return true, nil, err
		}

		return true, obj, nil
	})
}

func patchActions(dynamicClient *dynamicfake.FakeDynamicClient) []clienttesting.PatchAction {
	var patches []clienttesting.PatchAction

	for _, action := range dynamicClient.Actions() {
		if patchAction, ok := action.(clienttesting.PatchAction); ok {
			patches = append(patches, patchAction)
		}
	}

	return patches
}

func TestApply_EmptyManifest(t *testing.T) {
	t.Parallel()

	dynamicClient := newDynamicClient()
	client := kubectl.NewFromClients(fake.NewClientset(), dynamicClient, newTestMapper())

	require.NoError(t, client.Apply(context.Background(), []byte("---\n---\n")))
	assert.Empty(t, dynamicClient.Actions())
}

func TestApply_InvalidYAML(t *testing.T) {
	t.Parallel()

	client := kubectl.NewFromClients(fake.NewClientset(), newDynamicClient(), newTestMapper())

	err := client.Apply(context.Background(), []byte(`{invalid yaml: [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode manifest")
}

func TestApply_ServerSideAppliesEveryDocument(t *testing.T) {
	t.Parallel()

	dynamicClient := newDynamicClient()
	echoPatches(dynamicClient)

	client := kubectl.NewFromClients(fake.NewClientset(), dynamicClient, newTestMapper())

	manifest := []byte(`apiVersion: v1
kind: Namespace
metadata:
  name: production
  labels:
    environment: production
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: settings
data:
  mode: prod
---
apiVersion: v1
kind: Service
metadata:
  name: nginx-service
  namespace: production
spec:
  ports:
  - port: 80
`)

	require.NoError(t, client.Apply(context.Background(), manifest))

	patches := patchActions(dynamicClient)
	require.Len(t, patches, 3)

	assert.Equal(t, "production", patches[0].GetName())
	assert.Empty(t, patches[0].GetNamespace())
	assert.Equal(t, "settings", patches[1].GetName())
	assert.Equal(t, "default", patches[1].GetNamespace())
	assert.Equal(t, "nginx-service", patches[2].GetName())
	assert.Equal(t, "production", patches[2].GetNamespace())

	for _, patch := range patches {
		assert.Equal(t, "application/apply-patch+yaml", string(patch.GetPatchType()))
	}
}

func TestApply_UnknownKindStops(t *testing.T) {
	t.Parallel()

	dynamicClient := newDynamicClient()
	echoPatches(dynamicClient)

	client := kubectl.NewFromClients(fake.NewClientset(), dynamicClient, newTestMapper())

	manifest := []byte(`apiVersion: cert-manager.io/v1
kind: ClusterIssuer
metadata:
  name: selfsigned-issuer
spec:
  selfSigned: {}
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: never-applied
`)

	err := client.Apply(context.Background(), manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ClusterIssuer")
	assert.Empty(t, patchActions(dynamicClient))
}

func TestDecodeManifest(t *testing.T) {
	t.Parallel()

	objects, err := kubectl.DecodeManifest([]byte(`---
apiVersion: v1
kind: ConfigMap
metadata:
  name: first
---
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: second
`))
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "first", objects[0].GetName())
	assert.Equal(t, "second", objects[1].GetName())
}

func TestGet_NamespacedKind(t *testing.T) {
	t.Parallel()

	dynamicClient := newDynamicClient(
		newUnstructured("v1", "Pod", "production", "nginx-app-1"),
		newUnstructured("v1", "Pod", "production", "nginx-app-2"),
		newUnstructured("v1", "Pod", "staging", "other"),
	)
	client := kubectl.NewFromClients(fake.NewClientset(), dynamicClient, newTestMapper())

	pods, err := client.Get(context.Background(), "pods", "production")
	require.NoError(t, err)
	assert.Len(t, pods, 2)

	all, err := client.Get(context.Background(), "Pod", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGet_ClusterScopedKind(t *testing.T) {
	t.Parallel()

	dynamicClient := newDynamicClient(
		newUnstructured("v1", "Node", "", "k3d-prod-cluster-server-0"),
		newUnstructured("v1", "Node", "", "k3d-prod-cluster-agent-0"),
	)
	client := kubectl.NewFromClients(fake.NewClientset(), dynamicClient, newTestMapper())

	nodes, err := client.Get(context.Background(), "nodes", "ignored")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestGet_UnknownKind(t *testing.T) {
	t.Parallel()

	client := kubectl.NewFromClients(fake.NewClientset(), newDynamicClient(), newTestMapper())

	_, err := client.Get(context.Background(), "clusterissuers", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clusterissuers")
}

func TestWaitForReady(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "ingress-nginx-controller",
			Namespace: "ingress-nginx",
			Labels:    map[string]string{"app.kubernetes.io/component": "controller"},
		},
		Status: corev1.PodStatus{
			Conditions: []corev1.PodCondition{{Type: corev1.PodReady, Status: corev1.ConditionTrue}},
		},
	})
	client := kubectl.NewFromClients(clientset, newDynamicClient(), newTestMapper())

	err := client.WaitForReady(
		context.Background(), "app.kubernetes.io/component=controller", "ingress-nginx", 5*time.Second,
	)
	require.NoError(t, err)
}

func TestNewClient_WithoutKubeconfig(t *testing.T) {
	t.Parallel()

	client := kubectl.NewClient("", "k3d-prod-cluster")

	require.Error(t, client.Apply(context.Background(), []byte("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: x\n")))

	_, err := client.Get(context.Background(), "pods", "")
	require.Error(t, err)

	_, err = client.Clientset()
	require.Error(t, err)
}
