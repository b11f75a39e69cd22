package kubectl

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Get lists every object of kind in namespace. Kind may be a resource name
// ("pods"), a singular name or a Kind ("Pod"). An empty namespace lists across
// all namespaces; it is ignored for cluster-scoped kinds.
func (c *Client) Get(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error) {
	err := c.connect()
	if err != nil {
		return nil, err
	}

	mapping, err := c.resolveKind(kind)
	if err != nil {
		return nil, err
	}

	resource := c.dynamicClient.Resource(mapping.Resource)

	var list *unstructured.UnstructuredList

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		list, err = resource.Namespace(namespace).List(ctx, metav1.ListOptions{})
	} else {
		list, err = resource.List(ctx, metav1.ListOptions{})
	}

	if err != nil {
		return nil, fmt.Errorf("list %s: %w", mapping.Resource.Resource, err)
	}

	return list.Items, nil
}

func (c *Client) resolveKind(kind string) (*meta.RESTMapping, error) {
	gvr, err := c.mapper.ResourceFor(schema.GroupVersionResource{Resource: kind})
	if err != nil {
		return nil, fmt.Errorf("resolve kind %q: %w", kind, err)
	}

	gvk, err := c.mapper.KindFor(gvr)
	if err != nil {
		return nil, fmt.Errorf("resolve kind %q: %w", kind, err)
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("resolve kind %q: %w", kind, err)
	}

	return mapping, nil
}
