package kubectl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
)

const decoderBufferSize = 4096

var errObjectKindMissing = errors.New("object has no kind set")

// Apply server-side applies every document of a multi-document manifest in order.
// Empty documents are skipped; the first failure stops the apply.
func (c *Client) Apply(ctx context.Context, manifest []byte) error {
	objects, err := DecodeManifest(manifest)
	if err != nil {
		return err
	}

	err = c.connect()
	if err != nil {
		return err
	}

	for i := range objects {
		obj := &objects[i]

		err = c.applyObject(ctx, obj)
		if err != nil {
			return fmt.Errorf(
				"failed to apply %s %s/%s: %w",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), err,
			)
		}
	}

	return nil
}

// DecodeManifest splits a YAML or JSON stream into unstructured objects.
func DecodeManifest(manifest []byte) ([]unstructured.Unstructured, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifest), decoderBufferSize)

	var objects []unstructured.Unstructured

	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured

		err := decoder.Decode(&obj)
		if errors.Is(err, io.EOF) {
			return objects, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			continue
		}

		objects = append(objects, obj)
	}
}

func (c *Client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return errObjectKindMissing
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if meta.IsNoMatchError(err) && c.resetMapper() {
		mapping, err = c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	}

	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	opts := metav1.PatchOptions{FieldManager: FieldManager}

	resource := c.dynamicClient.Resource(mapping.Resource)

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		namespace := obj.GetNamespace()
		if namespace == "" {
			namespace = metav1.NamespaceDefault
		}

		_, err = resource.Namespace(namespace).Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	} else {
		_, err = resource.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	}

	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}

	return nil
}
