package kubectl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/k8s"
	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

// FieldManager identifies k3d-manager as the server-side apply actor.
const FieldManager = "k3d-manager"

var errNotConfigured = errors.New("kubectl: client has no kubeconfig and no injected clients")

// Interface is the resource-management surface used by the bootstrap pipeline and the info command.
type Interface interface {
	Apply(ctx context.Context, manifest []byte) error
	WaitForReady(ctx context.Context, selector, namespace string, timeout time.Duration) error
	Get(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error)
}

// Client talks to one kubeconfig context.
type Client struct {
	kubeconfig string
	context    string

	mu            sync.Mutex
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper
}

var _ Interface = (*Client)(nil)

// NewClient creates a client for the kubeconfig and context. Nothing is
// dialled until the first operation.
func NewClient(kubeconfig, context string) *Client {
	return &Client{kubeconfig: kubeconfig, context: context}
}

// NewFromClients creates a client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
) *Client {
	return &Client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clientset != nil && c.dynamicClient != nil && c.mapper != nil {
		return nil
	}

	if c.kubeconfig == "" {
		return errNotConfigured
	}

	restConfig, err := k8s.BuildRESTConfig(c.kubeconfig, c.context)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.context, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("failed to create dynamic client: %w", err)
	}

	mapper, err := k8s.NewRESTMapper(restConfig)
	if err != nil {
		return err
	}

	c.clientset = clientset
	c.dynamicClient = dynamicClient
	c.mapper = mapper

	return nil
}

// WaitForReady blocks until every pod matching selector in namespace is Ready,
// or the timeout passes. A timeout matches readiness.ErrTimeoutExceeded.
func (c *Client) WaitForReady(ctx context.Context, selector, namespace string, timeout time.Duration) error {
	err := c.connect()
	if err != nil {
		return err
	}

	err = readiness.WaitForPodsReady(ctx, c.clientset, namespace, selector, timeout)
	if err != nil {
		return fmt.Errorf("wait for pods %q in %s: %w", selector, namespace, err)
	}

	return nil
}

// Clientset returns the typed clientset, connecting first if needed.
func (c *Client) Clientset() (kubernetes.Interface, error) {
	err := c.connect()
	if err != nil {
		return nil, err
	}

	return c.clientset, nil
}

// resetMapper drops cached discovery so kinds registered by an earlier step resolve.
func (c *Client) resetMapper() bool {
	resettable, ok := c.mapper.(meta.ResettableRESTMapper)
	if !ok {
		return false
	}

	resettable.Reset()

	return true
}
