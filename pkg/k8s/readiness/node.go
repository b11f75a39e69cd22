package readiness

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForNodeReady polls until at least one node reports Ready=True.
// List errors are retried until the deadline since the API server may
// still be starting.
func WaitForNodeReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		ready, err := CountReadyNodes(ctx, clientset)
		if err != nil {
			logrus.WithError(err).Debug("node list failed, retrying")

			return false, nil
		}

		return ready > 0, nil
	})
}

// CountReadyNodes returns the number of nodes with condition Ready=True.
func CountReadyNodes(ctx context.Context, clientset kubernetes.Interface) (int, error) {
	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("list nodes: %w", err)
	}

	ready := 0

	for i := range nodes.Items {
		if IsNodeReady(&nodes.Items[i]) {
			ready++
		}
	}

	return ready, nil
}

// IsNodeReady reports whether node has condition Ready=True.
func IsNodeReady(node *corev1.Node) bool {
	idx := slices.IndexFunc(node.Status.Conditions, func(cond corev1.NodeCondition) bool {
		return cond.Type == corev1.NodeReady
	})

	return idx >= 0 && node.Status.Conditions[idx].Status == corev1.ConditionTrue
}
