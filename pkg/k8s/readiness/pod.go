package readiness

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForPodsReady polls until at least one pod matches the label selector in the
// namespace and every matching pod is Ready. Pods that ran to completion count as ready.
func WaitForPodsReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, selector string,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		return podsReady(ctx, clientset, namespace, selector)
	})
}

func podsReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, selector string,
) (bool, error) {
	pods, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		// Continue polling on transient errors
		return false, nil //nolint:nilerr // returning nil to continue polling
	}

	if len(pods.Items) == 0 {
		return false, nil
	}

	for i := range pods.Items {
		if !isPodReady(&pods.Items[i]) {
			return false, nil
		}
	}

	return true, nil
}

// isPodReady returns true if the pod succeeded or has condition Ready=True.
func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase == corev1.PodSucceeded {
		return true
	}

	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}

	return false
}
