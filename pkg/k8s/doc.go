// Package k8s provides Kubernetes client configuration helpers.
//
// It builds REST configs from a kubeconfig path and context, and creates the
// typed, dynamic and discovery-backed clients used by the resource manager.
// For readiness polling, see the [readiness] sub-package.
package k8s
