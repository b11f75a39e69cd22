// Package v1alpha1 contains the bootstrap plan and capability types shared by the
// orchestrator, the capability prober and the cluster provisioner.
//
// A Plan is resolved once from raw Options with Resolve and is treated as an
// immutable value for the rest of a run. Capabilities are discovered at runtime
// and are likewise read-only once probed.
package v1alpha1
