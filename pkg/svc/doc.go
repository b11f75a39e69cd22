// Package svc provides the service layer behind the CLI.
//
// Subpackages:
//   - bootstrap: step catalogue, payload fallback, sequencing and summaries
//   - detector/capability: fail-closed probes of the local environment
//   - provisioner/cluster/k3d: topology rendering and k3d cluster lifecycle
//   - template: built-in manifests and default chart values
package svc
