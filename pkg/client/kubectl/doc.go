// Package kubectl is the resource-management client of the bootstrap pipeline.
//
// It applies multi-document manifests with server-side apply, waits for pods
// selected by a label selector to become Ready, and lists resources by kind.
// Connections are established lazily because the target cluster usually does
// not exist yet when the client is constructed.
package kubectl
