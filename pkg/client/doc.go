// Package client wraps the collaborators the bootstrap pipeline drives.
//
//   - helm: repository registration, upgrade --install and version probing
//   - kubectl: server-side apply, readiness waits and listing by kind
package client
