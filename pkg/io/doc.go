// Package io groups configuration input for k3d-manager.
//
// Subpackages:
//   - configmanager: flag, environment and config file resolution into settings
package io
