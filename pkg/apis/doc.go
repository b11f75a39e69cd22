// Package apis holds the versioned types k3d-manager resolves from user input.
//
//   - bootstrap: plans, feature flags, capabilities and configuration errors
package apis
