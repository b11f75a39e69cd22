// Package utils provides small helpers shared across k3d-manager.
//
//   - envvar: ${VAR} and ~ expansion for user-supplied paths
//   - notify: formatted console messages with symbols, colors and timing
//   - timer: total and per-stage elapsed time
package utils
