// Package cmd provides the k3d-manager command-line interface.
//
// The root command wires these subcommands:
//   - dev: a single-server development cluster
//   - prod: an HA cluster with the full component pipeline
//   - list, delete, info: inspect and remove existing clusters
package cmd
