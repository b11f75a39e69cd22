// Package bootstrap sequences the steps that turn an empty host into a
// provisioned k3d cluster: cluster creation, package installs, manifest
// applies and readiness waits, followed by a post-provision summary.
//
// Steps run strictly in rank order. The first failure aborts the run and the
// results of every step attempted so far are returned with the error.
package bootstrap
