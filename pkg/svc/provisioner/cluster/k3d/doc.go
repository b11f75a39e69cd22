// Package k3dprovisioner renders k3d cluster topologies and drives the k3d
// cluster lifecycle through k3d's own Cobra commands.
package k3dprovisioner
