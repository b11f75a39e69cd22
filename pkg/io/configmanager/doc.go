// Package configmanager loads command settings from flags, K3DM_ environment
// variables and an optional k3d-manager.yaml file, in that order of precedence.
package configmanager
