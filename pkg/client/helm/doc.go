// Package helm drives the helm binary for repository registration and
// install-or-upgrade of charts, and validates local chart directories with the
// helm chart loader.
package helm
