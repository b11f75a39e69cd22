// Package runner executes Cobra commands and external binaries while capturing their output.
package runner
