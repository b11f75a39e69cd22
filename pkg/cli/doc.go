// Package cli contains the command tree and its terminal error handling.
//
//   - cli/cmd: root, dev, prod, list, delete and info commands
//   - cli/ui/errorhandler: stderr normalization and exit codes
package cli
