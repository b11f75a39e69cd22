// Package capability probes the host environment for the collaborators and
// overlay sources a bootstrap run can use. Probes are fail-closed: anything
// that cannot be confirmed is reported as unavailable.
package capability
