//nolint:gochecknoglobals // export_test.go pattern requires global variables to expose internal functions
package k3dprovisioner

// ParseClusterNodesForTest exposes parseClusterNodes for unit testing.
var ParseClusterNodesForTest = parseClusterNodes

// SleepContextForTest exposes sleepContext for unit testing.
var SleepContextForTest = sleepContext
