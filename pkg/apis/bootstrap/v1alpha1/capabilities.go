package v1alpha1

import (
	"maps"
	"slices"
	"strings"
)

// Capability names a runtime-discovered fact about an optional dependency.
type Capability string

const (
	// CapabilityPackageManager is true when a usable helm binary answers a version query.
	CapabilityPackageManager Capability = "package-manager"
	// CapabilityContainerRuntime is true when the Docker daemon answers a ping.
	CapabilityContainerRuntime Capability = "container-runtime"
	// CapabilityValuesDir is true when the values overlay directory exists.
	CapabilityValuesDir Capability = "values-dir"

	valuesPrefix = "values/"
	chartPrefix  = "chart/"
)

// ValuesCapability names the capability for the external overlay of a step.
func ValuesCapability(step string) Capability {
	return Capability(valuesPrefix + step)
}

// ChartCapability names the capability for a local chart directory of a workload.
func ChartCapability(workload string) Capability {
	return Capability(chartPrefix + workload)
}

// Capabilities is an immutable set of probed capabilities.
// The zero value reports every capability as unavailable.
type Capabilities struct {
	facts map[Capability]bool
}

// NewCapabilities builds a capability set from probed facts. The map is copied.
func NewCapabilities(facts map[Capability]bool) Capabilities {
	return Capabilities{facts: maps.Clone(facts)}
}

// Has reports whether the capability was probed and found available.
func (c Capabilities) Has(capability Capability) bool {
	return c.facts[capability]
}

// Names returns the sorted names of all probed capabilities, available or not.
func (c Capabilities) Names() []Capability {
	return slices.Sorted(maps.Keys(c.facts))
}

// Equal reports whether two capability sets hold the same facts.
func (c Capabilities) Equal(other Capabilities) bool {
	return maps.Equal(c.facts, other.facts)
}

// String renders the set as name=bool pairs in sorted order.
func (c Capabilities) String() string {
	parts := make([]string, 0, len(c.facts))

	for _, name := range c.Names() {
		state := "false"
		if c.facts[name] {
			state = "true"
		}

		parts = append(parts, string(name)+"="+state)
	}

	return strings.Join(parts, ",")
}
