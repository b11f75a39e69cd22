package v1alpha1

import "fmt"

// Profile selects the cluster shape rendered for a plan.
type Profile string

const (
	// ProfileProd renders an HA cluster and runs the full component pipeline.
	ProfileProd Profile = "prod"
	// ProfileDev renders a single-server development cluster and installs nothing on top.
	ProfileDev Profile = "dev"
)

// Set parses a profile from a flag value.
func (p *Profile) Set(value string) error {
	switch Profile(value) {
	case ProfileProd, ProfileDev:
		*p = Profile(value)

		return nil
	default:
		return fmt.Errorf("%w: %q (valid options: %s, %s)", ErrInvalidProfile, value, ProfileProd, ProfileDev)
	}
}

// String returns the profile name.
func (p *Profile) String() string {
	return string(*p)
}

// Type returns the flag type name.
func (p *Profile) Type() string {
	return "Profile"
}

// Feature names an optional component group that a plan can switch on or off.
type Feature string

const (
	// FeatureMonitoring toggles the Prometheus and Grafana stack.
	FeatureMonitoring Feature = "monitoring"
	// FeatureLogging toggles the Elasticsearch, Fluentd and Kibana stack.
	FeatureLogging Feature = "logging"
	// FeatureDeliveryController toggles the Argo CD continuous-delivery controller.
	FeatureDeliveryController Feature = "delivery-controller"
)

// AllFeatures returns every known feature in display order.
func AllFeatures() []Feature {
	return []Feature{FeatureMonitoring, FeatureLogging, FeatureDeliveryController}
}

// Features holds the feature flags of a plan. It is a plain value so copies never alias.
type Features struct {
	Monitoring         bool `json:"monitoring"         yaml:"monitoring"`
	Logging            bool `json:"logging"            yaml:"logging"`
	DeliveryController bool `json:"deliveryController" yaml:"deliveryController"`
}

// Enabled reports whether the named feature is switched on.
func (f Features) Enabled(feature Feature) bool {
	switch feature {
	case FeatureMonitoring:
		return f.Monitoring
	case FeatureLogging:
		return f.Logging
	case FeatureDeliveryController:
		return f.DeliveryController
	default:
		return false
	}
}

// Plan is the immutable bootstrap plan: cluster topology plus feature flags.
type Plan struct {
	Name     string   `json:"name"     yaml:"name"`
	Servers  int      `json:"servers"  yaml:"servers"`
	Agents   int      `json:"agents"   yaml:"agents"`
	Profile  Profile  `json:"profile"  yaml:"profile"`
	Features Features `json:"features" yaml:"features"`
}

// Enabled reports whether the named feature is switched on in the plan.
func (p Plan) Enabled(feature Feature) bool {
	return p.Features.Enabled(feature)
}

// ContextName returns the kubeconfig context k3d creates for the plan's cluster.
func (p Plan) ContextName() string {
	return "k3d-" + p.Name
}
