package v1alpha1

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	// MaxNodes is the largest server or agent count a plan accepts.
	MaxNodes = 255

	// DefaultProdName is the default cluster name for the prod profile.
	DefaultProdName = "prod-cluster"
	// DefaultDevName is the default cluster name for the dev profile.
	DefaultDevName = "dev-cluster"
	// DefaultServers is the default server count for the prod profile.
	DefaultServers = 3
	// DefaultAgents is the default agent count for the prod profile.
	DefaultAgents = 3
	// DefaultDevAgents is the default agent count for the dev profile.
	DefaultDevAgents = 2
)

// Options are the raw caller parameters a Plan is resolved from.
type Options struct {
	Name                   string  `mapstructure:"name"`
	Servers                int     `mapstructure:"servers"`
	Agents                 int     `mapstructure:"agents"`
	Profile                Profile `mapstructure:"profile"`
	SkipMonitoring         bool    `mapstructure:"skip-monitoring"`
	SkipLogging            bool    `mapstructure:"skip-logging"`
	SkipDeliveryController bool    `mapstructure:"skip-argocd"`
}

// Resolve validates raw options and builds the immutable Plan.
// It has no side effects.
func Resolve(opts Options) (Plan, error) {
	profile := opts.Profile
	if profile == "" {
		profile = ProfileProd
	}

	if profile != ProfileProd && profile != ProfileDev {
		return Plan{}, &ConfigError{Field: "profile", Value: opts.Profile, Reason: "unknown profile"}
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return Plan{}, &ConfigError{Field: "name", Value: opts.Name, Reason: "must not be empty"}
	}

	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return Plan{}, &ConfigError{Field: "name", Value: name, Reason: strings.Join(errs, "; ")}
	}

	if opts.Servers < 1 || opts.Servers > MaxNodes {
		return Plan{}, &ConfigError{
			Field:  "servers",
			Value:  opts.Servers,
			Reason: "must be between 1 and 255",
		}
	}

	if opts.Agents < 0 || opts.Agents > MaxNodes {
		return Plan{}, &ConfigError{
			Field:  "agents",
			Value:  opts.Agents,
			Reason: "must be between 0 and 255",
		}
	}

	plan := Plan{
		Name:    name,
		Servers: opts.Servers,
		Agents:  opts.Agents,
		Profile: profile,
	}

	// The dev profile never installs components on top of the cluster.
	if profile == ProfileProd {
		plan.Features = Features{
			Monitoring:         !opts.SkipMonitoring,
			Logging:            !opts.SkipLogging,
			DeliveryController: !opts.SkipDeliveryController,
		}
	}

	return plan, nil
}
