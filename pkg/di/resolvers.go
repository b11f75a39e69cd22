package di

import (
	"fmt"

	"github.com/devantler-tech/k3d-manager/pkg/client/kubectl"
	"github.com/devantler-tech/k3d-manager/pkg/svc/bootstrap"
	k3dprovisioner "github.com/devantler-tech/k3d-manager/pkg/svc/provisioner/cluster/k3d"
	"github.com/devantler-tech/k3d-manager/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveProvisioner retrieves the k3d provisioner.
func ResolveProvisioner(injector Injector) (*k3dprovisioner.Provisioner, error) {
	provisioner, err := do.Invoke[*k3dprovisioner.Provisioner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provisioner dependency: %w", err)
	}

	return provisioner, nil
}

// ResolveKubectlClient retrieves the resource client for the configured cluster.
func ResolveKubectlClient(injector Injector) (kubectl.Interface, error) {
	client, err := do.Invoke[kubectl.Interface](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve kubectl dependency: %w", err)
	}

	return client, nil
}

// ResolveBootstrapper retrieves the bootstrapper. Resolution fails when the
// registered settings do not resolve into a valid plan.
func ResolveBootstrapper(injector Injector) (*bootstrap.Bootstrapper, error) {
	bootstrapper, err := do.Invoke[*bootstrap.Bootstrapper](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve bootstrapper dependency: %w", err)
	}

	return bootstrapper, nil
}

// Handler decorators.

// WithTimer decorates a handler to automatically resolve the timer dependency.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, tmr)
	}
}
