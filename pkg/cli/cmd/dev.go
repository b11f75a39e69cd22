package cmd

import (
	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/spf13/cobra"
)

// NewDevCmd creates the dev command.
func NewDevCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Create a single-server development cluster",
		Long: `Create a single-server k3d cluster for local development.

The load balancer publishes 8080:80 and 8443:443. Nothing is installed on
top of the cluster.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd, aliases{"agents": "workers"})
			if err != nil {
				return err
			}

			settings.Servers = 1

			return runBootstrap(cmd, runtimeContainer, settings, v1alpha1.ProfileDev)
		},
	}

	cmd.Flags().StringP(flagName, "n", v1alpha1.DefaultDevName, "Cluster name")
	cmd.Flags().IntP("workers", "w", v1alpha1.DefaultDevAgents, "Number of agent nodes")
	addBootstrapFlags(cmd)

	return cmd
}
