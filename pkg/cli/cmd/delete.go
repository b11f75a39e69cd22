package cmd

import (
	"fmt"

	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/devantler-tech/k3d-manager/pkg/utils/notify"
	"github.com/devantler-tech/k3d-manager/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command.
func NewDeleteCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "delete <name>",
		Short:        "Delete a k3d cluster",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, nil)
			if err != nil {
				return err
			}

			settings.Name = args[0]
			handler := di.WithTimer(deleteCluster)

			return runtimeContainer.Invoke(func(injector di.Injector) error {
				return handler(cmd, injector)
			}, di.WithSettings(settings, progressWriter(cmd, settings)))
		},
	}
}

func deleteCluster(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
	provisioner, err := di.ResolveProvisioner(injector)
	if err != nil {
		return err
	}

	name := cmd.Flags().Arg(0)

	tmr.Start()
	notify.Titlef(cmd.OutOrStdout(), "🗑️", "Deleting cluster %s...", name)

	err = provisioner.Delete(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("delete cluster %s: %w", name, err)
	}

	notify.SuccessWithTimerf(cmd.OutOrStdout(), tmr, "cluster %s deleted", name)

	return nil
}
