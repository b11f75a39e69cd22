package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/devantler-tech/k3d-manager/pkg/io/configmanager"
	k3dprovisioner "github.com/devantler-tech/k3d-manager/pkg/svc/provisioner/cluster/k3d"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List k3d clusters",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd, nil)
			if err != nil {
				return err
			}

			return runtimeContainer.Invoke(func(injector di.Injector) error {
				provisioner, resolveErr := di.ResolveProvisioner(injector)
				if resolveErr != nil {
					return resolveErr
				}

				clusters, listErr := provisioner.List(cmd.Context())
				if listErr != nil {
					return fmt.Errorf("list clusters: %w", listErr)
				}

				return renderClusters(cmd.OutOrStdout(), clusters, settings.Output)
			}, di.WithSettings(settings, progressWriter(cmd, settings)))
		},
	}

	addOutputFlag(cmd)

	return cmd
}

func renderClusters(writer io.Writer, clusters []k3dprovisioner.ClusterSummary, output string) error {
	if output != configmanager.OutputText {
		if clusters == nil {
			clusters = []k3dprovisioner.ClusterSummary{}
		}

		return writeStructured(writer, clusters, output)
	}

	if len(clusters) == 0 {
		_, err := fmt.Fprintln(writer, "No clusters found.")
		if err != nil {
			return fmt.Errorf("write clusters: %w", err)
		}

		return nil
	}

	rows := make([][]string, 0, len(clusters))
	for _, cluster := range clusters {
		rows = append(rows, []string{cluster.Name, strconv.Itoa(cluster.Servers), strconv.Itoa(cluster.Agents)})
	}

	err := writeTable(writer, []string{"NAME", "SERVERS", "AGENTS"}, rows)
	if err != nil {
		return fmt.Errorf("write clusters: %w", err)
	}

	return nil
}
