package cmd

import (
	"context"
	"fmt"

	"github.com/devantler-tech/k3d-manager/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// VerboseFlagName is the persistent flag that raises logging to debug level.
const VerboseFlagName = "verbose"

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return newRootCmd(di.NewRuntime(), version, commit, date)
}

func newRootCmd(runtimeContainer *di.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k3d-manager",
		Short: "Bootstrap local k3d clusters with a curated component stack",
		Long: `k3d-manager creates local k3d clusters and installs a curated stack on top:
certificates, ingress, monitoring, logging, continuous delivery, namespace
policies and a sample application. Components degrade to built-in defaults
when local overlays or charts are missing, and to a basic cluster when helm
is not installed.`,
		Args:              cobra.NoArgs,
		RunE:              handleRootRunE,
		PersistentPreRunE: configureLogging,
		SilenceUsage:      true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().BoolP(VerboseFlagName, "v", false, "Log probe results and collaborator commands")

	cmd.AddCommand(NewProdCmd(runtimeContainer))
	cmd.AddCommand(NewDevCmd(runtimeContainer))
	cmd.AddCommand(NewListCmd(runtimeContainer))
	cmd.AddCommand(NewDeleteCmd(runtimeContainer))
	cmd.AddCommand(NewInfoCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

func configureLogging(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool(VerboseFlagName)
	if err != nil {
		return fmt.Errorf("read --%s: %w", VerboseFlagName, err)
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	return nil
}
