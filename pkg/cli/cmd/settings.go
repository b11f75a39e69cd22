package cmd

import (
	"fmt"
	"io"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/io/configmanager"
	"github.com/devantler-tech/k3d-manager/pkg/utils/notify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Shared flag names.
const (
	flagName       = "name"
	flagOutput     = "output"
	flagTimeout    = "timeout"
	flagScratchDir = "scratch-dir"
	flagKubeconfig = "kubeconfig"
)

// aliases maps a command-specific flag onto the settings key it feeds.
type aliases map[string]string

// loadSettings resolves the settings of cmd from its flags, K3DM_* environment
// variables and the k3d-manager config file.
func loadSettings(cmd *cobra.Command, flagAliases aliases) (*configmanager.Settings, error) {
	manager, err := configmanager.NewCommandConfigManager(cmd)
	if err != nil {
		return nil, err
	}

	for key, flag := range flagAliases {
		err = manager.BindFlagAs(cmd.Flags(), key, flag)
		if err != nil {
			return nil, err
		}
	}

	settings, err := manager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if settings.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if settings.Output == configmanager.OutputText && manager.ConfigFileUsed() != "" {
		notify.Infof(cmd.OutOrStdout(), "using config file %s", manager.ConfigFileUsed())
	}

	return settings, nil
}

// progressWriter keeps stdout for the rendered result when output is structured.
func progressWriter(cmd *cobra.Command, settings *configmanager.Settings) io.Writer {
	if settings.Output != configmanager.OutputText {
		return cmd.ErrOrStderr()
	}

	return cmd.OutOrStdout()
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(
		flagOutput,
		"o",
		configmanager.OutputText,
		fmt.Sprintf("Output format (%s, %s, %s)",
			configmanager.OutputText, configmanager.OutputYAML, configmanager.OutputJSON),
	)
}

func addKubeconfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagKubeconfig, "k", "", "Path to the kubeconfig file (defaults to $KUBECONFIG or ~/.kube/config)")
}

func addBootstrapFlags(cmd *cobra.Command) {
	addOutputFlag(cmd)
	addKubeconfigFlag(cmd)
	cmd.Flags().Duration(flagTimeout, 0, "Override every readiness wait timeout (0 keeps the per-step defaults)")
	cmd.Flags().String(flagScratchDir, "", "Directory for generated topology and values files (defaults to the temp dir)")
}

func resolvePlan(settings *configmanager.Settings, profile v1alpha1.Profile) (v1alpha1.Plan, error) {
	settings.Profile = profile

	plan, err := v1alpha1.Resolve(settings.Options)
	if err != nil {
		return v1alpha1.Plan{}, fmt.Errorf("resolve plan: %w", err)
	}

	return plan, nil
}
