package cmd

import (
	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/spf13/cobra"
)

const prodLongDesc = `Create an HA k3d cluster and install the component stack on top.

Steps run in order: cluster, cert-manager, cert-issuer, ingress-nginx,
monitoring, logging, delivery-controller, namespaces, network-policies,
resource-quotas, rbac and sample-app. Each component uses, in order:
  1. A local chart from --charts-dir (sample-app only)
  2. A values overlay <step>.yaml from --values-dir
  3. Built-in default values or manifests

Without helm on PATH a basic cluster is created and optional components are
skipped.

Settings can also come from K3DM_* environment variables or a k3d-manager.yaml
file in the working directory or ~/.config/k3d-manager.`

// NewProdCmd creates the prod command.
func NewProdCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "prod",
		Short:        "Create a production-like cluster with the full component stack",
		Long:         prodLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd, nil)
			if err != nil {
				return err
			}

			return runBootstrap(cmd, runtimeContainer, settings, v1alpha1.ProfileProd)
		},
	}

	flags := cmd.Flags()
	flags.StringP(flagName, "n", v1alpha1.DefaultProdName, "Cluster name")
	flags.IntP("servers", "s", v1alpha1.DefaultServers, "Number of server nodes")
	flags.IntP("agents", "w", v1alpha1.DefaultAgents, "Number of agent nodes")
	flags.Bool("skip-monitoring", false, "Skip Prometheus and Grafana")
	flags.Bool("skip-logging", false, "Skip Elasticsearch, Fluentd and Kibana")
	flags.Bool("skip-argocd", false, "Skip Argo CD")
	flags.String("values-dir", "", "Directory with per-step values overlays (<step>.yaml)")
	flags.String("charts-dir", "", "Directory with local workload charts")
	flags.Bool("tolerate-failure", false, "Print the access summary even when a step fails")
	addBootstrapFlags(cmd)

	return cmd
}
