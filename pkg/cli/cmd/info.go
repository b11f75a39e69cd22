package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/devantler-tech/k3d-manager/pkg/io/configmanager"
	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

const nodeRoleLabelPrefix = "node-role.kubernetes.io/"

// ResourceGetter lists cluster objects by kind.
type ResourceGetter interface {
	Get(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error)
}

// ClusterInfo is the rendered view of a running cluster.
type ClusterInfo struct {
	Cluster  string        `json:"cluster"  yaml:"cluster"`
	Nodes    []NodeInfo    `json:"nodes"    yaml:"nodes"`
	Pods     []PodInfo     `json:"pods"     yaml:"pods"`
	Services []ServiceInfo `json:"services" yaml:"services"`
}

// NodeInfo describes one node.
type NodeInfo struct {
	Name  string `json:"name"  yaml:"name"`
	Ready bool   `json:"ready" yaml:"ready"`
	Roles string `json:"roles" yaml:"roles"`
}

// PodInfo describes one pod.
type PodInfo struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name"      yaml:"name"`
	Phase     string `json:"phase"     yaml:"phase"`
}

// ServiceInfo describes one service.
type ServiceInfo struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name"      yaml:"name"`
	Type      string `json:"type"      yaml:"type"`
	ClusterIP string `json:"clusterIP" yaml:"clusterIP"`
}

// NewInfoCmd creates the info command.
func NewInfoCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "info <name>",
		Short:        "Show the nodes, pods and services of a cluster",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, nil)
			if err != nil {
				return err
			}

			settings.Name = args[0]

			return runtimeContainer.Invoke(func(injector di.Injector) error {
				client, resolveErr := di.ResolveKubectlClient(injector)
				if resolveErr != nil {
					return resolveErr
				}

				info, collectErr := CollectClusterInfo(cmd.Context(), client, args[0])
				if collectErr != nil {
					return collectErr
				}

				return renderClusterInfo(cmd.OutOrStdout(), info, settings.Output)
			}, di.WithSettings(settings, progressWriter(cmd, settings)))
		},
	}

	addOutputFlag(cmd)
	addKubeconfigFlag(cmd)

	return cmd
}

// CollectClusterInfo lists nodes, pods and services of the cluster behind getter.
func CollectClusterInfo(ctx context.Context, getter ResourceGetter, cluster string) (ClusterInfo, error) {
	info := ClusterInfo{Cluster: cluster}

	nodes, err := getter.Get(ctx, "nodes", "")
	if err != nil {
		return info, fmt.Errorf("get nodes: %w", err)
	}

	for i := range nodes {
		var node corev1.Node

		err = runtime.DefaultUnstructuredConverter.FromUnstructured(nodes[i].Object, &node)
		if err != nil {
			return info, fmt.Errorf("decode node %s: %w", nodes[i].GetName(), err)
		}

		info.Nodes = append(info.Nodes, NodeInfo{
			Name:  node.Name,
			Ready: readiness.IsNodeReady(&node),
			Roles: nodeRoles(node.Labels),
		})
	}

	pods, err := getter.Get(ctx, "pods", "")
	if err != nil {
		return info, fmt.Errorf("get pods: %w", err)
	}

	for i := range pods {
		phase, _, _ := unstructured.NestedString(pods[i].Object, "status", "phase")
		info.Pods = append(info.Pods, PodInfo{
			Namespace: pods[i].GetNamespace(),
			Name:      pods[i].GetName(),
			Phase:     phase,
		})
	}

	services, err := getter.Get(ctx, "services", "")
	if err != nil {
		return info, fmt.Errorf("get services: %w", err)
	}

	for i := range services {
		serviceType, _, _ := unstructured.NestedString(services[i].Object, "spec", "type")
		clusterIP, _, _ := unstructured.NestedString(services[i].Object, "spec", "clusterIP")
		info.Services = append(info.Services, ServiceInfo{
			Namespace: services[i].GetNamespace(),
			Name:      services[i].GetName(),
			Type:      serviceType,
			ClusterIP: clusterIP,
		})
	}

	return info, nil
}

func nodeRoles(labels map[string]string) string {
	var roles []string

	for label := range labels {
		if role, ok := strings.CutPrefix(label, nodeRoleLabelPrefix); ok && role != "" {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		return "<none>"
	}

	slices.Sort(roles)

	return strings.Join(roles, ",")
}

func renderClusterInfo(writer io.Writer, info ClusterInfo, output string) error {
	if output != configmanager.OutputText {
		return writeStructured(writer, info, output)
	}

	nodes := make([][]string, 0, len(info.Nodes))
	for _, node := range info.Nodes {
		status := "NotReady"
		if node.Ready {
			status = "Ready"
		}

		nodes = append(nodes, []string{node.Name, status, node.Roles})
	}

	pods := make([][]string, 0, len(info.Pods))
	for _, pod := range info.Pods {
		pods = append(pods, []string{pod.Namespace, pod.Name, pod.Phase})
	}

	services := make([][]string, 0, len(info.Services))
	for _, service := range info.Services {
		services = append(services, []string{service.Namespace, service.Name, service.Type, service.ClusterIP})
	}

	sections := []struct {
		title  string
		header []string
		rows   [][]string
	}{
		{"Nodes", []string{"NAME", "STATUS", "ROLES"}, nodes},
		{"Pods", []string{"NAMESPACE", "NAME", "PHASE"}, pods},
		{"Services", []string{"NAMESPACE", "NAME", "TYPE", "CLUSTER IP"}, services},
	}

	_, err := fmt.Fprintf(writer, "Cluster: %s\n", info.Cluster)
	if err != nil {
		return fmt.Errorf("write cluster info: %w", err)
	}

	for _, section := range sections {
		_, err = fmt.Fprintf(writer, "\n%s:\n", section.title)
		if err != nil {
			return fmt.Errorf("write cluster info: %w", err)
		}

		err = writeTable(writer, section.header, section.rows)
		if err != nil {
			return fmt.Errorf("write %s: %w", strings.ToLower(section.title), err)
		}
	}

	return nil
}
