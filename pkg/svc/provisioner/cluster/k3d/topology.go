package k3dprovisioner

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/k8s"
	"github.com/devantler-tech/k3d-manager/pkg/svc/template"
	"github.com/k3d-io/k3d/v5/pkg/config/types"
	"github.com/k3d-io/k3d/v5/pkg/config/v1alpha5"
	"sigs.k8s.io/yaml"
)

const (
	// K3sImage is the node image of every rendered cluster.
	K3sImage = "rancher/k3s:v1.28.5-k3s1"
	// RegistryName is the embedded registry created with the cluster.
	RegistryName = "registry.localhost"
	// RegistryHostPort is the host port of the embedded registry.
	RegistryHostPort = 5000

	registryHost     = "0.0.0.0"
	storageDirName   = "k3d-storage"
	storageMountPath = "/var/lib/rancher/k3s/storage"

	filterLoadBalancer = "loadbalancer"
	filterAll          = "all"
	filterServers      = "server:*"
)

// prodPorts are published 1:1 on the load balancer.
var prodPorts = []int{80, 443, 9090, 3000, 8080}

// TopologyOptions holds host-side settings of a rendered topology.
type TopologyOptions struct {
	// ScratchDir receives the storage directory and the rendered config file.
	ScratchDir string
	// Kubeconfig receives the cluster context. Empty selects the default kubeconfig.
	Kubeconfig string
}

// KubeconfigPath is the kubeconfig the cluster context is written to.
func (o TopologyOptions) KubeconfigPath() string {
	if o.Kubeconfig == "" {
		return k8s.DefaultKubeconfigPath()
	}

	return o.Kubeconfig
}

func (o TopologyOptions) scratchDir() string {
	if o.ScratchDir == "" {
		return os.TempDir()
	}

	return o.ScratchDir
}

// StorageDir is the host directory mounted into every node.
func (o TopologyOptions) StorageDir() string {
	return filepath.Join(o.scratchDir(), storageDirName)
}

// ConfigPath is the location of the rendered config file for a cluster.
func (o TopologyOptions) ConfigPath(name string) string {
	return filepath.Join(o.scratchDir(), "k3d-"+name+".yaml")
}

// RenderTopology renders the k3d configuration of plan. It is pure.
func RenderTopology(plan v1alpha1.Plan, opts TopologyOptions) *v1alpha5.SimpleConfig {
	cfg := &v1alpha5.SimpleConfig{
		TypeMeta: types.TypeMeta{
			APIVersion: "k3d.io/v1alpha5",
			Kind:       "Simple",
		},
		ObjectMeta: types.ObjectMeta{Name: plan.Name},
		Servers:    plan.Servers,
		Agents:     plan.Agents,
		Image:      K3sImage,
		Options: v1alpha5.SimpleConfigOptions{
			KubeconfigOptions: v1alpha5.SimpleConfigOptionsKubeconfig{
				UpdateDefaultKubeconfig: opts.Kubeconfig == "",
				SwitchCurrentContext:    true,
			},
		},
	}

	if plan.Profile == v1alpha1.ProfileDev {
		cfg.Ports = []v1alpha5.PortWithNodeFilters{
			loadBalancerPort("8080:80"),
			loadBalancerPort("8443:443"),
		}
		cfg.Options.K3dOptions.Wait = true

		return cfg
	}

	ports := prodPorts
	if plan.Enabled(v1alpha1.FeatureLogging) {
		ports = append(ports[:len(ports):len(ports)], template.KibanaPort)
	}

	for _, port := range ports {
		mapping := strconv.Itoa(port)
		cfg.Ports = append(cfg.Ports, loadBalancerPort(mapping+":"+mapping))
	}

	cfg.Volumes = []v1alpha5.VolumeWithNodeFilters{{
		Volume:      opts.StorageDir() + ":" + storageMountPath,
		NodeFilters: []string{filterAll},
	}}

	cfg.Registries.Create = &v1alpha5.SimpleConfigRegistryCreateConfig{
		Name:     RegistryName,
		Host:     registryHost,
		HostPort: strconv.Itoa(RegistryHostPort),
	}

	cfg.Options.K3sOptions.ExtraArgs = []v1alpha5.K3sArgWithNodeFilters{
		{Arg: "--disable=traefik", NodeFilters: []string{filterServers}},
		{Arg: "--disable=servicelb", NodeFilters: []string{filterServers}},
	}

	return cfg
}

func loadBalancerPort(mapping string) v1alpha5.PortWithNodeFilters {
	return v1alpha5.PortWithNodeFilters{
		Port:        mapping,
		NodeFilters: []string{filterLoadBalancer},
	}
}

// WriteTopology writes cfg as YAML to path.
func WriteTopology(cfg *v1alpha5.SimpleConfig, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal k3d config: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write k3d config %s: %w", path, err)
	}

	return nil
}
