package k3dprovisioner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/cmd/runner"
	"github.com/devantler-tech/k3d-manager/pkg/k8s"
	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
	clustercommand "github.com/k3d-io/k3d/v5/cmd/cluster"
	kubeconfigcommand "github.com/k3d-io/k3d/v5/cmd/kubeconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	// DefaultSettle is the fixed pause between cluster creation and the node poll.
	DefaultSettle = 10 * time.Second
	// DefaultNodeTimeout bounds the wait for the first Ready node.
	DefaultNodeTimeout = 2 * time.Minute
)

// ErrContainerRuntimeUnavailable is returned when provisioning is attempted
// without a reachable container runtime.
var ErrContainerRuntimeUnavailable = errors.New("container runtime unavailable")

//nolint:gochecknoglobals // k3d logs through the standard logrus logger
var logrusConfigOnce sync.Once

// NodeWaiter blocks until the cluster behind contextName in kubeconfig has a Ready node.
type NodeWaiter func(ctx context.Context, kubeconfig, contextName string, timeout time.Duration) error

// Options configures a Provisioner. Zero values select the defaults.
type Options struct {
	Topology    TopologyOptions
	Settle      time.Duration
	NodeTimeout time.Duration
	Runner      runner.CommandRunner
	NodeWaiter  NodeWaiter
	// Output receives k3d's log and command output. Defaults to os.Stdout.
	Output io.Writer
}

// Provisioner creates, deletes and lists k3d clusters.
type Provisioner struct {
	topology    TopologyOptions
	settle      time.Duration
	nodeTimeout time.Duration
	runner      runner.CommandRunner
	listRunner  runner.CommandRunner
	waitNodes   NodeWaiter
}

// NewProvisioner constructs a command-backed provisioner.
func NewProvisioner(opts Options) *Provisioner {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	// k3d reports progress through the standard logrus logger.
	logrus.SetOutput(output)
	logrusConfigOnce.Do(func() {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			TimestampFormat: "2006-01-02T15:04:05Z",
		})
	})

	prov := &Provisioner{
		topology:    opts.Topology,
		settle:      opts.Settle,
		nodeTimeout: opts.NodeTimeout,
		runner:      opts.Runner,
		listRunner:  opts.Runner,
		waitNodes:   opts.NodeWaiter,
	}

	if prov.settle == 0 {
		prov.settle = DefaultSettle
	}

	if prov.nodeTimeout == 0 {
		prov.nodeTimeout = DefaultNodeTimeout
	}

	if prov.runner == nil {
		prov.runner = runner.NewCobraCommandRunner(output, nil)
		prov.listRunner = runner.NewCobraCommandRunner(io.Discard, io.Discard)
	}

	if prov.waitNodes == nil {
		prov.waitNodes = waitForNodesInContext
	}

	return prov
}

// Provision renders the plan's topology, creates the cluster and blocks
// until it has a schedulable node.
func (p *Provisioner) Provision(ctx context.Context, plan v1alpha1.Plan, caps v1alpha1.Capabilities) error {
	if !caps.Has(v1alpha1.CapabilityContainerRuntime) {
		return ErrContainerRuntimeUnavailable
	}

	cfg := RenderTopology(plan, p.topology)
	configPath := p.topology.ConfigPath(plan.Name)

	err := WriteTopology(cfg, configPath)
	if err != nil {
		return err
	}

	if plan.Profile != v1alpha1.ProfileDev {
		err = os.MkdirAll(p.topology.StorageDir(), 0o750)
		if err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	err = p.Create(ctx, plan.Name, configPath)
	if err != nil {
		return err
	}

	err = sleepContext(ctx, p.settle)
	if err != nil {
		return err
	}

	err = p.exportKubeconfig(ctx, plan.Name)
	if err != nil {
		return err
	}

	err = p.waitNodes(ctx, p.topology.KubeconfigPath(), plan.ContextName(), p.nodeTimeout)
	if err != nil {
		return fmt.Errorf("wait for cluster nodes: %w", err)
	}

	return nil
}

// Create runs k3d cluster create for name with the given config file.
func (p *Provisioner) Create(ctx context.Context, name, configPath string) error {
	return p.runLifecycleCommand(
		ctx,
		clustercommand.NewCmdClusterCreate,
		appendConfigFlag(nil, configPath),
		name,
		"cluster create",
	)
}

// Delete removes the named cluster.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	return p.runLifecycleCommand(ctx, clustercommand.NewCmdClusterDelete, nil, name, "cluster delete")
}

// exportKubeconfig merges the cluster's context into a non-default kubeconfig.
// The default kubeconfig is already updated by cluster create.
func (p *Provisioner) exportKubeconfig(ctx context.Context, name string) error {
	if p.topology.Kubeconfig == "" {
		return nil
	}

	return p.runLifecycleCommand(
		ctx,
		kubeconfigcommand.NewCmdKubeconfigMerge,
		[]string{"--output", p.topology.Kubeconfig, "--kubeconfig-switch-context"},
		name,
		"kubeconfig merge",
	)
}

func appendConfigFlag(args []string, configPath string) []string {
	if configPath == "" {
		return args
	}

	return append(args, "--config", configPath)
}

func (p *Provisioner) runLifecycleCommand(
	ctx context.Context,
	builder func() *cobra.Command,
	args []string,
	name string,
	errorPrefix string,
) error {
	if name != "" {
		args = append(args, name)
	}

	logrus.WithField("args", args).Debugf("k3d %s", errorPrefix)

	_, runErr := p.runner.Run(ctx, builder(), args)
	if runErr != nil {
		return fmt.Errorf("%s: %w", errorPrefix, runErr)
	}

	return nil
}

func sleepContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("cluster settle interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func waitForNodesInContext(ctx context.Context, kubeconfig, contextName string, timeout time.Duration) error {
	clientset, err := k8s.NewClientset(kubeconfig, contextName)
	if err != nil {
		return fmt.Errorf("create clientset: %w", err)
	}

	err = readiness.WaitForNodeReady(ctx, clientset, timeout)
	if err != nil {
		return fmt.Errorf("wait for node ready: %w", err)
	}

	return nil
}
