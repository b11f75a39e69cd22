package capability

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/docker/docker/api/types"
	dockerclient "github.com/docker/docker/client"
	"github.com/sirupsen/logrus"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// MinPackageManagerVersion is the lowest helm version treated as usable.
const MinPackageManagerVersion = ">= 3.0.0"

var (
	errNoVersionSource   = errors.New("no package manager configured")
	errNoRuntime         = errors.New("no container runtime client configured")
	errNotDirectory      = errors.New("not a directory")
	errEmptyPath         = errors.New("path not set")
	errUnsupportedVersion = errors.New("unsupported version")
)

// VersionSource reports the version of the package manager binary.
type VersionSource interface {
	Version(ctx context.Context) (*semver.Version, error)
}

// RuntimePinger checks that a container runtime daemon answers.
type RuntimePinger interface {
	Ping(ctx context.Context) (types.Ping, error)
}

// Targets names the overlay files and chart directories to probe.
type Targets struct {
	// ValuesDir holds <step>.yaml overlays.
	ValuesDir string
	// Steps are the step names whose overlays are probed.
	Steps []string
	// ChartsDir holds one chart directory per workload.
	ChartsDir string
	// Workloads are the workload names whose chart directories are probed.
	Workloads []string
}

// Prober detects available capabilities.
type Prober struct {
	packages VersionSource
	runtime  RuntimePinger
}

// NewProber creates a prober. Either collaborator may be nil, in which case
// the matching capability is reported as unavailable.
func NewProber(packages VersionSource, runtime RuntimePinger) *Prober {
	return &Prober{packages: packages, runtime: runtime}
}

// NewDockerPinger creates an environment-configured docker client.
func NewDockerPinger() (*dockerclient.Client, error) {
	client, err := dockerclient.NewClientWithOpts(
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	return client, nil
}

// OverlayPath returns the overlay file of step inside valuesDir.
func OverlayPath(valuesDir, step string) string {
	return filepath.Join(valuesDir, step+".yaml")
}

// ChartPath returns the chart directory of workload inside chartsDir.
func ChartPath(chartsDir, workload string) string {
	return filepath.Join(chartsDir, workload)
}

// Probe returns the capability set of the current environment. It never
// fails; every probe error is logged at debug level and reported as false.
func (p *Prober) Probe(ctx context.Context, targets Targets) v1alpha1.Capabilities {
	facts := map[v1alpha1.Capability]bool{}

	record := func(name v1alpha1.Capability, err error) {
		if err != nil {
			logrus.WithField("capability", string(name)).WithError(err).Debug("capability unavailable")
		}

		facts[name] = err == nil
	}

	record(v1alpha1.CapabilityPackageManager, p.probePackageManager(ctx))
	record(v1alpha1.CapabilityContainerRuntime, p.probeRuntime(ctx))

	valuesDirErr := probeDir(targets.ValuesDir)
	record(v1alpha1.CapabilityValuesDir, valuesDirErr)

	for _, step := range targets.Steps {
		err := valuesDirErr
		if err == nil {
			err = probeOverlay(OverlayPath(targets.ValuesDir, step))
		}

		record(v1alpha1.ValuesCapability(step), err)
	}

	for _, workload := range targets.Workloads {
		err := probeDir(targets.ChartsDir)
		if err == nil {
			_, err = helm.LoadChartDir(ChartPath(targets.ChartsDir, workload))
		}

		record(v1alpha1.ChartCapability(workload), err)
	}

	return v1alpha1.NewCapabilities(facts)
}

func (p *Prober) probePackageManager(ctx context.Context) error {
	if p.packages == nil {
		return errNoVersionSource
	}

	version, err := p.packages.Version(ctx)
	if err != nil {
		return fmt.Errorf("query version: %w", err)
	}

	constraint, err := semver.NewConstraint(MinPackageManagerVersion)
	if err != nil {
		return fmt.Errorf("parse version constraint: %w", err)
	}

	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s does not satisfy %s", errUnsupportedVersion, version, MinPackageManagerVersion)
	}

	return nil
}

func (p *Prober) probeRuntime(ctx context.Context) error {
	if p.runtime == nil {
		return errNoRuntime
	}

	_, err := p.runtime.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping container runtime: %w", err)
	}

	return nil
}

func probeDir(path string) error {
	if path == "" {
		return errEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, errNotDirectory)
	}

	return nil
}

// probeOverlay accepts single and multi-document YAML files.
func probeOverlay(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // overlay paths are operator supplied
	if err != nil {
		return fmt.Errorf("read overlay: %w", err)
	}

	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))

	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("split overlay %s: %w", path, err)
		}

		var parsed any

		err = yaml.Unmarshal(doc, &parsed)
		if err != nil {
			return fmt.Errorf("parse overlay %s: %w", path, err)
		}
	}
}
