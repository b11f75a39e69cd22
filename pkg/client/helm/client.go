package helm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/devantler-tech/k3d-manager/pkg/cmd/runner"
	"github.com/sirupsen/logrus"
)

// BinaryName is the package-manager binary looked up on PATH.
const BinaryName = "helm"

var (
	errReleaseNameRequired     = errors.New("helm: release name is required")
	errChartNameRequired       = errors.New("helm: chart name is required")
	errRepositoryEntryRequired = errors.New("helm: repository entry is required")
	errRepositoryNameRequired  = errors.New("helm: repository name and url are required")
	errChartSpecRequired       = errors.New("helm: chart spec is required")
)

// Client runs helm commands against one kubeconfig context.
type Client struct {
	runner      runner.BinaryRunner
	kubeConfig  string
	kubeContext string
	scratchDir  string
}

var _ Interface = (*Client)(nil)

// NewClient creates a helm client that targets the given kubeconfig and context.
func NewClient(kubeConfig, kubeContext string) *Client {
	return NewClientWithRunner(runner.NewExecRunner(nil), kubeConfig, kubeContext)
}

// NewClientWithRunner creates a helm client with a custom binary runner.
func NewClientWithRunner(binaryRunner runner.BinaryRunner, kubeConfig, kubeContext string) *Client {
	return &Client{
		runner:      binaryRunner,
		kubeConfig:  kubeConfig,
		kubeContext: kubeContext,
		scratchDir:  os.TempDir(),
	}
}

// WithScratchDir sets the directory generated values files are written to.
func (c *Client) WithScratchDir(dir string) *Client {
	if dir != "" {
		c.scratchDir = dir
	}

	return c
}

// Version returns the semantic version reported by `helm version --short`.
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	res, err := c.runner.RunBinary(ctx, BinaryName, "version", "--short")
	if err != nil {
		return nil, fmt.Errorf("query helm version: %w", err)
	}

	version, err := ParseVersion(res.Stdout)
	if err != nil {
		return nil, err
	}

	return version, nil
}

// ParseVersion parses helm's short version output, e.g. "v3.14.0+g3fc9f4b".
func ParseVersion(output string) (*semver.Version, error) {
	raw := strings.TrimSpace(output)

	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parse helm version %q: %w", raw, err)
	}

	return version, nil
}

// AddRepository registers a chart repository and refreshes its index.
func (c *Client) AddRepository(ctx context.Context, entry *RepositoryEntry) error {
	if entry == nil {
		return errRepositoryEntryRequired
	}

	if entry.Name == "" || entry.URL == "" {
		return errRepositoryNameRequired
	}

	_, err := c.runner.RunBinary(ctx, BinaryName, "repo", "add", entry.Name, entry.URL, "--force-update")
	if err != nil {
		return fmt.Errorf("add repository %q: %w", entry.Name, err)
	}

	_, err = c.runner.RunBinary(ctx, BinaryName, "repo", "update", entry.Name)
	if err != nil {
		return fmt.Errorf("update repository %q: %w", entry.Name, err)
	}

	return nil
}

// InstallOrUpgradeChart upgrades a release when present and installs it otherwise.
func (c *Client) InstallOrUpgradeChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error) {
	err := validateChartSpec(spec)
	if err != nil {
		return nil, err
	}

	args, cleanup, err := c.upgradeArgs(spec)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	res, err := c.runner.RunBinary(ctx, BinaryName, args...)
	if err != nil {
		return nil, fmt.Errorf("install or upgrade release %q: %w", spec.ReleaseName, err)
	}

	return parseReleaseInfo(res.Stdout, spec), nil
}

func validateChartSpec(spec *ChartSpec) error {
	switch {
	case spec == nil:
		return errChartSpecRequired
	case spec.ReleaseName == "":
		return errReleaseNameRequired
	case spec.ChartName == "":
		return errChartNameRequired
	default:
		return nil
	}
}

func (c *Client) upgradeArgs(spec *ChartSpec) ([]string, func(), error) {
	args := []string{"upgrade", "--install", spec.ReleaseName, spec.ChartName}

	if spec.Namespace != "" {
		args = append(args, "--namespace", spec.Namespace)
	}

	if spec.CreateNamespace {
		args = append(args, "--create-namespace")
	}

	if spec.Version != "" {
		args = append(args, "--version", spec.Version)
	}

	if spec.Atomic {
		args = append(args, "--atomic")
	}

	if spec.Wait {
		args = append(args, "--wait")
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	args = append(args, "--timeout", timeout.String())

	for _, file := range spec.ValueFiles {
		args = append(args, "--values", file)
	}

	cleanup := func() {}

	if len(spec.SetValues) > 0 {
		path, err := writeSetValuesFile(c.scratchDir, spec.ReleaseName, spec.SetValues)
		if err != nil {
			return nil, cleanup, err
		}

		cleanup = func() {
			removeErr := os.Remove(path)
			if removeErr != nil {
				logrus.WithError(removeErr).Debug("failed to remove generated values file")
			}
		}

		args = append(args, "--values", path)
	}

	if c.kubeConfig != "" {
		args = append(args, "--kubeconfig", c.kubeConfig)
	}

	if c.kubeContext != "" {
		args = append(args, "--kube-context", c.kubeContext)
	}

	return append(args, "--output", "json"), cleanup, nil
}

type releaseJSON struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Version   int    `json:"version"`
	Info      struct {
		Status string `json:"status"`
	} `json:"info"`
	Chart struct {
		Metadata struct {
			Name       string `json:"name"`
			Version    string `json:"version"`
			AppVersion string `json:"appVersion"`
		} `json:"metadata"`
	} `json:"chart"`
}

func parseReleaseInfo(output string, spec *ChartSpec) *ReleaseInfo {
	info := &ReleaseInfo{
		Name:      spec.ReleaseName,
		Namespace: spec.Namespace,
		Chart:     spec.ChartName,
	}

	var rel releaseJSON

	err := json.Unmarshal([]byte(strings.TrimSpace(output)), &rel)
	if err != nil {
		logrus.WithError(err).Debug("helm release output is not json")

		return info
	}

	if rel.Name != "" {
		info.Name = rel.Name
	}

	if rel.Namespace != "" {
		info.Namespace = rel.Namespace
	}

	info.Revision = rel.Version
	info.Status = rel.Info.Status

	if rel.Chart.Metadata.Name != "" {
		info.Chart = rel.Chart.Metadata.Name + "-" + rel.Chart.Metadata.Version
	}

	info.AppVersion = rel.Chart.Metadata.AppVersion

	return info
}
