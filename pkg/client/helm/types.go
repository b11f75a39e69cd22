package helm

import (
	"context"
	"time"

	"github.com/Masterminds/semver/v3"
)

// DefaultTimeout defines the fallback chart installation timeout.
const DefaultTimeout = 5 * time.Minute

// ChartSpec describes a chart release to install or upgrade.
type ChartSpec struct {
	ReleaseName string
	// ChartName is a repository reference (repo/chart), an OCI reference or a local directory.
	ChartName string
	Namespace string
	Version   string

	CreateNamespace bool
	Atomic          bool
	Wait            bool
	Timeout         time.Duration

	// ValueFiles are passed with -f in order.
	ValueFiles []string
	// SetValues are strvals expressions rendered into a generated values file
	// that is applied after ValueFiles.
	SetValues map[string]string
}

// RepositoryEntry describes a chart repository to register before installing.
type RepositoryEntry struct {
	Name string
	URL  string
}

// ReleaseInfo captures metadata about a release after an operation.
type ReleaseInfo struct {
	Name       string
	Namespace  string
	Revision   int
	Status     string
	Chart      string
	AppVersion string
}

// Interface defines the package-manager operations the bootstrap pipeline needs.
//
//go:generate mockery --name=Interface --output=. --filename=mocks.go --inpackage --with-expecter
type Interface interface {
	Version(ctx context.Context) (*semver.Version, error)
	AddRepository(ctx context.Context, entry *RepositoryEntry) error
	InstallOrUpgradeChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error)
}
