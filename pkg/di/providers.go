package di

import (
	"io"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/client/helm"
	"github.com/devantler-tech/k3d-manager/pkg/client/kubectl"
	"github.com/devantler-tech/k3d-manager/pkg/io/configmanager"
	"github.com/devantler-tech/k3d-manager/pkg/k8s"
	"github.com/devantler-tech/k3d-manager/pkg/svc/bootstrap"
	"github.com/devantler-tech/k3d-manager/pkg/svc/detector/capability"
	k3dprovisioner "github.com/devantler-tech/k3d-manager/pkg/svc/provisioner/cluster/k3d"
	"github.com/devantler-tech/k3d-manager/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

// OutputWriterName names the writer progress and summaries are written to.
const OutputWriterName = "output-writer"

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// Everything except the timer depends on the settings registered by WithSettings.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		providePlan,
		provideHelmClient,
		provideKubectlClient,
		provideProvisioner,
		provideCapabilityProber,
		provideSequencer,
		provideBootstrapper,
	)
}

// WithSettings returns a module registering the command settings and the
// writer progress output goes to.
func WithSettings(settings *configmanager.Settings, writer io.Writer) Module {
	return func(i Injector) error {
		do.ProvideValue(i, settings)
		do.ProvideNamedValue(i, OutputWriterName, writer)

		return nil
	}
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func providePlan(i Injector) error {
	do.Provide(i, func(i Injector) (v1alpha1.Plan, error) {
		settings, err := do.Invoke[*configmanager.Settings](i)
		if err != nil {
			return v1alpha1.Plan{}, err
		}

		return v1alpha1.Resolve(settings.Options)
	})

	return nil
}

func kubeconfigPath(settings *configmanager.Settings) string {
	if settings.Kubeconfig != "" {
		return settings.Kubeconfig
	}

	return k8s.DefaultKubeconfigPath()
}

func contextName(settings *configmanager.Settings) string {
	return v1alpha1.Plan{Name: settings.Name}.ContextName()
}

func provideHelmClient(i Injector) error {
	do.Provide(i, func(i Injector) (helm.Interface, error) {
		settings, err := do.Invoke[*configmanager.Settings](i)
		if err != nil {
			return nil, err
		}

		client := helm.NewClient(kubeconfigPath(settings), contextName(settings)).
			WithScratchDir(settings.ScratchDir)

		return client, nil
	})

	return nil
}

func provideKubectlClient(i Injector) error {
	do.Provide(i, func(i Injector) (kubectl.Interface, error) {
		settings, err := do.Invoke[*configmanager.Settings](i)
		if err != nil {
			return nil, err
		}

		return kubectl.NewClient(kubeconfigPath(settings), contextName(settings)), nil
	})

	return nil
}

func provideProvisioner(i Injector) error {
	do.Provide(i, func(i Injector) (*k3dprovisioner.Provisioner, error) {
		settings, err := do.Invoke[*configmanager.Settings](i)
		if err != nil {
			return nil, err
		}

		writer, err := do.InvokeNamed[io.Writer](i, OutputWriterName)
		if err != nil {
			return nil, err
		}

		return k3dprovisioner.NewProvisioner(k3dprovisioner.Options{
			Topology: k3dprovisioner.TopologyOptions{
				ScratchDir: settings.ScratchDir,
				Kubeconfig: settings.Kubeconfig,
			},
			Settle: settings.Settle,
			Output: writer,
		}), nil
	})

	return nil
}

func provideCapabilityProber(i Injector) error {
	do.Provide(i, func(i Injector) (*capability.Prober, error) {
		packages, err := do.Invoke[helm.Interface](i)
		if err != nil {
			return nil, err
		}

		// An unreachable daemon is a missing capability, not a wiring failure.
		pinger, err := capability.NewDockerPinger()
		if err != nil {
			logrus.WithError(err).Debug("docker client unavailable")

			return capability.NewProber(packages, nil), nil
		}

		return capability.NewProber(packages, pinger), nil
	})

	return nil
}

func provideSequencer(i Injector) error {
	do.Provide(i, func(i Injector) (*bootstrap.Sequencer, error) {
		settings, err := do.Invoke[*configmanager.Settings](i)
		if err != nil {
			return nil, err
		}

		plan, err := do.Invoke[v1alpha1.Plan](i)
		if err != nil {
			return nil, err
		}

		provisioner, err := do.Invoke[*k3dprovisioner.Provisioner](i)
		if err != nil {
			return nil, err
		}

		resources, err := do.Invoke[kubectl.Interface](i)
		if err != nil {
			return nil, err
		}

		packages, err := do.Invoke[helm.Interface](i)
		if err != nil {
			return nil, err
		}

		writer, err := do.InvokeNamed[io.Writer](i, OutputWriterName)
		if err != nil {
			return nil, err
		}

		return bootstrap.NewSequencer(
			bootstrap.StepsFor(plan.Profile),
			bootstrap.Collaborators{
				Provisioner: provisioner,
				Resources:   resources,
				Packages:    packages,
			},
			bootstrap.SequencerOptions{
				Sources:     sourcesFor(settings),
				WaitTimeout: settings.Timeout,
				Writer:      writer,
			},
		), nil
	})

	return nil
}

func provideBootstrapper(i Injector) error {
	do.Provide(i, func(i Injector) (*bootstrap.Bootstrapper, error) {
		settings, err := do.Invoke[*configmanager.Settings](i)
		if err != nil {
			return nil, err
		}

		prober, err := do.Invoke[*capability.Prober](i)
		if err != nil {
			return nil, err
		}

		sequencer, err := do.Invoke[*bootstrap.Sequencer](i)
		if err != nil {
			return nil, err
		}

		return bootstrap.NewBootstrapper(prober, sequencer, sourcesFor(settings), settings.TolerateFailure), nil
	})

	return nil
}

func sourcesFor(settings *configmanager.Settings) bootstrap.Sources {
	return bootstrap.Sources{ValuesDir: settings.ValuesDir, ChartsDir: settings.ChartsDir}
}
