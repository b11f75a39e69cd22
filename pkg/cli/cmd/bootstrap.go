package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/di"
	"github.com/devantler-tech/k3d-manager/pkg/io/configmanager"
	"github.com/devantler-tech/k3d-manager/pkg/svc/bootstrap"
	"github.com/devantler-tech/k3d-manager/pkg/utils/notify"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// runBootstrap provisions the plan resolved from settings and renders the report.
// Progress goes to stdout for text output and to stderr otherwise so that
// structured output stays parseable.
func runBootstrap(
	cmd *cobra.Command,
	runtimeContainer *di.Runtime,
	settings *configmanager.Settings,
	profile v1alpha1.Profile,
) error {
	plan, err := resolvePlan(settings, profile)
	if err != nil {
		return err
	}

	progress := notify.NewStageSeparatingWriter(progressWriter(cmd, settings))

	return runtimeContainer.Invoke(func(injector di.Injector) error {
		bootstrapper, resolveErr := di.ResolveBootstrapper(injector)
		if resolveErr != nil {
			return resolveErr
		}

		report, runErr := bootstrapper.Run(cmd.Context(), plan)

		renderErr := renderReport(cmd.OutOrStdout(), report, settings.Output)
		if runErr != nil {
			return fmt.Errorf("bootstrap %s: %w", plan.Name, runErr)
		}

		return renderErr
	}, di.WithSettings(settings, progress))
}

func renderReport(writer io.Writer, report *bootstrap.Report, output string) error {
	if report == nil {
		return nil
	}

	switch output {
	case configmanager.OutputYAML, configmanager.OutputJSON:
		return writeStructured(writer, report, output)
	default:
		if report.Summary == nil {
			return nil
		}

		err := bootstrap.WriteSummary(writer, *report.Summary)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}

		return nil
	}
}

func writeStructured(writer io.Writer, value any, output string) error {
	var (
		data []byte
		err  error
	)

	if output == configmanager.OutputJSON {
		data, err = json.MarshalIndent(value, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(value)
	}

	if err != nil {
		return fmt.Errorf("marshal %s output: %w", output, err)
	}

	_, err = writer.Write(data)
	if err != nil {
		return fmt.Errorf("write %s output: %w", output, err)
	}

	return nil
}
