package configmanager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/devantler-tech/k3d-manager/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/k3d-manager/pkg/utils/envvar"
	"github.com/devantler-tech/k3d-manager/pkg/utils/notify"
	"github.com/devantler-tech/k3d-manager/pkg/utils/timer"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the config file name without extension.
	ConfigName = "k3d-manager"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "K3DM"
)

var (
	errUnsupportedOutput = errors.New("unsupported output format")
	errFlagNotFound      = errors.New("flag not found")
)

// LoadOptions configures how settings are loaded.
type LoadOptions struct {
	// Timer enables timing output in notifications when provided.
	Timer timer.Timer
	// Silent suppresses loading notifications.
	Silent bool
	// IgnoreConfigFile skips reading the on-disk config file.
	IgnoreConfigFile bool
}

// ConfigManager resolves Settings for a command.
type ConfigManager struct {
	Viper           *viper.Viper
	Writer          io.Writer
	configFileFound bool
}

// InitializeViper creates a viper instance searching the working directory
// and $HOME/.config/k3d-manager for k3d-manager.yaml.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()
	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viperInstance.AddConfigPath(filepath.Join(home, ".config", ConfigName))
	}

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viperInstance.AutomaticEnv()

	// Unmarshal only sees keys viper knows about; settings without a flag on
	// the running command are bound here so K3DM_* still reaches them.
	for _, key := range settingKeys() {
		_ = viperInstance.BindEnv(key)
	}

	return viperInstance
}

// NewConfigManager creates a manager writing notifications to writer.
func NewConfigManager(writer io.Writer) *ConfigManager {
	return &ConfigManager{
		Viper:  InitializeViper(),
		Writer: writer,
	}
}

// NewCommandConfigManager creates a manager bound to every flag of cmd.
func NewCommandConfigManager(cmd *cobra.Command) (*ConfigManager, error) {
	manager := NewConfigManager(cmd.OutOrStdout())

	err := manager.BindFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}

	return manager, nil
}

// BindFlags binds every flag in flags under its own name.
func (m *ConfigManager) BindFlags(flags *pflag.FlagSet) error {
	err := m.Viper.BindPFlags(flags)
	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	return nil
}

// BindFlagAs binds the flag named flagName to key.
func (m *ConfigManager) BindFlagAs(flags *pflag.FlagSet, key, flagName string) error {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf("bind flag %s: %w", flagName, errFlagNotFound)
	}

	err := m.Viper.BindPFlag(key, flag)
	if err != nil {
		return fmt.Errorf("bind flag %s: %w", flagName, err)
	}

	return nil
}

// Load reads the config file, applies overrides and decodes the result.
func (m *ConfigManager) Load(opts LoadOptions) (*Settings, error) {
	if !opts.IgnoreConfigFile {
		err := m.readConfig()
		if err != nil {
			return nil, err
		}
	}

	settings := &Settings{}

	err := m.Viper.Unmarshal(settings, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	expandPaths(settings)

	err = validateSettings(settings)
	if err != nil {
		return nil, err
	}

	if !opts.Silent {
		m.notifyLoaded(opts.Timer)
	}

	return settings, nil
}

// ConfigFileUsed returns the config file read by Load, if any.
func (m *ConfigManager) ConfigFileUsed() string {
	if !m.configFileFound {
		return ""
	}

	return m.Viper.ConfigFileUsed()
}

func (m *ConfigManager) readConfig() error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false

		return nil
	}

	m.configFileFound = true

	return nil
}

func (m *ConfigManager) notifyLoaded(tmr timer.Timer) {
	if m.Writer == nil {
		return
	}

	message := "using flags, environment and defaults"
	if m.configFileFound {
		message = "loaded " + m.Viper.ConfigFileUsed()
	}

	if tmr != nil {
		notify.SuccessWithTimerf(m.Writer, tmr, "%s", message)

		return
	}

	notify.Infof(m.Writer, "%s", message)
}

func expandPaths(settings *Settings) {
	for _, path := range []*string{
		&settings.ValuesDir,
		&settings.ChartsDir,
		&settings.ScratchDir,
		&settings.Kubeconfig,
	} {
		*path = envvar.ExpandPath(*path)
	}
}

func validateSettings(settings *Settings) error {
	if settings.Output == "" {
		settings.Output = OutputText
	}

	if !slices.Contains([]string{OutputText, OutputYAML, OutputJSON}, settings.Output) {
		return &v1alpha1.ConfigError{
			Field:  "output",
			Value:  settings.Output,
			Reason: errUnsupportedOutput.Error(),
		}
	}

	if settings.Timeout < 0 {
		return &v1alpha1.ConfigError{Field: "timeout", Value: settings.Timeout.String(), Reason: "must not be negative"}
	}

	return nil
}
