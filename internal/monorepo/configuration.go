package monorepo

import "strings"

const (
	directoryConfigurationKeyConstant          = "directory"
	primaryBranchConfigurationKeyConstant      = "primary_branch"
	temporaryDirectoryConfigurationKeyConstant = "temporary_directory"
	debugConfigurationKeyConstant              = "debug"

	defaultDirectoryNameConstant = "core"

	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures persisted configuration for the merge command.
type CommandConfiguration struct {
	Directory          string `mapstructure:"directory"`
	PrimaryBranch      string `mapstructure:"primary_branch"`
	TemporaryDirectory string `mapstructure:"temporary_directory"`
	EnableDebugLogging bool   `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for the merge command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Directory:          defaultDirectoryNameConstant,
		PrimaryBranch:      masterBranchNameConstant,
		TemporaryDirectory: "",
		EnableDebugLogging: false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the merge command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + directoryConfigurationKeyConstant:          defaults.Directory,
		rootKey + configurationKeySeparatorConstant + primaryBranchConfigurationKeyConstant:      defaults.PrimaryBranch,
		rootKey + configurationKeySeparatorConstant + temporaryDirectoryConfigurationKeyConstant: defaults.TemporaryDirectory,
		rootKey + configurationKeySeparatorConstant + debugConfigurationKeyConstant:              defaults.EnableDebugLogging,
	}
}

// Sanitize trims configured values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.PrimaryBranch = strings.TrimSpace(configuration.PrimaryBranch)
	sanitized.TemporaryDirectory = strings.TrimSpace(configuration.TemporaryDirectory)
	return sanitized
}
