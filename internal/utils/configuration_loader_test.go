package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gomono/internal/utils"
)

const (
	loaderTestEnvironmentPrefixConstant            = "TESTGOMONO"
	loaderTestLogLevelKeyConstant                  = "common.log_level"
	loaderTestDirectoryKeyConstant                 = "tools.merge.directory"
	loaderTestDefaultLogLevelConstant              = "info"
	loaderTestDefaultDirectoryConstant             = "monorepo"
	loaderTestFileLogLevelConstant                 = "debug"
	loaderTestFileDirectoryConstant                = "workspaces/megarepo"
	loaderTestShadowedLogLevelConstant             = "warn"
	loaderTestEnvironmentLogLevelConstant          = "error"
	loaderTestConfigurationNameConstant            = "config"
	loaderTestConfigurationTypeConstant            = "yaml"
	loaderTestConfigurationFileNameConstant        = "config.yaml"
	loaderTestConfigurationContentTemplateConstant = "common:\n  log_level: %s\ntools:\n  merge:\n    directory: %s\n"
	loaderTestSubtestNameTemplateConstant          = "%d_%s"
	loaderTestUserConfigurationDirectoryConstant   = ".gomono"
	loaderTestXDGDirectoryNameConstant             = "config"
)

type loaderConfigurationFixture struct {
	Common loaderCommonSectionFixture `mapstructure:"common"`
	Tools  loaderToolsSectionFixture  `mapstructure:"tools"`
}

type loaderCommonSectionFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type loaderToolsSectionFixture struct {
	Merge loaderMergeSectionFixture `mapstructure:"merge"`
}

type loaderMergeSectionFixture struct {
	Directory string `mapstructure:"directory"`
}

func loaderTestDefaultValues() map[string]any {
	return map[string]any{
		loaderTestLogLevelKeyConstant:  loaderTestDefaultLogLevelConstant,
		loaderTestDirectoryKeyConstant: loaderTestDefaultDirectoryConstant,
	}
}

func loaderTestEnvironmentVariableName(configurationKey string) string {
	return loaderTestEnvironmentPrefixConstant + "_" + strings.ToUpper(strings.ReplaceAll(configurationKey, ".", "_"))
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		writeFile           bool
		fileLogLevel        string
		fileDirectory       string
		environmentLogLevel string
		expectedLogLevel    string
		expectedDirectory   string
	}{
		{
			name:              "defaults apply without file or environment",
			writeFile:         false,
			expectedLogLevel:  loaderTestDefaultLogLevelConstant,
			expectedDirectory: loaderTestDefaultDirectoryConstant,
		},
		{
			name:              "configuration file overrides defaults",
			writeFile:         true,
			fileLogLevel:      loaderTestFileLogLevelConstant,
			fileDirectory:     loaderTestFileDirectoryConstant,
			expectedLogLevel:  loaderTestFileLogLevelConstant,
			expectedDirectory: loaderTestFileDirectoryConstant,
		},
		{
			name:                "environment overrides configuration file",
			writeFile:           true,
			fileLogLevel:        loaderTestShadowedLogLevelConstant,
			fileDirectory:       loaderTestFileDirectoryConstant,
			environmentLogLevel: loaderTestEnvironmentLogLevelConstant,
			expectedLogLevel:    loaderTestEnvironmentLogLevelConstant,
			expectedDirectory:   loaderTestFileDirectoryConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(loaderTestSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()

			configurationFilePath := ""
			if testCase.writeFile {
				configurationFilePath = filepath.Join(temporaryDirectory, loaderTestConfigurationFileNameConstant)
				configurationContent := fmt.Sprintf(loaderTestConfigurationContentTemplateConstant, testCase.fileLogLevel, testCase.fileDirectory)
				writeError := os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600)
				require.NoError(testInstance, writeError)
			}

			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(loaderTestEnvironmentVariableName(loaderTestLogLevelKeyConstant), testCase.environmentLogLevel)
			}

			configurationLoader := utils.NewConfigurationLoader(
				loaderTestConfigurationNameConstant,
				loaderTestConfigurationTypeConstant,
				loaderTestEnvironmentPrefixConstant,
				[]string{temporaryDirectory},
			)

			loadedConfiguration := loaderConfigurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, loaderTestDefaultValues(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedDirectory, loadedConfiguration.Tools.Merge.Directory)

			if testCase.writeFile {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name                         string
		configurationDirectorySelect func(workingDirectoryPath string, userConfigurationDirectoryPath string) string
	}{
		{
			name: "finds configuration in the working directory",
			configurationDirectorySelect: func(workingDirectoryPath string, userConfigurationDirectoryPath string) string {
				return workingDirectoryPath
			},
		},
		{
			name: "finds configuration in the user configuration directory",
			configurationDirectorySelect: func(workingDirectoryPath string, userConfigurationDirectoryPath string) string {
				return userConfigurationDirectoryPath
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(loaderTestSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			workingDirectoryPath := testInstance.TempDir()
			homeDirectoryPath := testInstance.TempDir()
			xdgConfigHomeDirectoryPath := filepath.Join(homeDirectoryPath, loaderTestXDGDirectoryNameConstant)

			testInstance.Setenv("HOME", homeDirectoryPath)
			testInstance.Setenv("XDG_CONFIG_HOME", xdgConfigHomeDirectoryPath)

			userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
			require.NoError(testInstance, userConfigurationDirectoryError)
			require.NotEmpty(testInstance, userConfigurationBaseDirectoryPath)

			userConfigurationDirectoryPath := filepath.Join(userConfigurationBaseDirectoryPath, loaderTestUserConfigurationDirectoryConstant)
			createDirectoryError := os.MkdirAll(userConfigurationDirectoryPath, 0o755)
			require.NoError(testInstance, createDirectoryError)

			selectedConfigurationDirectoryPath := testCase.configurationDirectorySelect(workingDirectoryPath, userConfigurationDirectoryPath)
			configurationFilePath := filepath.Join(selectedConfigurationDirectoryPath, loaderTestConfigurationFileNameConstant)
			configurationContent := fmt.Sprintf(loaderTestConfigurationContentTemplateConstant, loaderTestFileLogLevelConstant, loaderTestFileDirectoryConstant)
			writeConfigurationError := os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600)
			require.NoError(testInstance, writeConfigurationError)

			configurationLoader := utils.NewConfigurationLoader(
				loaderTestConfigurationNameConstant,
				loaderTestConfigurationTypeConstant,
				loaderTestEnvironmentPrefixConstant,
				[]string{workingDirectoryPath, userConfigurationDirectoryPath},
			)

			loadedConfiguration := loaderConfigurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration("", loaderTestDefaultValues(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, loaderTestFileLogLevelConstant, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, loaderTestFileDirectoryConstant, loadedConfiguration.Tools.Merge.Directory)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}
