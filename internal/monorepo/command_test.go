package monorepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	commandCatalogInputConstant = "https://github.com/acme/service-one.git service-one\n" +
		"https://github.com/acme/service-two.git service-two services/two\n"
	commandMalformedCatalogInputConstant = "https://github.com/acme/service-one.git\n"
)

type fakeRunExecutor struct {
	recordedOptions []RunOptions
	runError        error
}

func (executor *fakeRunExecutor) Run(_ context.Context, options RunOptions) error {
	executor.recordedOptions = append(executor.recordedOptions, options)
	return executor.runError
}

func expectedCatalogRecords() []RepositoryRecord {
	return []RepositoryRecord{
		{SourceLocation: "https://github.com/acme/service-one.git", TargetName: "service-one", TargetFolder: "service-one"},
		{SourceLocation: "https://github.com/acme/service-two.git", TargetName: "service-two", TargetFolder: "services/two"},
	}
}

func executeMergeCommand(testInstance *testing.T, builder *CommandBuilder, arguments []string, catalogInput string) error {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetIn(strings.NewReader(catalogInput))
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(append([]string{}, arguments...))

	return command.Execute()
}

func TestMergeCommandForwardsCatalogAndOptions(testInstance *testing.T) {
	testCases := []struct {
		name                       string
		arguments                  []string
		configuration              *CommandConfiguration
		expectedDirectory          string
		expectedPrimaryBranch      string
		expectedTemporaryDirectory string
		expectedResume             bool
	}{
		{
			name:                       "defaults_apply",
			arguments:                  []string{},
			configuration:              nil,
			expectedDirectory:          "core",
			expectedPrimaryBranch:      "master",
			expectedTemporaryDirectory: "",
			expectedResume:             false,
		},
		{
			name:      "configuration_values_apply",
			arguments: []string{},
			configuration: &CommandConfiguration{
				Directory:          "  /tmp/monorepo  ",
				PrimaryBranch:      " develop ",
				TemporaryDirectory: " /tmp/rewrites ",
			},
			expectedDirectory:          "/tmp/monorepo",
			expectedPrimaryBranch:      "develop",
			expectedTemporaryDirectory: "/tmp/rewrites",
			expectedResume:             false,
		},
		{
			name: "flags_override_configuration",
			arguments: []string{
				"--directory", "/tmp/other",
				"--primary-branch", "main",
				"--temp-directory", "/tmp/fast",
				"--continue",
			},
			configuration: &CommandConfiguration{
				Directory:     "/tmp/monorepo",
				PrimaryBranch: "develop",
			},
			expectedDirectory:          "/tmp/other",
			expectedPrimaryBranch:      "main",
			expectedTemporaryDirectory: "/tmp/fast",
			expectedResume:             true,
		},
		{
			name:      "blank_values_fall_back_to_defaults",
			arguments: []string{"--continue=no"},
			configuration: &CommandConfiguration{
				Directory:     "   ",
				PrimaryBranch: "   ",
			},
			expectedDirectory:          "core",
			expectedPrimaryBranch:      "master",
			expectedTemporaryDirectory: "",
			expectedResume:             false,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		subtestName := fmt.Sprintf("%d_%s", testCaseIndex, testCase.name)

		testInstance.Run(subtestName, func(subtest *testing.T) {
			runExecutor := &fakeRunExecutor{}
			var capturedDependencies ControllerDependencies

			builder := &CommandBuilder{
				RunExecutorProvider: func(dependencies ControllerDependencies) (RunExecutor, error) {
					capturedDependencies = dependencies
					return runExecutor, nil
				},
			}
			if testCase.configuration != nil {
				builder.ConfigurationProvider = func() CommandConfiguration { return *testCase.configuration }
			}

			executionError := executeMergeCommand(subtest, builder, testCase.arguments, commandCatalogInputConstant)
			require.NoError(subtest, executionError)

			require.NotNil(subtest, capturedDependencies.VersionControl)
			require.NotNil(subtest, capturedDependencies.Classifier)
			require.NotNil(subtest, capturedDependencies.Pipeline)
			require.NotNil(subtest, capturedDependencies.Reporter)
			require.NotNil(subtest, capturedDependencies.Logger)

			require.Equal(subtest, testCase.expectedTemporaryDirectory, capturedDependencies.Pipeline.temporaryDirectory)

			require.Len(subtest, runExecutor.recordedOptions, 1)
			recordedOptions := runExecutor.recordedOptions[0]
			require.Equal(subtest, expectedCatalogRecords(), recordedOptions.Records)
			require.Equal(subtest, testCase.expectedDirectory, recordedOptions.Directory)
			require.Equal(subtest, testCase.expectedPrimaryBranch, recordedOptions.PrimaryBranch)
			require.Equal(subtest, testCase.expectedResume, recordedOptions.Resume)
		})
	}
}

func TestMergeCommandRejectsMalformedCatalogBeforeRunning(testInstance *testing.T) {
	runExecutor := &fakeRunExecutor{}
	builder := &CommandBuilder{
		RunExecutorProvider: func(ControllerDependencies) (RunExecutor, error) {
			return runExecutor, nil
		},
	}

	executionError := executeMergeCommand(testInstance, builder, []string{}, commandMalformedCatalogInputConstant)
	require.Error(testInstance, executionError)
	require.ErrorContains(testInstance, executionError, "failed to parse repository catalog")

	var validationError ValidationError
	require.ErrorAs(testInstance, executionError, &validationError)
	require.Equal(testInstance, 1, validationError.LineNumber)

	require.Empty(testInstance, runExecutor.recordedOptions)
}

func TestMergeCommandWrapsRunFailures(testInstance *testing.T) {
	runExecutor := &fakeRunExecutor{runError: errors.New("merge conflict")}
	builder := &CommandBuilder{
		RunExecutorProvider: func(ControllerDependencies) (RunExecutor, error) {
			return runExecutor, nil
		},
	}

	executionError := executeMergeCommand(testInstance, builder, []string{}, commandCatalogInputConstant)
	require.Error(testInstance, executionError)
	require.ErrorContains(testInstance, executionError, "monorepo merge failed")
	require.ErrorContains(testInstance, executionError, "merge conflict")
}
