package monorepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/gomono/internal/execshell"
	"github.com/temirov/gomono/internal/gitrepo"
	"github.com/temirov/gomono/internal/ui"
	"github.com/temirov/gomono/internal/utils"
	flagutils "github.com/temirov/gomono/internal/utils/flags"
	pathutils "github.com/temirov/gomono/internal/utils/path"
)

const (
	commandUseConstant              = "merge"
	commandShortDescriptionConstant = "Merge catalogued repositories into a single monorepo"
	commandLongDescriptionConstant  = "merge reads a repository catalog from standard input and replays every source repository into its own folder of a shared monorepo, preserving branch and tag history."

	directoryFlagNameConstant           = "directory"
	directoryFlagUsageConstant          = "Directory where the monorepo is created"
	primaryBranchFlagNameConstant       = "primary-branch"
	primaryBranchFlagUsageConstant      = "Branch checked out once the run completes"
	temporaryDirectoryFlagNameConstant  = "temp-directory"
	temporaryDirectoryFlagUsageConstant = "Directory holding history rewrite workspaces"
	debugFlagNameConstant               = "debug"
	debugFlagUsageConstant              = "Enable verbose logging of underlying git commands"
	resumeFlagNameConstant              = "continue"
	resumeFlagUsageConstant             = "Resume an interrupted run inside an existing monorepo"

	catalogParseErrorTemplateConstant              = "failed to parse repository catalog: %w"
	mergeExecutionErrorTemplateConstant            = "monorepo merge failed: %w"
	repositoryManagerCreationErrorTemplateConstant = "unable to construct repository manager: %w"
	branchClassifierCreationErrorTemplateConstant  = "unable to construct branch classifier: %w"
	historyPipelineCreationErrorTemplateConstant   = "unable to construct history pipeline: %w"
	runControllerCreationErrorTemplateConstant     = "unable to construct run controller: %w"
)

// RunExecutor executes a prepared monorepo merge run.
type RunExecutor interface {
	Run(executionContext context.Context, options RunOptions) error
}

// RunExecutorProvider constructs a run executor from resolved dependencies.
type RunExecutorProvider func(dependencies ControllerDependencies) (RunExecutor, error)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type commandOptions struct {
	directory           string
	primaryBranch       string
	temporaryDirectory  string
	resumeEnabled       bool
	debugLoggingEnabled bool
}

// CommandBuilder assembles the merge Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	RunExecutorProvider          RunExecutorProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the merge command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	resumeEnabled := false

	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(directoryFlagNameConstant, defaults.Directory, directoryFlagUsageConstant)
	command.Flags().String(primaryBranchFlagNameConstant, defaults.PrimaryBranch, primaryBranchFlagUsageConstant)
	command.Flags().String(temporaryDirectoryFlagNameConstant, defaults.TemporaryDirectory, temporaryDirectoryFlagUsageConstant)
	command.Flags().Bool(debugFlagNameConstant, defaults.EnableDebugLogging, debugFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), &resumeEnabled, resumeFlagNameConstant, false, resumeFlagUsageConstant)

	command.RunE = func(cobraCommand *cobra.Command, _ []string) error {
		return builder.runMerge(cobraCommand, resumeEnabled)
	}

	return command, nil
}

func (builder *CommandBuilder) runMerge(command *cobra.Command, resumeEnabled bool) error {
	options := builder.parseOptions(command, resumeEnabled)

	records, catalogError := ParseCatalog(command.InOrStdin())
	if catalogError != nil {
		return fmt.Errorf(catalogParseErrorTemplateConstant, catalogError)
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(gitExecutor)
	if managerError != nil {
		return fmt.Errorf(repositoryManagerCreationErrorTemplateConstant, managerError)
	}

	branchClassifier, classifierError := NewBranchClassifier(repositoryManager)
	if classifierError != nil {
		return fmt.Errorf(branchClassifierCreationErrorTemplateConstant, classifierError)
	}

	historyPipeline, pipelineError := NewHistoryTransformPipeline(repositoryManager, options.temporaryDirectory)
	if pipelineError != nil {
		return fmt.Errorf(historyPipelineCreationErrorTemplateConstant, pipelineError)
	}

	runExecutor, runExecutorError := builder.resolveRunExecutor(ControllerDependencies{
		VersionControl: repositoryManager,
		Classifier:     branchClassifier,
		Pipeline:       historyPipeline,
		Reporter:       ui.NewConsoleRunReporter(command.OutOrStdout()),
		Logger:         logger,
	})
	if runExecutorError != nil {
		return runExecutorError
	}

	runOptions := RunOptions{
		Records:       records,
		Directory:     options.directory,
		PrimaryBranch: options.primaryBranch,
		Resume:        options.resumeEnabled,
	}

	if runError := runExecutor.Run(command.Context(), runOptions); runError != nil {
		return fmt.Errorf(mergeExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, resumeEnabled bool) commandOptions {
	configuration := builder.resolveConfiguration()

	debugEnabled := configuration.EnableDebugLogging
	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			if strings.EqualFold(logLevel, string(utils.LogLevelDebug)) {
				debugEnabled = true
			}
		}
	}

	directory := configuration.Directory
	primaryBranch := configuration.PrimaryBranch
	temporaryDirectory := configuration.TemporaryDirectory

	if command != nil {
		if command.Flags().Changed(directoryFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(directoryFlagNameConstant)
			directory = strings.TrimSpace(flagValue)
		}
		if command.Flags().Changed(primaryBranchFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(primaryBranchFlagNameConstant)
			primaryBranch = strings.TrimSpace(flagValue)
		}
		if command.Flags().Changed(temporaryDirectoryFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(temporaryDirectoryFlagNameConstant)
			temporaryDirectory = strings.TrimSpace(flagValue)
		}
		if command.Flags().Changed(debugFlagNameConstant) {
			flagValue, _ := command.Flags().GetBool(debugFlagNameConstant)
			debugEnabled = flagValue
		}
	}

	if len(directory) == 0 {
		directory = defaultDirectoryNameConstant
	}
	if len(primaryBranch) == 0 {
		primaryBranch = masterBranchNameConstant
	}

	userPathResolver := pathutils.NewUserPathResolver()

	return commandOptions{
		directory:           userPathResolver.Resolve(directory),
		primaryBranch:       primaryBranch,
		temporaryDirectory:  userPathResolver.Resolve(temporaryDirectory),
		resumeEnabled:       resumeEnabled,
		debugLoggingEnabled: debugEnabled,
	}
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveRunExecutor(dependencies ControllerDependencies) (RunExecutor, error) {
	if builder.RunExecutorProvider != nil {
		return builder.RunExecutorProvider(dependencies)
	}

	runController, controllerError := NewRunController(dependencies)
	if controllerError != nil {
		return nil, fmt.Errorf(runControllerCreationErrorTemplateConstant, controllerError)
	}
	return runController, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
