package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitInitSubcommandNameConstant         = "init"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitFetchSubcommandNameConstant        = "fetch"
	gitCheckoutSubcommandNameConstant     = "checkout"
	gitOrphanFlagConstant                 = "--orphan"
	gitBranchSubcommandNameConstant       = "branch"
	gitDeleteFlagConstant                 = "--delete"
	gitMergeBaseSubcommandNameConstant    = "merge-base"
	gitIsAncestorFlagConstant             = "--is-ancestor"
	gitFilterBranchSubcommandNameConstant = "filter-branch"
	gitMergeSubcommandNameConstant        = "merge"
	gitCommitSubcommandNameConstant       = "commit"
	gitMessageFlagConstant                = "-m"
	gitTagSubcommandNameConstant          = "tag"
	gitTagListFlagConstant                = "--list"
	gitResetSubcommandNameConstant        = "reset"
	gitCleanSubcommandNameConstant        = "clean"
)

const (
	gitInitStartTemplateConstant            = "Initializing repository at %s"
	gitInitSuccessTemplateConstant          = "Initialized repository at %s"
	gitInitFailureTemplateConstant          = "Failed to initialize repository at %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant = "Unable to initialize repository at %s: %s"

	gitRemoteAddStartTemplateConstant            = "Registering remote %s for %s in %s"
	gitRemoteAddSuccessTemplateConstant          = "Registered remote %s for %s in %s"
	gitRemoteAddFailureTemplateConstant          = "Failed to register remote %s for %s in %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant = "Unable to register remote %s for %s in %s: %s"

	gitRemoteLookupStartTemplateConstant            = "Checking %s remote in %s"
	gitRemoteLookupSuccessTemplateConstant          = "%s remote in %s points to %s"
	gitRemoteLookupFailureTemplateConstant          = "Failed to read %s remote in %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote in %s: %s"

	gitFetchStartTemplateConstant            = "Fetching branches and tags from %s into %s"
	gitFetchSuccessTemplateConstant          = "Fetched branches and tags from %s into %s"
	gitFetchFailureTemplateConstant          = "Failed to fetch from %s into %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant = "Unable to fetch from %s into %s: %s"

	gitCheckoutStartTemplateConstant            = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant          = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant          = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant = "Unable to switch %s to branch %s: %s"

	gitOrphanStartTemplateConstant            = "Creating orphan branch %s in %s"
	gitOrphanSuccessTemplateConstant          = "Created orphan branch %s in %s"
	gitOrphanFailureTemplateConstant          = "Failed to create orphan branch %s in %s (exit code %d%s)"
	gitOrphanExecutionFailureTemplateConstant = "Unable to create orphan branch %s in %s: %s"

	gitBranchCreationStartTemplateConstant            = "Creating branch %s from %s in %s"
	gitBranchCreationSuccessTemplateConstant          = "Created branch %s from %s in %s"
	gitBranchCreationFailureTemplateConstant          = "Failed to create branch %s from %s in %s (exit code %d%s)"
	gitBranchCreationExecutionFailureTemplateConstant = "Unable to create branch %s from %s in %s: %s"

	gitBranchDeletionStartTemplateConstant            = "Removing branch %s in %s"
	gitBranchDeletionSuccessTemplateConstant          = "Removed branch %s in %s"
	gitBranchDeletionFailureTemplateConstant          = "Failed to remove branch %s in %s (exit code %d%s)"
	gitBranchDeletionExecutionFailureTemplateConstant = "Unable to remove branch %s in %s: %s"

	gitAncestryStartTemplateConstant            = "Checking whether %s is an ancestor of %s in %s"
	gitAncestrySuccessTemplateConstant          = "%s is an ancestor of %s in %s"
	gitAncestryFailureTemplateConstant          = "%s is not confirmed as an ancestor of %s in %s (exit code %d%s)"
	gitAncestryExecutionFailureTemplateConstant = "Unable to check ancestry of %s against %s in %s: %s"

	gitHistoryRewriteStartTemplateConstant            = "Rewriting history of %s in %s"
	gitHistoryRewriteSuccessTemplateConstant          = "Rewrote history of %s in %s"
	gitHistoryRewriteFailureTemplateConstant          = "Failed to rewrite history of %s in %s (exit code %d%s)"
	gitHistoryRewriteExecutionFailureTemplateConstant = "Unable to rewrite history of %s in %s: %s"

	gitMergeStartTemplateConstant            = "Merging %s into the current branch of %s"
	gitMergeSuccessTemplateConstant          = "Merged %s into the current branch of %s"
	gitMergeFailureTemplateConstant          = "Failed to merge %s into the current branch of %s (exit code %d%s)"
	gitMergeExecutionFailureTemplateConstant = "Unable to merge %s into the current branch of %s: %s"

	gitCommitStartTemplateConstant            = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant          = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant          = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant = "Unable to create commit in %s with message %q: %s"

	gitTagListStartTemplateConstant            = "Listing tags in %s"
	gitTagListSuccessTemplateConstant          = "Listed tags in %s"
	gitTagListFailureTemplateConstant          = "Failed to list tags in %s (exit code %d%s)"
	gitTagListExecutionFailureTemplateConstant = "Unable to list tags in %s: %s"

	gitTagCreationStartTemplateConstant            = "Creating tag %s at %s in %s"
	gitTagCreationSuccessTemplateConstant          = "Created tag %s at %s in %s"
	gitTagCreationFailureTemplateConstant          = "Failed to create tag %s at %s in %s (exit code %d%s)"
	gitTagCreationExecutionFailureTemplateConstant = "Unable to create tag %s at %s in %s: %s"

	gitTagDeletionStartTemplateConstant            = "Removing tag %s in %s"
	gitTagDeletionSuccessTemplateConstant          = "Removed tag %s in %s"
	gitTagDeletionFailureTemplateConstant          = "Failed to remove tag %s in %s (exit code %d%s)"
	gitTagDeletionExecutionFailureTemplateConstant = "Unable to remove tag %s in %s: %s"

	gitResetStartTemplateConstant            = "Resetting working tree in %s"
	gitResetSuccessTemplateConstant          = "Reset working tree in %s"
	gitResetFailureTemplateConstant          = "Failed to reset working tree in %s (exit code %d%s)"
	gitResetExecutionFailureTemplateConstant = "Unable to reset working tree in %s: %s"

	gitCleanStartTemplateConstant            = "Removing untracked files in %s"
	gitCleanSuccessTemplateConstant          = "Removed untracked files in %s"
	gitCleanFailureTemplateConstant          = "Failed to remove untracked files in %s (exit code %d%s)"
	gitCleanExecutionFailureTemplateConstant = "Unable to remove untracked files in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitInitSubcommandNameConstant:
		return formatter.describeGitInitMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	case gitBranchSubcommandNameConstant:
		return formatter.describeGitBranchMessage(command, result, failure, stage)
	case gitMergeBaseSubcommandNameConstant:
		return formatter.describeGitAncestryMessage(command, result, failure, stage)
	case gitFilterBranchSubcommandNameConstant:
		return formatter.describeGitHistoryRewriteMessage(command, result, failure, stage)
	case gitMergeSubcommandNameConstant:
		return formatter.describeGitMergeMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitTagSubcommandNameConstant:
		return formatter.describeGitTagMessage(command, result, failure, stage)
	case gitResetSubcommandNameConstant:
		return formatter.describeGitResetMessage(command, result, failure, stage)
	case gitCleanSubcommandNameConstant:
		return formatter.describeGitCleanMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitInitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	repositoryPath := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))
	if repositoryPath == fallbackUnknownValueLabelConstant {
		repositoryPath = formatter.describeWorkingDirectory(command)
	}
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitInitStartTemplateConstant, repositoryPath)
	case messageStageSuccess:
		return fmt.Sprintf(gitInitSuccessTemplateConstant, repositoryPath)
	case messageStageFailure:
		return fmt.Sprintf(gitInitFailureTemplateConstant, repositoryPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitInitExecutionFailureTemplateConstant, repositoryPath, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(arguments[1])
	switch subcommand {
	case gitRemoteAddSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		remoteLocation := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRemoteAddStartTemplateConstant, remoteName, remoteLocation, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitRemoteAddSuccessTemplateConstant, remoteName, remoteLocation, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitRemoteAddFailureTemplateConstant, remoteName, remoteLocation, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitRemoteAddExecutionFailureTemplateConstant, remoteName, remoteLocation, workingDirectory, formatter.describeFailure(failure))
		}
	case gitRemoteGetURLSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRemoteLookupStartTemplateConstant, remoteName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		case messageStageFailure:
			return fmt.Sprintf(gitRemoteLookupFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitRemoteLookupExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.extractLastNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitFetchStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitFetchSuccessTemplateConstant, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitFetchFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))

	if containsArgument(arguments, gitOrphanFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitOrphanStartTemplateConstant, branchName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitOrphanSuccessTemplateConstant, branchName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitOrphanFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitOrphanExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCheckoutExecutionFailureTemplateConstant, workingDirectory, branchName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitBranchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitDeleteFlagConstant) {
		branchName := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitBranchDeletionStartTemplateConstant, branchName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitBranchDeletionSuccessTemplateConstant, branchName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitBranchDeletionFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitBranchDeletionExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	branchName, startPoint := formatter.extractBranchAndStartPoint(arguments[1:])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitBranchCreationStartTemplateConstant, branchName, startPoint, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitBranchCreationSuccessTemplateConstant, branchName, startPoint, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitBranchCreationFailureTemplateConstant, branchName, startPoint, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitBranchCreationExecutionFailureTemplateConstant, branchName, startPoint, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitAncestryMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !containsArgument(arguments, gitIsAncestorFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	candidateReference, targetReference := formatter.extractTrailingReferencePair(arguments[1:])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAncestryStartTemplateConstant, candidateReference, targetReference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAncestrySuccessTemplateConstant, candidateReference, targetReference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAncestryFailureTemplateConstant, candidateReference, targetReference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitAncestryExecutionFailureTemplateConstant, candidateReference, targetReference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHistoryRewriteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	rewrittenReference := formatter.ensureValue(formatter.extractLastNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitHistoryRewriteStartTemplateConstant, rewrittenReference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitHistoryRewriteSuccessTemplateConstant, rewrittenReference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitHistoryRewriteFailureTemplateConstant, rewrittenReference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitHistoryRewriteExecutionFailureTemplateConstant, rewrittenReference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMergeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	mergedReference := formatter.ensureValue(formatter.extractLastNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMergeStartTemplateConstant, mergedReference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitMergeSuccessTemplateConstant, mergedReference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitMergeFailureTemplateConstant, mergedReference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitMergeExecutionFailureTemplateConstant, mergedReference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitTagMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitTagListFlagConstant) || len(arguments) == 1 {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTagListStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTagListSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitTagListFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitTagListExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gitDeleteFlagConstant) {
		tagName := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments[1:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitTagDeletionStartTemplateConstant, tagName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitTagDeletionSuccessTemplateConstant, tagName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitTagDeletionFailureTemplateConstant, tagName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitTagDeletionExecutionFailureTemplateConstant, tagName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	tagName, tagTarget := formatter.extractTrailingReferencePair(arguments[1:])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitTagCreationStartTemplateConstant, tagName, tagTarget, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitTagCreationSuccessTemplateConstant, tagName, tagTarget, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitTagCreationFailureTemplateConstant, tagName, tagTarget, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitTagCreationExecutionFailureTemplateConstant, tagName, tagTarget, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitResetMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitResetStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitResetSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitResetFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitResetExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCleanMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCleanStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitCleanSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitCleanFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCleanExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

// extractLastNonFlagArgument returns the final argument that is neither a flag nor a flag value separator.
func (formatter CommandMessageFormatter) extractLastNonFlagArgument(arguments []string) string {
	for argumentIndex := len(arguments) - 1; argumentIndex >= 0; argumentIndex-- {
		trimmedArgument := strings.TrimSpace(arguments[argumentIndex])
		if len(trimmedArgument) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedArgument, "-") {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

// extractBranchAndStartPoint reads the two trailing positional arguments of a branch creation.
func (formatter CommandMessageFormatter) extractBranchAndStartPoint(arguments []string) (string, string) {
	positionalArguments := formatter.collectPositionalArguments(arguments)
	if len(positionalArguments) >= 2 {
		return positionalArguments[0], positionalArguments[1]
	}
	if len(positionalArguments) == 1 {
		return positionalArguments[0], fallbackUnknownValueLabelConstant
	}
	return fallbackUnknownValueLabelConstant, fallbackUnknownValueLabelConstant
}

// extractTrailingReferencePair reads the two trailing positional references of ancestry and tag commands.
func (formatter CommandMessageFormatter) extractTrailingReferencePair(arguments []string) (string, string) {
	positionalArguments := formatter.collectPositionalArguments(arguments)
	if len(positionalArguments) >= 2 {
		return positionalArguments[len(positionalArguments)-2], positionalArguments[len(positionalArguments)-1]
	}
	if len(positionalArguments) == 1 {
		return positionalArguments[0], fallbackUnknownValueLabelConstant
	}
	return fallbackUnknownValueLabelConstant, fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) collectPositionalArguments(arguments []string) []string {
	var positionalArguments []string
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedArgument, "-") {
			continue
		}
		positionalArguments = append(positionalArguments, trimmedArgument)
	}
	return positionalArguments
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) != gitMessageFlagConstant {
			continue
		}
		if argumentIndex+1 < len(arguments) {
			return arguments[argumentIndex+1]
		}
	}
	return fallbackUnknownValueLabelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
