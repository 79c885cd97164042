package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/gomono/internal/execshell"
)

const (
	executorMissingMessageConstant = "git executor not configured"

	initSubcommandConstant    = "init"
	initialBranchFlagConstant = "--initial-branch"

	remoteSubcommandConstant       = "remote"
	remoteAddSubcommandConstant    = "add"
	remoteGetURLSubcommandConstant = "get-url"

	fetchSubcommandConstant = "fetch"
	fetchTagsFlagConstant   = "--tags"
	fetchPruneFlagConstant  = "--prune"

	forEachRefSubcommandConstant     = "for-each-ref"
	forEachRefNameFormatFlagConstant = "--format=%(refname)"

	tagSubcommandConstant = "tag"
	tagListFlagConstant   = "--list"
	tagForceFlagConstant  = "--force"
	tagDeleteFlagConstant = "--delete"

	showRefSubcommandConstant = "show-ref"
	showRefVerifyFlagConstant = "--verify"
	showRefQuietFlagConstant  = "--quiet"

	checkoutSubcommandConstant = "checkout"
	checkoutOrphanFlagConstant = "--orphan"

	removeSubcommandConstant         = "rm"
	removeRecursiveFlagConstant      = "-r"
	removeForceFlagConstant          = "-f"
	removeQuietFlagConstant          = "-q"
	removeIgnoreUnmatchFlagConstant  = "--ignore-unmatch"
	currentDirectoryPathspecConstant = "."

	branchSubcommandConstant = "branch"
	branchForceFlagConstant  = "--force"
	branchDeleteFlagConstant = "--delete"

	resetSubcommandConstant = "reset"
	resetHardFlagConstant   = "--hard"

	cleanSubcommandConstant = "clean"
	cleanAllFlagConstant    = "-ffdx"

	mergeBaseSubcommandConstant     = "merge-base"
	mergeBaseIsAncestorFlagConstant = "--is-ancestor"

	filterBranchSubcommandConstant      = "filter-branch"
	filterBranchForceFlagConstant       = "--force"
	filterBranchDirectoryFlagConstant   = "-d"
	filterBranchIndexFilterFlagConstant = "--index-filter"
	refListSeparatorConstant            = "--"

	mergeSubcommandConstant         = "merge"
	mergeNoFastForwardFlagConstant  = "--no-ff"
	mergeNoCommitFlagConstant       = "--no-commit"
	mergeAllowUnrelatedFlagConstant = "--allow-unrelated-histories"

	commitSubcommandConstant     = "commit"
	commitAllowEmptyFlagConstant = "--allow-empty"
	commitMessageFlagConstant    = "-m"

	updateRefSubcommandConstant = "update-ref"
	updateRefDeleteFlagConstant = "-d"

	localBranchReferencePrefixConstant    = "refs/heads/"
	remoteTrackingReferencePrefixConstant = "refs/remotes/"
	remoteHeadPointerNameConstant         = "HEAD"
	referencePathSeparatorConstant        = "/"
	rewriteBackupReferencePrefixConstant  = "refs/original/"

	rewriteIndexFilterTemplateConstant = `git read-tree --empty && git read-tree --prefix=%s/ "$GIT_COMMIT"`

	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	filterBranchSquelchEnvironmentNameConstant  = "FILTER_BRANCH_SQUELCH_WARNING"
	filterBranchSquelchEnvironmentValueConstant = "1"

	missingBranchProbeExitCodeConstant = 1
	notAncestorExitCodeConstant        = 1
)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution the repository manager needs.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager maps repository-level operations onto git invocations.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// InitializeRepository creates an empty repository at repositoryPath whose unborn branch is initialBranchName.
func (manager *RepositoryManager) InitializeRepository(executionContext context.Context, repositoryPath string, initialBranchName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{initSubcommandConstant, initialBranchFlagConstant, initialBranchName, repositoryPath},
	})
	return executionError
}

// RemoteExists reports whether a remote of the provided name is registered.
func (manager *RepositoryManager) RemoteExists(executionContext context.Context, repositoryPath string, remoteName string) (bool, error) {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteGetURLSubcommandConstant, remoteName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

// AddRemote registers remoteLocation under remoteName.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteLocation string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteAddSubcommandConstant, remoteName, remoteLocation},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// FetchRemote retrieves all branches and tags from the named remote, pruning stale tracking refs.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{fetchSubcommandConstant, fetchTagsFlagConstant, fetchPruneFlagConstant, remoteName},
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	return executionError
}

// ListRemoteBranches returns the short branch names fetched from the named remote, sorted, without the HEAD pointer.
func (manager *RepositoryManager) ListRemoteBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error) {
	remoteReferencePrefix := remoteTrackingReferencePrefixConstant + remoteName + referencePathSeparatorConstant
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{forEachRefSubcommandConstant, forEachRefNameFormatFlagConstant, remoteReferencePrefix},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}

	var branchNames []string
	for _, referenceLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedReference := strings.TrimSpace(referenceLine)
		if len(trimmedReference) == 0 {
			continue
		}
		branchName := strings.TrimPrefix(trimmedReference, remoteReferencePrefix)
		if branchName == remoteHeadPointerNameConstant {
			continue
		}
		branchNames = append(branchNames, branchName)
	}
	sort.Strings(branchNames)
	return branchNames, nil
}

// ListTags returns the names of all local tags, sorted.
func (manager *RepositoryManager) ListTags(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{tagSubcommandConstant, tagListFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}

	var tagNames []string
	for _, tagLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedTag := strings.TrimSpace(tagLine)
		if len(trimmedTag) == 0 {
			continue
		}
		tagNames = append(tagNames, trimmedTag)
	}
	sort.Strings(tagNames)
	return tagNames, nil
}

// BranchExists reports whether a local branch of the provided name exists.
func (manager *RepositoryManager) BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{showRefSubcommandConstant, showRefVerifyFlagConstant, showRefQuietFlagConstant, localBranchReferencePrefixConstant + branchName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode == missingBranchProbeExitCodeConstant {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

// CheckoutBranch switches the working tree to the named branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CreateOrphanBranch switches to a new branch without any parent commit.
func (manager *RepositoryManager) CreateOrphanBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, checkoutOrphanFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// ClearIndex removes every tracked path from the index and the working tree.
func (manager *RepositoryManager) ClearIndex(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			removeSubcommandConstant,
			removeRecursiveFlagConstant,
			removeForceFlagConstant,
			removeQuietFlagConstant,
			removeIgnoreUnmatchFlagConstant,
			currentDirectoryPathspecConstant,
		},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CreateBranch forcibly points branchName at startPoint without checking it out.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{branchSubcommandConstant, branchForceFlagConstant, branchName, startPoint},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// DeleteBranch forcibly removes the named local branch.
func (manager *RepositoryManager) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{branchSubcommandConstant, branchDeleteFlagConstant, branchForceFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// ResetHard discards every local modification to tracked files.
func (manager *RepositoryManager) ResetHard(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{resetSubcommandConstant, resetHardFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// RemoveUntrackedFiles deletes untracked and ignored files and directories.
func (manager *RepositoryManager) RemoveUntrackedFiles(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{cleanSubcommandConstant, cleanAllFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// IsAncestor reports whether candidateReference is an ancestor of (or equal to) targetReference.
func (manager *RepositoryManager) IsAncestor(executionContext context.Context, repositoryPath string, candidateReference string, targetReference string) (bool, error) {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{mergeBaseSubcommandConstant, mergeBaseIsAncestorFlagConstant, candidateReference, targetReference},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode == notAncestorExitCodeConstant {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

// RewriteHistoryIntoFolder rewrites every commit reachable from the named branch so all paths live under folderName.
// The rewrite touches only that branch; the backup ref left by the rewrite engine is removed afterwards.
func (manager *RepositoryManager) RewriteHistoryIntoFolder(executionContext context.Context, repositoryPath string, branchName string, folderName string, temporaryDirectory string) error {
	rewriteArguments := []string{filterBranchSubcommandConstant, filterBranchForceFlagConstant}
	if len(strings.TrimSpace(temporaryDirectory)) > 0 {
		rewriteArguments = append(rewriteArguments, filterBranchDirectoryFlagConstant, temporaryDirectory)
	}
	rewriteArguments = append(
		rewriteArguments,
		filterBranchIndexFilterFlagConstant,
		fmt.Sprintf(rewriteIndexFilterTemplateConstant, folderName),
		refListSeparatorConstant,
		localBranchReferencePrefixConstant+branchName,
	)

	_, rewriteError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        rewriteArguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			filterBranchSquelchEnvironmentNameConstant: filterBranchSquelchEnvironmentValueConstant,
		},
	})
	if rewriteError != nil {
		return rewriteError
	}

	return manager.deleteRewriteBackupReference(executionContext, repositoryPath, branchName)
}

// deleteRewriteBackupReference drops the refs/original backup; a missing backup is not an error.
func (manager *RepositoryManager) deleteRewriteBackupReference(executionContext context.Context, repositoryPath string, branchName string) error {
	backupReference := rewriteBackupReferencePrefixConstant + localBranchReferencePrefixConstant + branchName
	_, deletionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{updateRefSubcommandConstant, updateRefDeleteFlagConstant, backupReference},
		WorkingDirectory: repositoryPath,
	})
	if deletionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(deletionError, &commandFailure) {
			return nil
		}
		return deletionError
	}
	return nil
}

// MergeWithoutFastForward merges the named reference into the current branch without committing,
// always producing a merge commit and permitting unrelated histories.
func (manager *RepositoryManager) MergeWithoutFastForward(executionContext context.Context, repositoryPath string, reference string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			mergeSubcommandConstant,
			mergeNoFastForwardFlagConstant,
			mergeNoCommitFlagConstant,
			mergeAllowUnrelatedFlagConstant,
			reference,
		},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CreateCommit records a commit with the provided message even when nothing changed.
func (manager *RepositoryManager) CreateCommit(executionContext context.Context, repositoryPath string, message string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{commitSubcommandConstant, commitAllowEmptyFlagConstant, commitMessageFlagConstant, message},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CreateTag forcibly points tagName at targetReference.
func (manager *RepositoryManager) CreateTag(executionContext context.Context, repositoryPath string, tagName string, targetReference string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{tagSubcommandConstant, tagForceFlagConstant, tagName, targetReference},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// DeleteTag removes the named local tag.
func (manager *RepositoryManager) DeleteTag(executionContext context.Context, repositoryPath string, tagName string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{tagSubcommandConstant, tagDeleteFlagConstant, tagName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}
