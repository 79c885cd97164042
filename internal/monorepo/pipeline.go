package monorepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/gomono/internal/execshell"
)

const (
	scratchBranchNameConstant          = "gomono/scratch"
	scratchBranchReferenceConstant     = "refs/heads/" + scratchBranchNameConstant
	tagReferenceTemplateConstant       = "refs/tags/%s"
	namespacedTagTemplateConstant      = "%s/%s"
	rewriteWorkspaceTemplateConstant   = "gomono-rewrite-%d"
	rootCommitMessageTemplateConstant  = "Root commit for monorepo branch %s"
	mergeCommitMessageTemplateConstant = "Merging %s into %s"

	prepareBranchErrorTemplateConstant    = "failed to prepare monorepo branch %q: %w"
	stageHistoryErrorTemplateConstant     = "failed to stage history of %q on the scratch branch: %w"
	rewriteHistoryErrorTemplateConstant   = "failed to rewrite history into folder %q: %w"
	mergeHistoryErrorTemplateConstant     = "failed to merge %q into branch %q: %w"
	recordMergeErrorTemplateConstant      = "failed to record merge commit on branch %q: %w"
	namespaceTagErrorTemplateConstant     = "failed to namespace tag %q: %w"
	dropSourceTagErrorTemplateConstant    = "failed to drop original tag %q: %w"
	discardScratchErrorTemplateConstant   = "failed to discard the scratch branch: %w"
	restoreCleanTreeErrorTemplateConstant = "failed to restore a clean working tree: %w"
)

// BranchMergeInputs identifies one source branch to fold into the monorepo.
type BranchMergeInputs struct {
	RepositoryPath string
	RepositoryName string
	BranchName     string
	TargetFolder   string
}

// TagMergeInputs identifies one source tag to rewrite into the monorepo.
type TagMergeInputs struct {
	RepositoryPath string
	RepositoryName string
	TagName        string
	TargetFolder   string
}

// TagMergeOutcome reports how a tag was handled.
type TagMergeOutcome struct {
	NamespacedTagName string
	AlreadyNamespaced bool
}

// HistoryTransformPipeline rewrites and merges one branch or tag at a time
// into the monorepo working tree. Every rewrite happens on a disposable
// scratch branch so no other monorepo ref is ever touched.
type HistoryTransformPipeline struct {
	versionControl     VersionControlService
	temporaryDirectory string
	nowFunc            func() time.Time
}

// NewHistoryTransformPipeline constructs a pipeline. temporaryDirectory, when
// non-empty, hosts the rewrite engine's intermediate state.
func NewHistoryTransformPipeline(versionControl VersionControlService, temporaryDirectory string) (*HistoryTransformPipeline, error) {
	if versionControl == nil {
		return nil, ErrVersionControlNotConfigured
	}
	return &HistoryTransformPipeline{
		versionControl:     versionControl,
		temporaryDirectory: strings.TrimSpace(temporaryDirectory),
		nowFunc:            time.Now,
	}, nil
}

// MergeBranch folds the source branch's rewritten history into the monorepo
// branch of the same short name, creating that branch from scratch when it
// does not exist yet. The merge commit is always created, even when the
// source branch introduces no content changes.
func (pipeline *HistoryTransformPipeline) MergeBranch(executionContext context.Context, inputs BranchMergeInputs) error {
	if prepareError := pipeline.prepareMonorepoBranch(executionContext, inputs.RepositoryPath, inputs.BranchName); prepareError != nil {
		return prepareError
	}

	sourceReference := remoteTrackingReference(inputs.RepositoryName, inputs.BranchName)
	if rewriteError := pipeline.rewriteOntoScratch(executionContext, inputs.RepositoryPath, sourceReference, inputs.TargetFolder); rewriteError != nil {
		return rewriteError
	}

	if mergeError := pipeline.versionControl.MergeWithoutFastForward(executionContext, inputs.RepositoryPath, scratchBranchReferenceConstant); mergeError != nil {
		return fmt.Errorf(mergeHistoryErrorTemplateConstant, inputs.RepositoryName, inputs.BranchName, mergeError)
	}
	mergeCommitMessage := fmt.Sprintf(mergeCommitMessageTemplateConstant, inputs.RepositoryName, inputs.BranchName)
	if commitError := pipeline.versionControl.CreateCommit(executionContext, inputs.RepositoryPath, mergeCommitMessage); commitError != nil {
		return fmt.Errorf(recordMergeErrorTemplateConstant, inputs.BranchName, commitError)
	}

	if discardError := pipeline.discardScratchBranch(executionContext, inputs.RepositoryPath); discardError != nil {
		return discardError
	}
	return pipeline.restoreCleanWorkingTree(executionContext, inputs.RepositoryPath)
}

// MergeTag rewrites the tag's target history under the target folder and
// records the result as <repositoryName>/<tagName>, dropping the original
// tag. Tags already carrying a path separator are left untouched.
func (pipeline *HistoryTransformPipeline) MergeTag(executionContext context.Context, inputs TagMergeInputs) (TagMergeOutcome, error) {
	if containsPathSeparator(inputs.TagName) {
		return TagMergeOutcome{NamespacedTagName: inputs.TagName, AlreadyNamespaced: true}, nil
	}

	tagReference := fmt.Sprintf(tagReferenceTemplateConstant, inputs.TagName)
	if rewriteError := pipeline.rewriteOntoScratch(executionContext, inputs.RepositoryPath, tagReference, inputs.TargetFolder); rewriteError != nil {
		return TagMergeOutcome{}, rewriteError
	}

	namespacedTagName := fmt.Sprintf(namespacedTagTemplateConstant, inputs.RepositoryName, inputs.TagName)
	if tagError := pipeline.versionControl.CreateTag(executionContext, inputs.RepositoryPath, namespacedTagName, scratchBranchReferenceConstant); tagError != nil {
		return TagMergeOutcome{}, fmt.Errorf(namespaceTagErrorTemplateConstant, inputs.TagName, tagError)
	}
	if deleteError := pipeline.versionControl.DeleteTag(executionContext, inputs.RepositoryPath, inputs.TagName); deleteError != nil {
		return TagMergeOutcome{}, fmt.Errorf(dropSourceTagErrorTemplateConstant, inputs.TagName, deleteError)
	}

	if discardError := pipeline.discardScratchBranch(executionContext, inputs.RepositoryPath); discardError != nil {
		return TagMergeOutcome{}, discardError
	}
	return TagMergeOutcome{NamespacedTagName: namespacedTagName}, nil
}

// RepairWorkingTree returns an interrupted monorepo to a known-clean state:
// merge state and tracked modifications are discarded, untracked files
// removed, and a stale scratch branch deleted. A hard reset against an
// unborn branch cannot resolve HEAD and is tolerated; the cleanup still runs.
func (pipeline *HistoryTransformPipeline) RepairWorkingTree(executionContext context.Context, repositoryPath string) error {
	if resetError := pipeline.versionControl.ResetHard(executionContext, repositoryPath); resetError != nil {
		var commandFailure execshell.CommandFailedError
		if !errors.As(resetError, &commandFailure) {
			return fmt.Errorf(restoreCleanTreeErrorTemplateConstant, resetError)
		}
	}
	if cleanError := pipeline.versionControl.RemoveUntrackedFiles(executionContext, repositoryPath); cleanError != nil {
		return fmt.Errorf(restoreCleanTreeErrorTemplateConstant, cleanError)
	}

	scratchExists, probeError := pipeline.versionControl.BranchExists(executionContext, repositoryPath, scratchBranchNameConstant)
	if probeError != nil {
		return fmt.Errorf(discardScratchErrorTemplateConstant, probeError)
	}
	if scratchExists {
		return pipeline.discardScratchBranch(executionContext, repositoryPath)
	}
	return nil
}

// prepareMonorepoBranch checks out the named monorepo branch in a clean
// state, creating it as an orphan with an empty root commit when absent.
func (pipeline *HistoryTransformPipeline) prepareMonorepoBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	branchExists, probeError := pipeline.versionControl.BranchExists(executionContext, repositoryPath, branchName)
	if probeError != nil {
		return fmt.Errorf(prepareBranchErrorTemplateConstant, branchName, probeError)
	}

	if branchExists {
		if checkoutError := pipeline.versionControl.CheckoutBranch(executionContext, repositoryPath, branchName); checkoutError != nil {
			return fmt.Errorf(prepareBranchErrorTemplateConstant, branchName, checkoutError)
		}
		if cleanError := pipeline.restoreCleanWorkingTree(executionContext, repositoryPath); cleanError != nil {
			return cleanError
		}
		return nil
	}

	if orphanError := pipeline.versionControl.CreateOrphanBranch(executionContext, repositoryPath, branchName); orphanError != nil {
		return fmt.Errorf(prepareBranchErrorTemplateConstant, branchName, orphanError)
	}
	if clearError := pipeline.versionControl.ClearIndex(executionContext, repositoryPath); clearError != nil {
		return fmt.Errorf(prepareBranchErrorTemplateConstant, branchName, clearError)
	}
	if cleanError := pipeline.versionControl.RemoveUntrackedFiles(executionContext, repositoryPath); cleanError != nil {
		return fmt.Errorf(prepareBranchErrorTemplateConstant, branchName, cleanError)
	}
	rootCommitMessage := fmt.Sprintf(rootCommitMessageTemplateConstant, branchName)
	if commitError := pipeline.versionControl.CreateCommit(executionContext, repositoryPath, rootCommitMessage); commitError != nil {
		return fmt.Errorf(prepareBranchErrorTemplateConstant, branchName, commitError)
	}
	return nil
}

// rewriteOntoScratch force-points the scratch branch at the source reference
// and rewrites its whole history under the target folder.
func (pipeline *HistoryTransformPipeline) rewriteOntoScratch(executionContext context.Context, repositoryPath string, sourceReference string, targetFolder string) error {
	if stageError := pipeline.versionControl.CreateBranch(executionContext, repositoryPath, scratchBranchNameConstant, sourceReference); stageError != nil {
		return fmt.Errorf(stageHistoryErrorTemplateConstant, sourceReference, stageError)
	}
	if rewriteError := pipeline.versionControl.RewriteHistoryIntoFolder(executionContext, repositoryPath, scratchBranchNameConstant, targetFolder, pipeline.rewriteWorkspaceDirectory()); rewriteError != nil {
		return fmt.Errorf(rewriteHistoryErrorTemplateConstant, targetFolder, rewriteError)
	}
	return nil
}

// rewriteWorkspaceDirectory derives a fresh intermediate-state directory per
// rewrite so consecutive rewrites never collide on leftover state.
func (pipeline *HistoryTransformPipeline) rewriteWorkspaceDirectory() string {
	if len(pipeline.temporaryDirectory) == 0 {
		return ""
	}
	workspaceName := fmt.Sprintf(rewriteWorkspaceTemplateConstant, pipeline.nowFunc().UnixNano())
	return filepath.Join(pipeline.temporaryDirectory, workspaceName)
}

func (pipeline *HistoryTransformPipeline) discardScratchBranch(executionContext context.Context, repositoryPath string) error {
	if deleteError := pipeline.versionControl.DeleteBranch(executionContext, repositoryPath, scratchBranchNameConstant); deleteError != nil {
		return fmt.Errorf(discardScratchErrorTemplateConstant, deleteError)
	}
	return nil
}

func (pipeline *HistoryTransformPipeline) restoreCleanWorkingTree(executionContext context.Context, repositoryPath string) error {
	if resetError := pipeline.versionControl.ResetHard(executionContext, repositoryPath); resetError != nil {
		return fmt.Errorf(restoreCleanTreeErrorTemplateConstant, resetError)
	}
	if cleanError := pipeline.versionControl.RemoveUntrackedFiles(executionContext, repositoryPath); cleanError != nil {
		return fmt.Errorf(restoreCleanTreeErrorTemplateConstant, cleanError)
	}
	return nil
}
