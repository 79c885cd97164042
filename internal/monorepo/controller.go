package monorepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	directoryExistsMessageConstant    = "target directory already exists"
	directoryMissingMessageConstant   = "target directory does not exist"
	preconditionErrorTemplateConstant = "%s: %s"

	inspectDirectoryErrorTemplateConstant = "failed to inspect target directory %q: %w"
	initializeErrorTemplateConstant       = "failed to initialize monorepo at %q: %w"
	registerRemoteErrorTemplateConstant   = "failed to register remote %q: %w"
	fetchErrorTemplateConstant            = "failed to fetch repository %q: %w"
	listBranchesErrorTemplateConstant     = "failed to enumerate branches of %q: %w"
	classifyErrorTemplateConstant         = "failed to classify branch %s/%s: %w"
	mergeBranchErrorTemplateConstant      = "failed to merge branch %s/%s: %w"
	listTagsErrorTemplateConstant         = "failed to enumerate tags: %w"
	mergeTagErrorTemplateConstant         = "failed to rewrite tag %s/%s: %w"
	repairStepErrorTemplateConstant       = "failed to repair interrupted step %s/%s: %w"
	persistManifestErrorTemplateConstant  = "failed to persist run manifest: %w"
	checkoutPrimaryErrorTemplateConstant  = "failed to check out primary branch %q: %w"

	alreadyCompletedReasonConstant  = "already completed in a previous run"
	alreadyNamespacedReasonConstant = "already namespaced"

	runStartedLogMessageConstant           = "merge run started"
	repositoryProcessingLogMessageConstant = "processing repository"

	repositoryLogFieldConstant = "repository"
	directoryLogFieldConstant  = "directory"
	sourceLogFieldConstant     = "source"
	resumeLogFieldConstant     = "resume"
)

// PreconditionError reports a target directory whose state conflicts with the
// requested run mode.
type PreconditionError struct {
	Directory string
	Message   string
}

// Error renders the violated precondition together with the directory.
func (preconditionError PreconditionError) Error() string {
	return fmt.Sprintf(preconditionErrorTemplateConstant, preconditionError.Message, preconditionError.Directory)
}

// RunOptions configures a single merge run.
type RunOptions struct {
	Records       []RepositoryRecord
	Directory     string
	PrimaryBranch string
	Resume        bool
}

// ControllerDependencies carries the collaborators of a RunController.
type ControllerDependencies struct {
	VersionControl VersionControlService
	Classifier     *BranchClassifier
	Pipeline       *HistoryTransformPipeline
	Reporter       RunReporter
	Logger         *zap.Logger
}

// RunController sequences a whole merge run across the catalog, strictly in
// input order, persisting progress after every state transition.
type RunController struct {
	versionControl VersionControlService
	classifier     *BranchClassifier
	pipeline       *HistoryTransformPipeline
	reporter       RunReporter
	logger         *zap.Logger
	nowFunc        func() time.Time
}

// NewRunController validates dependencies and assembles a RunController.
func NewRunController(dependencies ControllerDependencies) (*RunController, error) {
	if dependencies.VersionControl == nil {
		return nil, ErrVersionControlNotConfigured
	}
	if dependencies.Classifier == nil {
		return nil, ErrClassifierNotConfigured
	}
	if dependencies.Pipeline == nil {
		return nil, ErrPipelineNotConfigured
	}

	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = noopRunReporter{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RunController{
		versionControl: dependencies.VersionControl,
		classifier:     dependencies.Classifier,
		pipeline:       dependencies.Pipeline,
		reporter:       reporter,
		logger:         logger,
		nowFunc:        time.Now,
	}, nil
}

// Run merges every catalog record into the monorepo at options.Directory.
// Fresh runs require the directory to not exist yet; resumed runs require it
// to exist and continue from the persisted manifest.
func (controller *RunController) Run(executionContext context.Context, options RunOptions) error {
	controller.logger.Debug(
		runStartedLogMessageConstant,
		zap.String(directoryLogFieldConstant, options.Directory),
		zap.Bool(resumeLogFieldConstant, options.Resume),
	)

	if preparationError := controller.prepareTargetDirectory(executionContext, options); preparationError != nil {
		return preparationError
	}

	manifestStore := NewManifestStore(options.Directory)
	manifest, loadError := controller.loadManifest(manifestStore, options.Resume)
	if loadError != nil {
		return loadError
	}

	for recordIndex, record := range options.Records {
		if processError := controller.processRepository(executionContext, options, manifestStore, manifest, record, recordIndex); processError != nil {
			return processError
		}
	}

	if finalizeError := controller.checkoutPrimaryBranch(executionContext, options); finalizeError != nil {
		return finalizeError
	}
	controller.reporter.RunCompleted(options.Directory)
	return nil
}

func (controller *RunController) prepareTargetDirectory(executionContext context.Context, options RunOptions) error {
	_, statError := os.Stat(options.Directory)

	if options.Resume {
		if statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				return PreconditionError{Directory: options.Directory, Message: directoryMissingMessageConstant}
			}
			return fmt.Errorf(inspectDirectoryErrorTemplateConstant, options.Directory, statError)
		}
		return nil
	}

	if statError == nil {
		return PreconditionError{Directory: options.Directory, Message: directoryExistsMessageConstant}
	}
	if !errors.Is(statError, fs.ErrNotExist) {
		return fmt.Errorf(inspectDirectoryErrorTemplateConstant, options.Directory, statError)
	}
	if initializeError := controller.versionControl.InitializeRepository(executionContext, options.Directory, scratchBranchNameConstant); initializeError != nil {
		return fmt.Errorf(initializeErrorTemplateConstant, options.Directory, initializeError)
	}
	return nil
}

func (controller *RunController) loadManifest(manifestStore *ManifestStore, resume bool) (*RunManifest, error) {
	if !resume {
		return &RunManifest{Version: manifestVersionConstant, StartedAt: controller.nowFunc()}, nil
	}

	manifest, loadError := manifestStore.Load()
	if loadError != nil {
		return nil, loadError
	}
	if manifest.StartedAt.IsZero() {
		manifest.StartedAt = controller.nowFunc()
	}
	return manifest, nil
}

func (controller *RunController) processRepository(executionContext context.Context, options RunOptions, manifestStore *ManifestStore, manifest *RunManifest, record RepositoryRecord, recordIndex int) error {
	progress := manifest.repositoryProgress(record.TargetName)
	if progress.Completed {
		controller.reporter.RepositorySkipped(record.TargetName, alreadyCompletedReasonConstant)
		return nil
	}

	controller.reporter.RepositoryStarted(record.TargetName, recordIndex+1, len(options.Records))
	controller.logger.Debug(
		repositoryProcessingLogMessageConstant,
		zap.String(repositoryLogFieldConstant, record.TargetName),
		zap.String(sourceLogFieldConstant, record.SourceLocation),
	)

	if remoteError := controller.ensureRemote(executionContext, options.Directory, record); remoteError != nil {
		return remoteError
	}

	if !progress.Fetched {
		if fetchError := controller.versionControl.FetchRemote(executionContext, options.Directory, record.TargetName); fetchError != nil {
			return fmt.Errorf(fetchErrorTemplateConstant, record.TargetName, fetchError)
		}
		progress.Fetched = true
		if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
			return saveError
		}
	}

	if branchError := controller.processBranches(executionContext, options, manifestStore, manifest, record, progress); branchError != nil {
		return branchError
	}
	if tagError := controller.processTags(executionContext, options, manifestStore, manifest, record, progress); tagError != nil {
		return tagError
	}

	progress.Completed = true
	if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
		return saveError
	}
	controller.reporter.RepositoryCompleted(record.TargetName)
	return nil
}

func (controller *RunController) ensureRemote(executionContext context.Context, directoryPath string, record RepositoryRecord) error {
	remotePresent, probeError := controller.versionControl.RemoteExists(executionContext, directoryPath, record.TargetName)
	if probeError != nil {
		return fmt.Errorf(registerRemoteErrorTemplateConstant, record.TargetName, probeError)
	}
	if remotePresent {
		return nil
	}
	if addError := controller.versionControl.AddRemote(executionContext, directoryPath, record.TargetName, record.SourceLocation); addError != nil {
		return fmt.Errorf(registerRemoteErrorTemplateConstant, record.TargetName, addError)
	}
	return nil
}

func (controller *RunController) processBranches(executionContext context.Context, options RunOptions, manifestStore *ManifestStore, manifest *RunManifest, record RepositoryRecord, progress *RepositoryProgress) error {
	branchNames, listError := controller.versionControl.ListRemoteBranches(executionContext, options.Directory, record.TargetName)
	if listError != nil {
		return fmt.Errorf(listBranchesErrorTemplateConstant, record.TargetName, listError)
	}

	for _, branchName := range branchNames {
		refProgress := progress.branchProgress(branchName)
		if refProgress.Status == RefStatusDone || refProgress.Status == RefStatusSkipped {
			continue
		}
		if refProgress.Status == RefStatusStarted {
			if repairError := controller.pipeline.RepairWorkingTree(executionContext, options.Directory); repairError != nil {
				return fmt.Errorf(repairStepErrorTemplateConstant, record.TargetName, branchName, repairError)
			}
			controller.reporter.RefRepaired(record.TargetName, branchName)
		}

		classification, classifyError := controller.classifier.Classify(executionContext, options.Directory, record.TargetName, branchName)
		if classifyError != nil {
			return fmt.Errorf(classifyErrorTemplateConstant, record.TargetName, branchName, classifyError)
		}
		if classification.Decision == MergeDecisionSkip {
			refProgress.Status = RefStatusSkipped
			refProgress.Reason = classification.Reason
			if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
				return saveError
			}
			controller.reporter.BranchSkipped(record.TargetName, branchName, classification.Reason)
			continue
		}

		refProgress.Status = RefStatusStarted
		refProgress.Reason = classification.Reason
		if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
			return saveError
		}

		mergeInputs := BranchMergeInputs{
			RepositoryPath: options.Directory,
			RepositoryName: record.TargetName,
			BranchName:     branchName,
			TargetFolder:   record.TargetFolder,
		}
		if mergeError := controller.pipeline.MergeBranch(executionContext, mergeInputs); mergeError != nil {
			return fmt.Errorf(mergeBranchErrorTemplateConstant, record.TargetName, branchName, mergeError)
		}

		refProgress.Status = RefStatusDone
		if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
			return saveError
		}
		controller.reporter.BranchMerged(record.TargetName, branchName, classification.Reason)
	}
	return nil
}

func (controller *RunController) processTags(executionContext context.Context, options RunOptions, manifestStore *ManifestStore, manifest *RunManifest, record RepositoryRecord, progress *RepositoryProgress) error {
	tagNames, listError := controller.versionControl.ListTags(executionContext, options.Directory)
	if listError != nil {
		return fmt.Errorf(listTagsErrorTemplateConstant, listError)
	}

	for _, tagName := range tagNames {
		if containsPathSeparator(tagName) {
			controller.reporter.TagSkipped(record.TargetName, tagName, alreadyNamespacedReasonConstant)
			continue
		}

		refProgress := progress.tagProgress(tagName)
		if refProgress.Status == RefStatusDone || refProgress.Status == RefStatusSkipped {
			continue
		}
		if refProgress.Status == RefStatusStarted {
			if repairError := controller.pipeline.RepairWorkingTree(executionContext, options.Directory); repairError != nil {
				return fmt.Errorf(repairStepErrorTemplateConstant, record.TargetName, tagName, repairError)
			}
			controller.reporter.RefRepaired(record.TargetName, tagName)
		}

		refProgress.Status = RefStatusStarted
		if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
			return saveError
		}

		tagInputs := TagMergeInputs{
			RepositoryPath: options.Directory,
			RepositoryName: record.TargetName,
			TagName:        tagName,
			TargetFolder:   record.TargetFolder,
		}
		outcome, mergeError := controller.pipeline.MergeTag(executionContext, tagInputs)
		if mergeError != nil {
			return fmt.Errorf(mergeTagErrorTemplateConstant, record.TargetName, tagName, mergeError)
		}

		refProgress.Status = RefStatusDone
		if saveError := controller.saveManifest(manifestStore, manifest); saveError != nil {
			return saveError
		}
		controller.reporter.TagRewritten(record.TargetName, tagName, outcome.NamespacedTagName)
	}
	return nil
}

func (controller *RunController) checkoutPrimaryBranch(executionContext context.Context, options RunOptions) error {
	primaryBranchName := strings.TrimSpace(options.PrimaryBranch)
	if len(primaryBranchName) == 0 {
		primaryBranchName = masterBranchNameConstant
	}

	branchPresent, probeError := controller.versionControl.BranchExists(executionContext, options.Directory, primaryBranchName)
	if probeError != nil {
		return fmt.Errorf(checkoutPrimaryErrorTemplateConstant, primaryBranchName, probeError)
	}
	if !branchPresent {
		controller.reporter.PrimaryBranchMissing(primaryBranchName)
		return nil
	}

	if checkoutError := controller.versionControl.CheckoutBranch(executionContext, options.Directory, primaryBranchName); checkoutError != nil {
		return fmt.Errorf(checkoutPrimaryErrorTemplateConstant, primaryBranchName, checkoutError)
	}
	if resetError := controller.versionControl.ResetHard(executionContext, options.Directory); resetError != nil {
		return fmt.Errorf(checkoutPrimaryErrorTemplateConstant, primaryBranchName, resetError)
	}
	if cleanError := controller.versionControl.RemoveUntrackedFiles(executionContext, options.Directory); cleanError != nil {
		return fmt.Errorf(checkoutPrimaryErrorTemplateConstant, primaryBranchName, cleanError)
	}
	return nil
}

func (controller *RunController) saveManifest(manifestStore *ManifestStore, manifest *RunManifest) error {
	if saveError := manifestStore.Save(manifest); saveError != nil {
		return fmt.Errorf(persistManifestErrorTemplateConstant, saveError)
	}
	return nil
}
