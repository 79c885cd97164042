package monorepo

import (
	"context"
	"errors"
)

const (
	versionControlMissingMessageConstant    = "version control service not configured"
	classifierMissingMessageConstant        = "branch classifier not configured"
	pipelineMissingMessageConstant          = "history transform pipeline not configured"
	ancestryInspectorMissingMessageConstant = "ancestry inspector not configured"
)

// Sentinel errors returned when required collaborators are missing.
var (
	ErrVersionControlNotConfigured    = errors.New(versionControlMissingMessageConstant)
	ErrClassifierNotConfigured        = errors.New(classifierMissingMessageConstant)
	ErrPipelineNotConfigured          = errors.New(pipelineMissingMessageConstant)
	ErrAncestryInspectorNotConfigured = errors.New(ancestryInspectorMissingMessageConstant)
)

// VersionControlService captures every repository operation a merge run
// performs, so the classifier, pipeline, and controller stay testable
// against recording fakes.
type VersionControlService interface {
	InitializeRepository(executionContext context.Context, repositoryPath string, initialBranchName string) error
	RemoteExists(executionContext context.Context, repositoryPath string, remoteName string) (bool, error)
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteLocation string) error
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	ListRemoteBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error)
	ListTags(executionContext context.Context, repositoryPath string) ([]string, error)
	BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	CreateOrphanBranch(executionContext context.Context, repositoryPath string, branchName string) error
	ClearIndex(executionContext context.Context, repositoryPath string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error
	DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error
	ResetHard(executionContext context.Context, repositoryPath string) error
	RemoveUntrackedFiles(executionContext context.Context, repositoryPath string) error
	IsAncestor(executionContext context.Context, repositoryPath string, candidateReference string, targetReference string) (bool, error)
	RewriteHistoryIntoFolder(executionContext context.Context, repositoryPath string, branchName string, folderName string, temporaryDirectory string) error
	MergeWithoutFastForward(executionContext context.Context, repositoryPath string, reference string) error
	CreateCommit(executionContext context.Context, repositoryPath string, message string) error
	CreateTag(executionContext context.Context, repositoryPath string, tagName string, targetReference string) error
	DeleteTag(executionContext context.Context, repositoryPath string, tagName string) error
}

// RunReporter receives the audit trail of a merge run.
type RunReporter interface {
	RepositoryStarted(repositoryName string, ordinal int, total int)
	RepositorySkipped(repositoryName string, reason string)
	RepositoryCompleted(repositoryName string)
	BranchMerged(repositoryName string, branchName string, reason string)
	BranchSkipped(repositoryName string, branchName string, reason string)
	TagRewritten(repositoryName string, tagName string, namespacedTagName string)
	TagSkipped(repositoryName string, tagName string, reason string)
	RefRepaired(repositoryName string, refName string)
	PrimaryBranchMissing(branchName string)
	RunCompleted(directoryPath string)
}

type noopRunReporter struct{}

func (noopRunReporter) RepositoryStarted(string, int, int)   {}
func (noopRunReporter) RepositorySkipped(string, string)     {}
func (noopRunReporter) RepositoryCompleted(string)           {}
func (noopRunReporter) BranchMerged(string, string, string)  {}
func (noopRunReporter) BranchSkipped(string, string, string) {}
func (noopRunReporter) TagRewritten(string, string, string)  {}
func (noopRunReporter) TagSkipped(string, string, string)    {}
func (noopRunReporter) RefRepaired(string, string)           {}
func (noopRunReporter) PrimaryBranchMissing(string)          {}
func (noopRunReporter) RunCompleted(string)                  {}
