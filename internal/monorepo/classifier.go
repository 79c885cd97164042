package monorepo

import (
	"context"
	"fmt"
	"strings"
)

const (
	developBranchNameConstant = "develop"
	masterBranchNameConstant  = "master"

	featureNameFragmentConstant = "feature"
	developNameFragmentConstant = "develop"
	masterNameFragmentConstant  = "master"
	releaseNameFragmentConstant = "release"

	remoteTrackingReferenceTemplateConstant = "refs/remotes/%s/%s"
	ancestryQueryErrorTemplateConstant      = "failed to test ancestry of %s against %s: %w"

	mergeFeatureReasonConstant           = "feature branch not merged into develop"
	skipFeatureReasonConstant            = "feature branch already merged into develop"
	mergeDevelopReasonConstant           = "develop branch always merges"
	mergeMasterReasonConstant            = "master branch always merges"
	mergeReleaseReasonConstant           = "release branch always merges"
	mergeIndependentReasonConstant       = "branch not contained in master or develop"
	skipContainedInMasterReasonConstant  = "branch already contained in master"
	skipContainedInDevelopReasonConstant = "branch already contained in develop"
)

// MergeDecision states whether a branch's history enters the monorepo.
type MergeDecision string

// Merge decisions.
const (
	MergeDecisionMerge MergeDecision = "merge"
	MergeDecisionSkip  MergeDecision = "skip"
)

// BranchCategory names the naming-convention bucket a branch falls into.
type BranchCategory string

// Branch categories, assigned by the first matching name fragment.
const (
	BranchCategoryFeature BranchCategory = "feature"
	BranchCategoryDevelop BranchCategory = "develop"
	BranchCategoryMaster  BranchCategory = "master"
	BranchCategoryRelease BranchCategory = "release"
	BranchCategoryOther   BranchCategory = "other"
)

// BranchClassification captures the decision for one branch together with the
// reason line reported on the audit trail.
type BranchClassification struct {
	Decision MergeDecision
	Category BranchCategory
	Reason   string
}

// AncestryInspector answers whether one commit is reachable from another.
type AncestryInspector interface {
	IsAncestor(executionContext context.Context, repositoryPath string, candidateReference string, targetReference string) (bool, error)
}

// branchCategoryRule assigns a category when the branch short name contains
// the fragment. Rules are consulted in order; the first match wins.
type branchCategoryRule struct {
	nameFragment string
	category     BranchCategory
}

var branchCategoryRules = []branchCategoryRule{
	{nameFragment: featureNameFragmentConstant, category: BranchCategoryFeature},
	{nameFragment: developNameFragmentConstant, category: BranchCategoryDevelop},
	{nameFragment: masterNameFragmentConstant, category: BranchCategoryMaster},
	{nameFragment: releaseNameFragmentConstant, category: BranchCategoryRelease},
}

func categorizeBranch(branchName string) BranchCategory {
	for _, rule := range branchCategoryRules {
		if strings.Contains(branchName, rule.nameFragment) {
			return rule.category
		}
	}
	return BranchCategoryOther
}

// BranchClassifier decides which source branches are merged into the monorepo.
type BranchClassifier struct {
	ancestryInspector AncestryInspector
}

// NewBranchClassifier constructs a BranchClassifier backed by the provided inspector.
func NewBranchClassifier(ancestryInspector AncestryInspector) (*BranchClassifier, error) {
	if ancestryInspector == nil {
		return nil, ErrAncestryInspectorNotConfigured
	}
	return &BranchClassifier{ancestryInspector: ancestryInspector}, nil
}

// Classify decides whether the named branch of the named repository merges.
// Matching on the branch short name is case-sensitive, and ancestry runs
// against the repository's remote-qualified refs. An ancestry query that
// fails because a consulted ref does not exist aborts the run.
func (classifier *BranchClassifier) Classify(executionContext context.Context, repositoryPath string, repositoryName string, branchName string) (BranchClassification, error) {
	category := categorizeBranch(branchName)
	switch category {
	case BranchCategoryFeature:
		return classifier.classifyFeatureBranch(executionContext, repositoryPath, repositoryName, branchName)
	case BranchCategoryDevelop:
		return BranchClassification{Decision: MergeDecisionMerge, Category: category, Reason: mergeDevelopReasonConstant}, nil
	case BranchCategoryMaster:
		return BranchClassification{Decision: MergeDecisionMerge, Category: category, Reason: mergeMasterReasonConstant}, nil
	case BranchCategoryRelease:
		return BranchClassification{Decision: MergeDecisionMerge, Category: category, Reason: mergeReleaseReasonConstant}, nil
	default:
		return classifier.classifyOtherBranch(executionContext, repositoryPath, repositoryName, branchName)
	}
}

func (classifier *BranchClassifier) classifyFeatureBranch(executionContext context.Context, repositoryPath string, repositoryName string, branchName string) (BranchClassification, error) {
	containedInDevelop, ancestryError := classifier.branchContainedIn(executionContext, repositoryPath, repositoryName, branchName, developBranchNameConstant)
	if ancestryError != nil {
		return BranchClassification{}, ancestryError
	}
	if containedInDevelop {
		return BranchClassification{Decision: MergeDecisionSkip, Category: BranchCategoryFeature, Reason: skipFeatureReasonConstant}, nil
	}
	return BranchClassification{Decision: MergeDecisionMerge, Category: BranchCategoryFeature, Reason: mergeFeatureReasonConstant}, nil
}

func (classifier *BranchClassifier) classifyOtherBranch(executionContext context.Context, repositoryPath string, repositoryName string, branchName string) (BranchClassification, error) {
	containedInMaster, masterAncestryError := classifier.branchContainedIn(executionContext, repositoryPath, repositoryName, branchName, masterBranchNameConstant)
	if masterAncestryError != nil {
		return BranchClassification{}, masterAncestryError
	}
	if containedInMaster {
		return BranchClassification{Decision: MergeDecisionSkip, Category: BranchCategoryOther, Reason: skipContainedInMasterReasonConstant}, nil
	}

	containedInDevelop, developAncestryError := classifier.branchContainedIn(executionContext, repositoryPath, repositoryName, branchName, developBranchNameConstant)
	if developAncestryError != nil {
		return BranchClassification{}, developAncestryError
	}
	if containedInDevelop {
		return BranchClassification{Decision: MergeDecisionSkip, Category: BranchCategoryOther, Reason: skipContainedInDevelopReasonConstant}, nil
	}

	return BranchClassification{Decision: MergeDecisionMerge, Category: BranchCategoryOther, Reason: mergeIndependentReasonConstant}, nil
}

// branchContainedIn reports whether the branch tip is an ancestor of (or equal
// to) the repository's trunk branch of the provided name.
func (classifier *BranchClassifier) branchContainedIn(executionContext context.Context, repositoryPath string, repositoryName string, branchName string, trunkBranchName string) (bool, error) {
	candidateReference := remoteTrackingReference(repositoryName, branchName)
	trunkReference := remoteTrackingReference(repositoryName, trunkBranchName)
	contained, ancestryError := classifier.ancestryInspector.IsAncestor(executionContext, repositoryPath, candidateReference, trunkReference)
	if ancestryError != nil {
		return false, fmt.Errorf(ancestryQueryErrorTemplateConstant, candidateReference, trunkReference, ancestryError)
	}
	return contained, nil
}

func remoteTrackingReference(repositoryName string, branchName string) string {
	return fmt.Sprintf(remoteTrackingReferenceTemplateConstant, repositoryName, branchName)
}
