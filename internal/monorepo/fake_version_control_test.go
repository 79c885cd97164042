package monorepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fakeVersionControl simulates just enough repository state for the pipeline
// and controller to run: local branches, remotes with fixed branch lists,
// local tags, and scripted ancestry answers. Every operation is appended to
// an order-preserving log so tests can assert exact sequences, and any
// operation can be scripted to fail by its log line.
type fakeVersionControl struct {
	operations      []string
	localBranches   map[string]bool
	currentBranch   string
	remotes         map[string]bool
	remoteBranches  map[string][]string
	remoteTags      map[string][]string
	tags            []string
	ancestorAnswers map[ancestryQuery]bool
	failures        map[string]error
}

func newFakeVersionControl() *fakeVersionControl {
	return &fakeVersionControl{
		localBranches:   map[string]bool{},
		remotes:         map[string]bool{},
		remoteBranches:  map[string][]string{},
		remoteTags:      map[string][]string{},
		ancestorAnswers: map[ancestryQuery]bool{},
		failures:        map[string]error{},
	}
}

func (fake *fakeVersionControl) record(operation string) error {
	fake.operations = append(fake.operations, operation)
	return fake.failures[operation]
}

func (fake *fakeVersionControl) operationsMatching(prefix string) []string {
	var matching []string
	for _, operation := range fake.operations {
		if strings.HasPrefix(operation, prefix) {
			matching = append(matching, operation)
		}
	}
	return matching
}

func (fake *fakeVersionControl) InitializeRepository(_ context.Context, repositoryPath string, initialBranchName string) error {
	if recordError := fake.record(fmt.Sprintf("init %s %s", repositoryPath, initialBranchName)); recordError != nil {
		return recordError
	}
	return os.MkdirAll(filepath.Join(repositoryPath, ".git"), 0o755)
}

func (fake *fakeVersionControl) RemoteExists(_ context.Context, _ string, remoteName string) (bool, error) {
	if recordError := fake.record(fmt.Sprintf("remote-exists %s", remoteName)); recordError != nil {
		return false, recordError
	}
	return fake.remotes[remoteName], nil
}

func (fake *fakeVersionControl) AddRemote(_ context.Context, _ string, remoteName string, remoteLocation string) error {
	if recordError := fake.record(fmt.Sprintf("remote-add %s %s", remoteName, remoteLocation)); recordError != nil {
		return recordError
	}
	fake.remotes[remoteName] = true
	return nil
}

func (fake *fakeVersionControl) FetchRemote(_ context.Context, _ string, remoteName string) error {
	if recordError := fake.record(fmt.Sprintf("fetch %s", remoteName)); recordError != nil {
		return recordError
	}
	for _, fetchedTag := range fake.remoteTags[remoteName] {
		fake.addTag(fetchedTag)
	}
	return nil
}

func (fake *fakeVersionControl) ListRemoteBranches(_ context.Context, _ string, remoteName string) ([]string, error) {
	if recordError := fake.record(fmt.Sprintf("list-branches %s", remoteName)); recordError != nil {
		return nil, recordError
	}
	return append([]string(nil), fake.remoteBranches[remoteName]...), nil
}

func (fake *fakeVersionControl) ListTags(_ context.Context, _ string) ([]string, error) {
	if recordError := fake.record("list-tags"); recordError != nil {
		return nil, recordError
	}
	return append([]string(nil), fake.tags...), nil
}

func (fake *fakeVersionControl) BranchExists(_ context.Context, _ string, branchName string) (bool, error) {
	if recordError := fake.record(fmt.Sprintf("branch-exists %s", branchName)); recordError != nil {
		return false, recordError
	}
	return fake.localBranches[branchName], nil
}

func (fake *fakeVersionControl) CheckoutBranch(_ context.Context, _ string, branchName string) error {
	if recordError := fake.record(fmt.Sprintf("checkout %s", branchName)); recordError != nil {
		return recordError
	}
	fake.currentBranch = branchName
	return nil
}

func (fake *fakeVersionControl) CreateOrphanBranch(_ context.Context, _ string, branchName string) error {
	if recordError := fake.record(fmt.Sprintf("checkout-orphan %s", branchName)); recordError != nil {
		return recordError
	}
	fake.currentBranch = branchName
	return nil
}

func (fake *fakeVersionControl) ClearIndex(_ context.Context, _ string) error {
	return fake.record("clear-index")
}

func (fake *fakeVersionControl) CreateBranch(_ context.Context, _ string, branchName string, startPoint string) error {
	if recordError := fake.record(fmt.Sprintf("branch %s %s", branchName, startPoint)); recordError != nil {
		return recordError
	}
	fake.localBranches[branchName] = true
	return nil
}

func (fake *fakeVersionControl) DeleteBranch(_ context.Context, _ string, branchName string) error {
	if recordError := fake.record(fmt.Sprintf("delete-branch %s", branchName)); recordError != nil {
		return recordError
	}
	fake.localBranches[branchName] = false
	return nil
}

func (fake *fakeVersionControl) ResetHard(_ context.Context, _ string) error {
	return fake.record("reset-hard")
}

func (fake *fakeVersionControl) RemoveUntrackedFiles(_ context.Context, _ string) error {
	return fake.record("clean")
}

func (fake *fakeVersionControl) IsAncestor(_ context.Context, _ string, candidateReference string, targetReference string) (bool, error) {
	if recordError := fake.record(fmt.Sprintf("is-ancestor %s %s", candidateReference, targetReference)); recordError != nil {
		return false, recordError
	}
	return fake.ancestorAnswers[ancestryQuery{candidateReference: candidateReference, targetReference: targetReference}], nil
}

func (fake *fakeVersionControl) RewriteHistoryIntoFolder(_ context.Context, _ string, branchName string, folderName string, temporaryDirectory string) error {
	return fake.record(fmt.Sprintf("rewrite %s %s %s", branchName, folderName, temporaryDirectory))
}

func (fake *fakeVersionControl) MergeWithoutFastForward(_ context.Context, _ string, reference string) error {
	return fake.record(fmt.Sprintf("merge %s", reference))
}

func (fake *fakeVersionControl) CreateCommit(_ context.Context, _ string, message string) error {
	if recordError := fake.record(fmt.Sprintf("commit %s", message)); recordError != nil {
		return recordError
	}
	if len(fake.currentBranch) > 0 {
		fake.localBranches[fake.currentBranch] = true
	}
	return nil
}

func (fake *fakeVersionControl) CreateTag(_ context.Context, _ string, tagName string, targetReference string) error {
	if recordError := fake.record(fmt.Sprintf("tag %s %s", tagName, targetReference)); recordError != nil {
		return recordError
	}
	fake.addTag(tagName)
	return nil
}

func (fake *fakeVersionControl) DeleteTag(_ context.Context, _ string, tagName string) error {
	if recordError := fake.record(fmt.Sprintf("delete-tag %s", tagName)); recordError != nil {
		return recordError
	}
	remaining := fake.tags[:0]
	for _, existingTag := range fake.tags {
		if existingTag != tagName {
			remaining = append(remaining, existingTag)
		}
	}
	fake.tags = remaining
	return nil
}

func (fake *fakeVersionControl) addTag(tagName string) {
	for _, existingTag := range fake.tags {
		if existingTag == tagName {
			return
		}
	}
	fake.tags = append(fake.tags, tagName)
}
