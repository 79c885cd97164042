package monorepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	gitDirectoryNameConstant = ".git"
	manifestFileNameConstant = "gomono-run.yaml"
	manifestVersionConstant  = 1

	manifestFilePermissionsConstant = 0o644

	manifestReadErrorTemplateConstant   = "failed to read run manifest: %w"
	manifestDecodeErrorTemplateConstant = "failed to decode run manifest: %w"
	manifestEncodeErrorTemplateConstant = "failed to encode run manifest: %w"
	manifestWriteErrorTemplateConstant  = "failed to write run manifest: %w"
)

// RefStatus tracks how far a single branch or tag has progressed.
type RefStatus string

// Ref statuses persisted in the run manifest.
const (
	RefStatusPending RefStatus = "pending"
	RefStatusStarted RefStatus = "started"
	RefStatusDone    RefStatus = "done"
	RefStatusSkipped RefStatus = "skipped"
)

// RefProgress records the state of one branch or tag of one repository.
type RefProgress struct {
	Name   string    `yaml:"name"`
	Status RefStatus `yaml:"status"`
	Reason string    `yaml:"reason,omitempty"`
}

// RepositoryProgress records how far one catalog record has progressed.
type RepositoryProgress struct {
	Name      string        `yaml:"name"`
	Fetched   bool          `yaml:"fetched"`
	Completed bool          `yaml:"completed"`
	Branches  []RefProgress `yaml:"branches,omitempty"`
	Tags      []RefProgress `yaml:"tags,omitempty"`
}

// RunManifest is the persisted state of a merge run. It lives inside the
// monorepo's .git directory so working-tree cleanup cannot delete it.
type RunManifest struct {
	Version      int                  `yaml:"version"`
	StartedAt    time.Time            `yaml:"started_at"`
	Repositories []RepositoryProgress `yaml:"repositories"`
}

// repositoryProgress returns the progress entry for the named repository,
// appending a fresh one when the repository has not been seen yet.
func (manifest *RunManifest) repositoryProgress(repositoryName string) *RepositoryProgress {
	for progressIndex := range manifest.Repositories {
		if manifest.Repositories[progressIndex].Name == repositoryName {
			return &manifest.Repositories[progressIndex]
		}
	}
	manifest.Repositories = append(manifest.Repositories, RepositoryProgress{Name: repositoryName})
	return &manifest.Repositories[len(manifest.Repositories)-1]
}

func (progress *RepositoryProgress) branchProgress(branchName string) *RefProgress {
	return findOrAppendRefProgress(&progress.Branches, branchName)
}

func (progress *RepositoryProgress) tagProgress(tagName string) *RefProgress {
	return findOrAppendRefProgress(&progress.Tags, tagName)
}

func findOrAppendRefProgress(refs *[]RefProgress, refName string) *RefProgress {
	for refIndex := range *refs {
		if (*refs)[refIndex].Name == refName {
			return &(*refs)[refIndex]
		}
	}
	*refs = append(*refs, RefProgress{Name: refName, Status: RefStatusPending})
	return &(*refs)[len(*refs)-1]
}

// ManifestStore persists the run manifest as YAML under the monorepo's .git
// directory.
type ManifestStore struct {
	manifestPath string
}

// NewManifestStore builds a store for the monorepo at repositoryPath.
func NewManifestStore(repositoryPath string) *ManifestStore {
	return &ManifestStore{
		manifestPath: filepath.Join(repositoryPath, gitDirectoryNameConstant, manifestFileNameConstant),
	}
}

// Load reads the persisted manifest. A missing manifest file yields an empty
// manifest, which makes resuming a pre-manifest monorepo re-derive every step.
func (store *ManifestStore) Load() (*RunManifest, error) {
	manifestContent, readError := os.ReadFile(store.manifestPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return &RunManifest{Version: manifestVersionConstant}, nil
		}
		return nil, fmt.Errorf(manifestReadErrorTemplateConstant, readError)
	}

	manifest := &RunManifest{}
	if decodeError := yaml.Unmarshal(manifestContent, manifest); decodeError != nil {
		return nil, fmt.Errorf(manifestDecodeErrorTemplateConstant, decodeError)
	}
	return manifest, nil
}

// Save writes the manifest, replacing any previous revision.
func (store *ManifestStore) Save(manifest *RunManifest) error {
	manifestContent, encodeError := yaml.Marshal(manifest)
	if encodeError != nil {
		return fmt.Errorf(manifestEncodeErrorTemplateConstant, encodeError)
	}
	if writeError := os.WriteFile(store.manifestPath, manifestContent, manifestFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(manifestWriteErrorTemplateConstant, writeError)
	}
	return nil
}
