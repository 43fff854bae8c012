package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tyemirov/gsync/internal/repos/filesystem"
	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	gitMetadataDirectoryNameConstant     = ".git"
	rootDirectoryRequiredMessageConstant = "root directory must be provided"
	directoryListErrorTemplateConstant   = "unable to list directory %s: %w"
	directoryResolveErrorTemplate        = "unable to resolve directory %s: %w"
)

// ErrRootDirectoryRequired indicates the scan root was empty.
var ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessageConstant)

// FilesystemRepositoryDiscoverer scans directories for Git repositories.
type FilesystemRepositoryDiscoverer struct {
	fileSystem shared.FileSystem
}

// NewFilesystemRepositoryDiscoverer constructs a discoverer backed by the OS filesystem.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{fileSystem: filesystem.OSFileSystem{}}
}

// NewFilesystemRepositoryDiscovererWithFileSystem constructs a discoverer over the provided filesystem.
func NewFilesystemRepositoryDiscovererWithFileSystem(fileSystem shared.FileSystem) *FilesystemRepositoryDiscoverer {
	if fileSystem == nil {
		return NewFilesystemRepositoryDiscoverer()
	}
	return &FilesystemRepositoryDiscoverer{fileSystem: fileSystem}
}

// DiscoverRepositories returns immediate subdirectories containing a Git metadata folder, sorted by name.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(rootDirectory string) ([]shared.LocalRepository, error) {
	absoluteRoot, rootError := discoverer.resolveRoot(rootDirectory)
	if rootError != nil {
		return nil, rootError
	}

	directoryEntries, listError := discoverer.fileSystem.ReadDir(absoluteRoot)
	if listError != nil {
		return nil, fmt.Errorf(directoryListErrorTemplateConstant, absoluteRoot, listError)
	}

	localRepositories := make([]shared.LocalRepository, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}

		candidatePath := filepath.Join(absoluteRoot, directoryEntry.Name())
		markerInfo, markerError := discoverer.fileSystem.Stat(filepath.Join(candidatePath, gitMetadataDirectoryNameConstant))
		if markerError != nil || !markerInfo.IsDir() {
			continue
		}

		localRepositories = append(localRepositories, shared.LocalRepository{
			Name: directoryEntry.Name(),
			Path: candidatePath,
		})
	}

	sort.Slice(localRepositories, func(firstIndex int, secondIndex int) bool {
		return localRepositories[firstIndex].Name < localRepositories[secondIndex].Name
	})

	return localRepositories, nil
}

// ListDirectoryNames returns the names of ALL immediate subdirectories of the root.
//
// The clone workflow compares remote repository names against every
// existing folder, not only Git repositories, so that a same-named
// plain directory still blocks cloning into an occupied destination.
func (discoverer *FilesystemRepositoryDiscoverer) ListDirectoryNames(rootDirectory string) ([]string, error) {
	absoluteRoot, rootError := discoverer.resolveRoot(rootDirectory)
	if rootError != nil {
		return nil, rootError
	}

	directoryEntries, listError := discoverer.fileSystem.ReadDir(absoluteRoot)
	if listError != nil {
		return nil, fmt.Errorf(directoryListErrorTemplateConstant, absoluteRoot, listError)
	}

	directoryNames := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		directoryNames = append(directoryNames, directoryEntry.Name())
	}

	return directoryNames, nil
}

func (discoverer *FilesystemRepositoryDiscoverer) resolveRoot(rootDirectory string) (string, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		return "", ErrRootDirectoryRequired
	}

	absoluteRoot, absoluteError := discoverer.fileSystem.Abs(trimmedRoot)
	if absoluteError != nil {
		return "", fmt.Errorf(directoryResolveErrorTemplate, trimmedRoot, absoluteError)
	}

	return absoluteRoot, nil
}
