// Package sync implements the clone-missing and pull-all workflows that
// reconcile a local directory tree with remote GitHub repositories.
package sync

import (
	"strings"

	"github.com/tyemirov/gsync/internal/repos/shared"
)

// CloneCandidate is a remote repository with no matching local folder.
//
// DisplayIndex is ephemeral: it is assigned per prompt and recomputed
// whenever the candidate listing is rebuilt.
type CloneCandidate struct {
	Repository   shared.OwnerRepository
	FolderName   string
	DisplayIndex int
}

// MissingRepositories returns the remote repositories whose name matches no
// existing local folder.
//
// Folder-name comparison is case-insensitive. Remote ordering is
// preserved and duplicate remote names are kept as distinct
// candidates. DisplayIndex numbers the result 1-based.
func MissingRepositories(remoteRepositories []shared.OwnerRepository, localFolderNames []string) []CloneCandidate {
	occupiedFolderNames := make(map[string]bool, len(localFolderNames))
	for _, localFolderName := range localFolderNames {
		occupiedFolderNames[strings.ToLower(strings.TrimSpace(localFolderName))] = true
	}

	cloneCandidates := make([]CloneCandidate, 0, len(remoteRepositories))
	for _, remoteRepository := range remoteRepositories {
		folderName := remoteRepository.Repository().String()
		if occupiedFolderNames[strings.ToLower(folderName)] {
			continue
		}
		cloneCandidates = append(cloneCandidates, CloneCandidate{
			Repository:   remoteRepository,
			FolderName:   folderName,
			DisplayIndex: len(cloneCandidates) + 1,
		})
	}

	return cloneCandidates
}
