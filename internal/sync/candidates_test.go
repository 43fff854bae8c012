package sync_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/gsync/internal/repos/shared"
	"github.com/tyemirov/gsync/internal/sync"
)

func ownerRepository(t *testing.T, qualifiedName string) shared.OwnerRepository {
	t.Helper()
	parsed, parseError := shared.NewOwnerRepository(qualifiedName)
	require.NoError(t, parseError)
	return parsed
}

func candidateNames(candidates []sync.CloneCandidate) []string {
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		names = append(names, candidate.Repository.String())
	}
	return names
}

func TestMissingRepositories(t *testing.T) {
	testCases := []struct {
		name             string
		remoteNames      []string
		localFolderNames []string
		expectedNames    []string
	}{
		{
			name:             "empty remote yields empty",
			remoteNames:      nil,
			localFolderNames: []string{"web"},
			expectedNames:    nil,
		},
		{
			name:             "empty local keeps everything",
			remoteNames:      []string{"acme/web", "acme/api"},
			localFolderNames: nil,
			expectedNames:    []string{"acme/web", "acme/api"},
		},
		{
			name:             "matching folders are excluded",
			remoteNames:      []string{"acme/web", "acme/api", "acme/tools"},
			localFolderNames: []string{"api"},
			expectedNames:    []string{"acme/web", "acme/tools"},
		},
		{
			name:             "comparison is case insensitive",
			remoteNames:      []string{"acme/Web", "acme/API"},
			localFolderNames: []string{"web", "Api"},
			expectedNames:    nil,
		},
		{
			name:             "remote order is preserved",
			remoteNames:      []string{"acme/zeta", "acme/alpha", "acme/mid"},
			localFolderNames: []string{"mid"},
			expectedNames:    []string{"acme/zeta", "acme/alpha"},
		},
		{
			name:             "duplicate remote names are kept",
			remoteNames:      []string{"acme/web", "globex/web"},
			localFolderNames: nil,
			expectedNames:    []string{"acme/web", "globex/web"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			remoteRepositories := make([]shared.OwnerRepository, 0, len(testCase.remoteNames))
			for _, remoteName := range testCase.remoteNames {
				remoteRepositories = append(remoteRepositories, ownerRepository(t, remoteName))
			}

			candidates := sync.MissingRepositories(remoteRepositories, testCase.localFolderNames)

			require.Equal(t, testCase.expectedNames, candidateNames(candidates))
		})
	}
}

func TestMissingRepositoriesAssignsSequentialDisplayIndices(t *testing.T) {
	remoteRepositories := []shared.OwnerRepository{
		ownerRepository(t, "acme/web"),
		ownerRepository(t, "acme/api"),
		ownerRepository(t, "acme/tools"),
	}

	candidates := sync.MissingRepositories(remoteRepositories, []string{"api"})

	require.Len(t, candidates, 2)
	require.Equal(t, 1, candidates[0].DisplayIndex)
	require.Equal(t, 2, candidates[1].DisplayIndex)
	require.Equal(t, "web", candidates[0].FolderName)
	require.Equal(t, "tools", candidates[1].FolderName)
}
