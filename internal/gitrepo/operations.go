package gitrepo

import (
	"strings"

	"github.com/tyemirov/gsync/internal/execshell"
	"github.com/tyemirov/gsync/internal/sync/batch"
)

// cloneArguments renders the single gh invocation shape used for cloning,
// shared by direct execution and batch request construction.
func cloneArguments(qualifiedName string) []string {
	return []string{repoSubcommandConstant, cloneSubcommandConstant, qualifiedName}
}

// pullArguments renders the single git invocation shape used for updating.
func pullArguments() []string {
	return []string{pullSubcommandConstant, pullFastForwardOnlyFlagConstant}
}

// CloneOperationRequest builds the batch operation that clones qualifiedName
// into a new subfolder of parentDirectory.
func (manager *RepositoryManager) CloneOperationRequest(parentDirectory string, qualifiedName string, identifier string) (batch.OperationRequest, error) {
	trimmedParentDirectory := strings.TrimSpace(parentDirectory)
	if len(trimmedParentDirectory) == 0 {
		return batch.OperationRequest{}, ErrParentDirectoryRequired
	}

	trimmedQualifiedName := strings.TrimSpace(qualifiedName)
	if len(trimmedQualifiedName) == 0 {
		return batch.OperationRequest{}, ErrQualifiedNameRequired
	}

	request, requestError := batch.NewOperationRequest(
		execshell.CommandGitHub,
		cloneArguments(trimmedQualifiedName),
		trimmedParentDirectory,
		identifier,
	)
	if requestError != nil {
		return batch.OperationRequest{}, requestError
	}
	return request.WithEnvironment(nonInteractiveGitEnvironment()), nil
}

// PullOperationRequest builds the batch operation that fast-forwards the
// repository at repositoryPath.
func (manager *RepositoryManager) PullOperationRequest(repositoryPath string, identifier string) (batch.OperationRequest, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return batch.OperationRequest{}, ErrRepositoryPathRequired
	}

	request, requestError := batch.NewOperationRequest(
		execshell.CommandGit,
		pullArguments(),
		trimmedRepositoryPath,
		identifier,
	)
	if requestError != nil {
		return batch.OperationRequest{}, requestError
	}
	return request.WithEnvironment(nonInteractiveGitEnvironment()), nil
}
