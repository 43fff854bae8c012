package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/tyemirov/gsync/internal/execshell"
	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	executorNotConfiguredMessageConstant        = "git repository manager executor not configured"
	parentDirectoryRequiredMessageConstant      = "clone parent directory must be provided"
	qualifiedNameRequiredMessageConstant        = "qualified repository name must be provided"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	cloneSubcommandConstant                     = "clone"
	repoSubcommandConstant                      = "repo"
	pullSubcommandConstant                      = "pull"
	pullFastForwardOnlyFlagConstant             = "--ff-only"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
)

// ErrExecutorNotConfigured indicates the repository manager was built without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrParentDirectoryRequired indicates the clone destination parent was empty.
var ErrParentDirectoryRequired = errors.New(parentDirectoryRequiredMessageConstant)

// ErrQualifiedNameRequired indicates the owner/name tuple was empty.
var ErrQualifiedNameRequired = errors.New(qualifiedNameRequiredMessageConstant)

// ErrRepositoryPathRequired indicates the pull target path was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// RepositoryManager performs repository-level operations through the shell executor.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager bound to the provided executor.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CloneRepository clones owner/name into a new subfolder of parentDirectory.
//
// The GitHub CLI creates the destination folder itself, so the working
// directory is the PARENT of the future repository, never the
// repository path.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, parentDirectory string, qualifiedName string) (execshell.ExecutionResult, error) {
	trimmedParentDirectory := strings.TrimSpace(parentDirectory)
	if len(trimmedParentDirectory) == 0 {
		return execshell.ExecutionResult{}, ErrParentDirectoryRequired
	}

	trimmedQualifiedName := strings.TrimSpace(qualifiedName)
	if len(trimmedQualifiedName) == 0 {
		return execshell.ExecutionResult{}, ErrQualifiedNameRequired
	}

	return manager.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{
		Arguments:            cloneArguments(trimmedQualifiedName),
		WorkingDirectory:     trimmedParentDirectory,
		EnvironmentVariables: nonInteractiveGitEnvironment(),
	})
}

// PullFastForward updates the repository at repositoryPath, refusing to merge diverged history.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) (execshell.ExecutionResult, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return execshell.ExecutionResult{}, ErrRepositoryPathRequired
	}

	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            pullArguments(),
		WorkingDirectory:     trimmedRepositoryPath,
		EnvironmentVariables: nonInteractiveGitEnvironment(),
	})
}

func nonInteractiveGitEnvironment() map[string]string {
	return map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant}
}
