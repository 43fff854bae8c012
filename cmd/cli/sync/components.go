// Package sync assembles the clone and pull workflow commands.
package sync

import (
	"bufio"
	"io"

	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/repos/dependencies"
	"github.com/tyemirov/gsync/internal/repos/shared"
	syncservice "github.com/tyemirov/gsync/internal/sync"
	"github.com/tyemirov/gsync/internal/sync/batch"
	"github.com/tyemirov/gsync/internal/sync/directory"
)

const defaultDirectoryDisplayLimitConstant = 20

// LoggerProvider supplies the structured logger for workflow commands.
type LoggerProvider func() *zap.Logger

type workflowComponents struct {
	gitExecutor    shared.GitExecutor
	executor       *batch.Executor
	coordinator    *batch.Coordinator
	picker         *directory.Selector
	discoverer     shared.RepositoryDiscoverer
	requestFactory syncservice.OperationRequestFactory
	reader         *bufio.Reader
	writer         io.Writer
	logger         *zap.Logger
}

type workflowComponentInputs struct {
	Logger               *zap.Logger
	HumanReadableLogging bool
	GitExecutor          shared.GitExecutor
	Discoverer           shared.RepositoryDiscoverer
	FileSystem           shared.FileSystem
	Input                io.Reader
	Output               io.Writer
	DisplayLimit         int
}

// assembleWorkflowComponents builds the batch engine and interactive collaborators
// shared by the clone and pull workflows. Every interactive component receives the
// same buffered reader so prompts never steal each other's input.
func assembleWorkflowComponents(inputs workflowComponentInputs) (workflowComponents, error) {
	logger := inputs.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(inputs.GitExecutor, logger, inputs.HumanReadableLogging)
	if executorError != nil {
		return workflowComponents{}, executorError
	}

	processRunner, runnerError := batch.NewShellProcessRunner(gitExecutor)
	if runnerError != nil {
		return workflowComponents{}, runnerError
	}

	batchExecutor, batchExecutorError := batch.NewExecutor(processRunner)
	if batchExecutorError != nil {
		return workflowComponents{}, batchExecutorError
	}

	sharedReader := bufio.NewReader(inputs.Input)

	retryCoordinator, coordinatorError := batch.NewCoordinator(batchExecutor, batch.NewIODecisionPrompter(sharedReader, inputs.Output), inputs.Output)
	if coordinatorError != nil {
		return workflowComponents{}, coordinatorError
	}

	displayLimit := inputs.DisplayLimit
	if displayLimit < 1 {
		displayLimit = defaultDirectoryDisplayLimitConstant
	}

	fileSystem := dependencies.ResolveFileSystem(inputs.FileSystem)
	directoryPicker, pickerError := directory.NewSelector(fileSystem, sharedReader, inputs.Output, displayLimit)
	if pickerError != nil {
		return workflowComponents{}, pickerError
	}

	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(nil, gitExecutor)
	if managerError != nil {
		return workflowComponents{}, managerError
	}

	return workflowComponents{
		gitExecutor:    gitExecutor,
		executor:       batchExecutor,
		coordinator:    retryCoordinator,
		picker:         directoryPicker,
		discoverer:     dependencies.ResolveRepositoryDiscoverer(inputs.Discoverer),
		requestFactory: repositoryManager,
		reader:         sharedReader,
		writer:         inputs.Output,
		logger:         logger,
	}, nil
}
