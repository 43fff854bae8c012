package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/repos/shared"
	"github.com/tyemirov/gsync/internal/sync/batch"
)

const (
	noRepositoriesMessageTemplateConstant = "No Git repositories found under %s.\n"
	pullSummaryTemplateConstant           = "\nUpdated %d of %d repositories.\n"
	pullWorkflowNameLogValueConstant      = "pull-all"
	repositoryCountLogFieldConstant       = "repository_count"
	pullServiceDiscovererMissingMessage   = "pull service repository discoverer not configured"
	pullServicePickerMissingMessage       = "pull service directory picker not configured"
	pullServiceExecutorMissingMessage     = "pull service batch executor not configured"
	pullServiceCoordinatorMissingMessage  = "pull service retry coordinator not configured"
	pullServiceOutputMissingMessage       = "pull service output writer not configured"
	pullServiceFactoryMissingMessage      = "pull service operation request factory not configured"
)

var (
	// ErrPullDiscovererMissing indicates a missing repository discoverer.
	ErrPullDiscovererMissing = errors.New(pullServiceDiscovererMissingMessage)
	// ErrPullPickerMissing indicates a missing directory picker.
	ErrPullPickerMissing = errors.New(pullServicePickerMissingMessage)
	// ErrPullExecutorMissing indicates a missing batch executor.
	ErrPullExecutorMissing = errors.New(pullServiceExecutorMissingMessage)
	// ErrPullCoordinatorMissing indicates a missing retry coordinator.
	ErrPullCoordinatorMissing = errors.New(pullServiceCoordinatorMissingMessage)
	// ErrPullOutputMissing indicates a missing output writer.
	ErrPullOutputMissing = errors.New(pullServiceOutputMissingMessage)
	// ErrPullRequestFactoryMissing indicates a missing operation request factory.
	ErrPullRequestFactoryMissing = errors.New(pullServiceFactoryMissingMessage)
)

// PullAllDependencies enumerates the collaborators of PullAllService.
type PullAllDependencies struct {
	Discoverer      shared.RepositoryDiscoverer
	DirectoryPicker DirectoryPicker
	Executor        *batch.Executor
	Coordinator     *batch.Coordinator
	RequestFactory  OperationRequestFactory
	Output          io.Writer
	Logger          *zap.Logger
}

// PullAllOptions tunes one workflow run.
type PullAllOptions struct {
	TargetDirectory string
	BaseDirectory   string
}

// PullAllService fast-forwards every Git repository under a directory.
type PullAllService struct {
	discoverer      shared.RepositoryDiscoverer
	directoryPicker DirectoryPicker
	executor        *batch.Executor
	coordinator     *batch.Coordinator
	requestFactory  OperationRequestFactory
	writer          io.Writer
	logger          *zap.Logger
}

// NewPullAllService validates dependencies and constructs the service.
func NewPullAllService(dependencies PullAllDependencies) (*PullAllService, error) {
	if dependencies.Discoverer == nil {
		return nil, ErrPullDiscovererMissing
	}
	if dependencies.DirectoryPicker == nil {
		return nil, ErrPullPickerMissing
	}
	if dependencies.Executor == nil {
		return nil, ErrPullExecutorMissing
	}
	if dependencies.Coordinator == nil {
		return nil, ErrPullCoordinatorMissing
	}
	if dependencies.RequestFactory == nil {
		return nil, ErrPullRequestFactoryMissing
	}
	if dependencies.Output == nil {
		return nil, ErrPullOutputMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PullAllService{
		discoverer:      dependencies.Discoverer,
		directoryPicker: dependencies.DirectoryPicker,
		executor:        dependencies.Executor,
		coordinator:     dependencies.Coordinator,
		requestFactory:  dependencies.RequestFactory,
		writer:          dependencies.Output,
		logger:          logger,
	}, nil
}

// Execute runs the pull-all workflow end to end.
func (service *PullAllService) Execute(executionContext context.Context, options PullAllOptions) (Summary, error) {
	targetDirectory, directoryCancelled, directoryError := service.resolveTargetDirectory(options)
	if directoryError != nil {
		return Summary{}, directoryError
	}
	if directoryCancelled {
		return Summary{Cancelled: true}, nil
	}

	localRepositories, discoveryError := service.discoverer.DiscoverRepositories(targetDirectory)
	if discoveryError != nil {
		return Summary{}, discoveryError
	}
	if len(localRepositories) == 0 {
		fmt.Fprintf(service.writer, noRepositoriesMessageTemplateConstant, targetDirectory)
		return Summary{}, nil
	}

	service.logger.Info(pullWorkflowNameLogValueConstant,
		zap.String(targetDirectoryLogFieldConstant, targetDirectory),
		zap.Int(repositoryCountLogFieldConstant, len(localRepositories)),
	)

	operationRequests := make([]batch.OperationRequest, 0, len(localRepositories))
	for _, localRepository := range localRepositories {
		operationRequest, requestError := service.requestFactory.PullOperationRequest(localRepository.Path, localRepository.Name)
		if requestError != nil {
			return Summary{}, requestError
		}
		operationRequests = append(operationRequests, operationRequest)
	}

	_, failures := service.executor.Run(executionContext, operationRequests)
	outcome := service.coordinator.Resolve(executionContext, failures)

	summary := Summary{
		Attempted:  len(operationRequests),
		Succeeded:  len(operationRequests) - outcome.UnresolvedCount,
		Unresolved: outcome.UnresolvedCount,
	}

	fmt.Fprintf(service.writer, pullSummaryTemplateConstant, summary.Succeeded, summary.Attempted)
	if summary.Unresolved > 0 {
		fmt.Fprintf(service.writer, unresolvedSummaryTemplateConstant, summary.Unresolved)
	}
	return summary, nil
}

func (service *PullAllService) resolveTargetDirectory(options PullAllOptions) (string, bool, error) {
	trimmedTargetDirectory := strings.TrimSpace(options.TargetDirectory)
	if len(trimmedTargetDirectory) > 0 {
		return trimmedTargetDirectory, false, nil
	}

	baseDirectory := strings.TrimSpace(options.BaseDirectory)
	if len(baseDirectory) == 0 {
		baseDirectory = "."
	}

	pickerOutcome, pickerError := service.directoryPicker.SelectDirectory(baseDirectory)
	if pickerError != nil {
		return "", false, pickerError
	}
	if pickerOutcome.Cancelled {
		return "", true, nil
	}
	return pickerOutcome.SelectedPath, false, nil
}
