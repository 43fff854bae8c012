package sync

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/repos/shared"
	"github.com/tyemirov/gsync/internal/sync/batch"
	"github.com/tyemirov/gsync/internal/sync/directory"
	"github.com/tyemirov/gsync/internal/sync/selection"
)

const (
	authenticationRequiredMessageConstant = "github cli reports no authenticated user"

	ownerListingHeaderConstant          = "\nSelect the repository owner:\n"
	ownerListingEntryTemplateConstant   = "  %d) %s\n"
	ownerListingSelfSuffixConstant      = " (you)"
	ownerPromptConstant                 = "Owner number (q to cancel): "
	ownerInvalidMessageConstant         = "Enter one of the listed numbers.\n"
	nothingMissingMessageConstant       = "Every remote repository already has a local folder. Nothing to clone.\n"
	candidateListingHeaderConstant      = "\nRepositories without a local folder:\n"
	candidateListingEntryTemplate       = "  %d) %s\n"
	candidateSelectionPromptConstant    = "Select repositories to clone (numbers, ranges, A for all, Q to cancel): "
	selectionEmptyMessageConstant       = "No repositories selected.\n"
	cloneConfirmationPromptTemplate     = "Clone %d repositories into %s? [y/N] "
	cloneCancelledMessageConstant       = "Clone cancelled.\n"
	cloneSummaryTemplateConstant        = "\nCloned %d of %d repositories.\n"
	unresolvedSummaryTemplateConstant   = "%d repositories remain unresolved.\n"
	cloneWorkflowNameLogValueConstant   = "clone-missing"
	initialFailureCountLogFieldConstant = "initial_failure_count"
	succeededCountLogFieldConstant      = "succeeded_count"
	ownerLogFieldConstant               = "owner"
	targetDirectoryLogFieldConstant     = "target_directory"
	candidateCountLogFieldConstant      = "candidate_count"
	selectedCountLogFieldConstant       = "selected_count"
	cloneServiceClientMissingMessage    = "clone service github client not configured"
	cloneServiceDiscovererMissing       = "clone service repository discoverer not configured"
	cloneServicePickerMissingMessage    = "clone service directory picker not configured"
	cloneServiceExecutorMissingMessage  = "clone service batch executor not configured"
	cloneServiceResolverMissingMessage  = "clone service retry coordinator not configured"
	cloneServicePrompterMissingMessage  = "clone service confirmation prompter not configured"
	cloneServiceInputMissingMessage     = "clone service input reader not configured"
	cloneServiceOutputMissingMessage    = "clone service output writer not configured"
	cloneServiceFactoryMissingMessage   = "clone service operation request factory not configured"
)

// ErrAuthenticationRequired signals that no GitHub login could be resolved.
//
// Callers treat this as recoverable: the operator can authenticate and
// re-run the workflow without restarting the program.
var ErrAuthenticationRequired = errors.New(authenticationRequiredMessageConstant)

var (
	// ErrCloneClientMissing indicates a missing GitHub metadata client.
	ErrCloneClientMissing = errors.New(cloneServiceClientMissingMessage)
	// ErrCloneDiscovererMissing indicates a missing repository discoverer.
	ErrCloneDiscovererMissing = errors.New(cloneServiceDiscovererMissing)
	// ErrClonePickerMissing indicates a missing directory picker.
	ErrClonePickerMissing = errors.New(cloneServicePickerMissingMessage)
	// ErrCloneExecutorMissing indicates a missing batch executor.
	ErrCloneExecutorMissing = errors.New(cloneServiceExecutorMissingMessage)
	// ErrCloneCoordinatorMissing indicates a missing retry coordinator.
	ErrCloneCoordinatorMissing = errors.New(cloneServiceResolverMissingMessage)
	// ErrClonePrompterMissing indicates a missing confirmation prompter.
	ErrClonePrompterMissing = errors.New(cloneServicePrompterMissingMessage)
	// ErrCloneInputMissing indicates a missing input reader.
	ErrCloneInputMissing = errors.New(cloneServiceInputMissingMessage)
	// ErrCloneOutputMissing indicates a missing output writer.
	ErrCloneOutputMissing = errors.New(cloneServiceOutputMissingMessage)
	// ErrCloneRequestFactoryMissing indicates a missing operation request factory.
	ErrCloneRequestFactoryMissing = errors.New(cloneServiceFactoryMissingMessage)
)

// GitHubMetadataClient resolves owners and lists remote repositories.
type GitHubMetadataClient interface {
	ResolveAuthenticatedLogin(executionContext context.Context) (string, error)
	ListOrganizations(executionContext context.Context) []string
	ListOwnerRepositories(executionContext context.Context, owner string) ([]shared.OwnerRepository, error)
}

// DirectoryPicker selects the workflow target directory.
type DirectoryPicker interface {
	SelectDirectory(basePath string) (directory.Outcome, error)
}

// Summary reports how a workflow run ended.
type Summary struct {
	Cancelled  bool
	Attempted  int
	Succeeded  int
	Unresolved int
}

// CloneMissingDependencies enumerates the collaborators of CloneMissingService.
type CloneMissingDependencies struct {
	GitHubClient    GitHubMetadataClient
	Discoverer      shared.RepositoryDiscoverer
	DirectoryPicker DirectoryPicker
	Executor        *batch.Executor
	Coordinator     *batch.Coordinator
	Prompter        shared.ConfirmationPrompter
	RequestFactory  OperationRequestFactory
	Input           io.Reader
	Output          io.Writer
	Logger          *zap.Logger
}

// CloneMissingOptions tunes one workflow run.
type CloneMissingOptions struct {
	Owner           string
	TargetDirectory string
	BaseDirectory   string
}

// CloneMissingService clones remote repositories that have no local folder.
type CloneMissingService struct {
	githubClient    GitHubMetadataClient
	discoverer      shared.RepositoryDiscoverer
	directoryPicker DirectoryPicker
	executor        *batch.Executor
	coordinator     *batch.Coordinator
	prompter        shared.ConfirmationPrompter
	requestFactory  OperationRequestFactory
	reader          *bufio.Reader
	writer          io.Writer
	logger          *zap.Logger
}

// NewCloneMissingService validates dependencies and constructs the service.
func NewCloneMissingService(dependencies CloneMissingDependencies) (*CloneMissingService, error) {
	if dependencies.GitHubClient == nil {
		return nil, ErrCloneClientMissing
	}
	if dependencies.Discoverer == nil {
		return nil, ErrCloneDiscovererMissing
	}
	if dependencies.DirectoryPicker == nil {
		return nil, ErrClonePickerMissing
	}
	if dependencies.Executor == nil {
		return nil, ErrCloneExecutorMissing
	}
	if dependencies.Coordinator == nil {
		return nil, ErrCloneCoordinatorMissing
	}
	if dependencies.Prompter == nil {
		return nil, ErrClonePrompterMissing
	}
	if dependencies.RequestFactory == nil {
		return nil, ErrCloneRequestFactoryMissing
	}
	if dependencies.Input == nil {
		return nil, ErrCloneInputMissing
	}
	if dependencies.Output == nil {
		return nil, ErrCloneOutputMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CloneMissingService{
		githubClient:    dependencies.GitHubClient,
		discoverer:      dependencies.Discoverer,
		directoryPicker: dependencies.DirectoryPicker,
		executor:        dependencies.Executor,
		coordinator:     dependencies.Coordinator,
		prompter:        dependencies.Prompter,
		requestFactory:  dependencies.RequestFactory,
		reader:          bufio.NewReader(dependencies.Input),
		writer:          dependencies.Output,
		logger:          logger,
	}, nil
}

// Execute runs the clone-missing workflow end to end.
//
// Cancelling at any prompt ends the run with zero operations executed.
func (service *CloneMissingService) Execute(executionContext context.Context, options CloneMissingOptions) (Summary, error) {
	ownerName, ownerCancelled, ownerError := service.resolveOwner(executionContext, options.Owner)
	if ownerError != nil {
		return Summary{}, ownerError
	}
	if ownerCancelled {
		return Summary{Cancelled: true}, nil
	}

	targetDirectory, directoryCancelled, directoryError := service.resolveTargetDirectory(options)
	if directoryError != nil {
		return Summary{}, directoryError
	}
	if directoryCancelled {
		return Summary{Cancelled: true}, nil
	}

	service.logger.Info(cloneWorkflowNameLogValueConstant,
		zap.String(ownerLogFieldConstant, ownerName),
		zap.String(targetDirectoryLogFieldConstant, targetDirectory),
	)

	remoteRepositories, listError := service.githubClient.ListOwnerRepositories(executionContext, ownerName)
	if listError != nil {
		return Summary{}, listError
	}

	localFolderNames, scanError := service.discoverer.ListDirectoryNames(targetDirectory)
	if scanError != nil {
		return Summary{}, scanError
	}

	cloneCandidates := MissingRepositories(remoteRepositories, localFolderNames)
	if len(cloneCandidates) == 0 {
		fmt.Fprint(service.writer, nothingMissingMessageConstant)
		return Summary{}, nil
	}

	selectedCandidates, selectionCancelled := service.promptCandidateSelection(cloneCandidates)
	if selectionCancelled {
		return Summary{Cancelled: true}, nil
	}

	confirmation, confirmationError := service.prompter.Confirm(fmt.Sprintf(cloneConfirmationPromptTemplate, len(selectedCandidates), targetDirectory))
	if confirmationError != nil || !confirmation.Confirmed {
		fmt.Fprint(service.writer, cloneCancelledMessageConstant)
		return Summary{Cancelled: true}, nil
	}

	service.logger.Info(cloneWorkflowNameLogValueConstant,
		zap.Int(candidateCountLogFieldConstant, len(cloneCandidates)),
		zap.Int(selectedCountLogFieldConstant, len(selectedCandidates)),
	)

	operationRequests := make([]batch.OperationRequest, 0, len(selectedCandidates))
	for _, selectedCandidate := range selectedCandidates {
		operationRequest, requestError := service.requestFactory.CloneOperationRequest(targetDirectory, selectedCandidate.Repository.String(), selectedCandidate.FolderName)
		if requestError != nil {
			return Summary{}, requestError
		}
		operationRequests = append(operationRequests, operationRequest)
	}

	successes, failures := service.executor.Run(executionContext, operationRequests)
	service.logger.Info(cloneWorkflowNameLogValueConstant,
		zap.Int(succeededCountLogFieldConstant, len(successes)),
		zap.Int(initialFailureCountLogFieldConstant, len(failures)),
	)
	outcome := service.coordinator.Resolve(executionContext, failures)

	summary := Summary{
		Attempted:  len(operationRequests),
		Succeeded:  len(operationRequests) - outcome.UnresolvedCount,
		Unresolved: outcome.UnresolvedCount,
	}

	fmt.Fprintf(service.writer, cloneSummaryTemplateConstant, summary.Succeeded, summary.Attempted)
	if summary.Unresolved > 0 {
		fmt.Fprintf(service.writer, unresolvedSummaryTemplateConstant, summary.Unresolved)
	}
	return summary, nil
}

func (service *CloneMissingService) resolveOwner(executionContext context.Context, requestedOwner string) (string, bool, error) {
	trimmedRequestedOwner := strings.TrimSpace(requestedOwner)
	if len(trimmedRequestedOwner) > 0 {
		return trimmedRequestedOwner, false, nil
	}

	authenticatedLogin, loginError := service.githubClient.ResolveAuthenticatedLogin(executionContext)
	if loginError != nil {
		return "", false, loginError
	}
	if len(authenticatedLogin) == 0 {
		return "", false, ErrAuthenticationRequired
	}

	organizationLogins := service.githubClient.ListOrganizations(executionContext)
	if len(organizationLogins) == 0 {
		return authenticatedLogin, false, nil
	}

	ownerChoices := append([]string{authenticatedLogin}, organizationLogins...)
	return service.promptOwnerChoice(authenticatedLogin, ownerChoices)
}

func (service *CloneMissingService) promptOwnerChoice(authenticatedLogin string, ownerChoices []string) (string, bool, error) {
	for {
		fmt.Fprint(service.writer, ownerListingHeaderConstant)
		for choiceIndex, ownerChoice := range ownerChoices {
			choiceLabel := ownerChoice
			if ownerChoice == authenticatedLogin {
				choiceLabel += ownerListingSelfSuffixConstant
			}
			fmt.Fprintf(service.writer, ownerListingEntryTemplateConstant, choiceIndex+1, choiceLabel)
		}
		fmt.Fprint(service.writer, ownerPromptConstant)

		rawInput, readError := service.reader.ReadString('\n')
		normalizedInput := strings.ToLower(strings.TrimSpace(rawInput))
		if normalizedInput == "q" || normalizedInput == "quit" || (readError != nil && len(normalizedInput) == 0) {
			return "", true, nil
		}

		choiceNumber, parseError := strconv.Atoi(normalizedInput)
		if parseError == nil && choiceNumber >= 1 && choiceNumber <= len(ownerChoices) {
			return ownerChoices[choiceNumber-1], false, nil
		}

		fmt.Fprint(service.writer, ownerInvalidMessageConstant)
		if readError != nil {
			return "", true, nil
		}
	}
}

func (service *CloneMissingService) resolveTargetDirectory(options CloneMissingOptions) (string, bool, error) {
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

func (service *CloneMissingService) promptCandidateSelection(cloneCandidates []CloneCandidate) ([]CloneCandidate, bool) {
	for {
		fmt.Fprint(service.writer, candidateListingHeaderConstant)
		for _, cloneCandidate := range cloneCandidates {
			fmt.Fprintf(service.writer, candidateListingEntryTemplate, cloneCandidate.DisplayIndex, cloneCandidate.Repository.String())
		}
		fmt.Fprint(service.writer, candidateSelectionPromptConstant)

		rawExpression, readError := service.reader.ReadString('\n')
		if readError != nil && len(strings.TrimSpace(rawExpression)) == 0 {
			return nil, true
		}

		parsedSelection := selection.Parse(rawExpression, len(cloneCandidates))
		for _, diagnostic := range parsedSelection.Diagnostics {
			fmt.Fprintln(service.writer, diagnostic)
		}
		if parsedSelection.Cancelled {
			return nil, true
		}
		if parsedSelection.IsEmpty() {
			fmt.Fprint(service.writer, selectionEmptyMessageConstant)
			if readError != nil {
				return nil, true
			}
			continue
		}

		selectedCandidates := make([]CloneCandidate, 0, len(parsedSelection.Indices))
		for _, selectedIndex := range parsedSelection.Indices {
			selectedCandidates = append(selectedCandidates, cloneCandidates[selectedIndex-1])
		}
		return selectedCandidates, false
	}
}
