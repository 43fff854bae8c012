package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyemirov/gsync/internal/execshell"
	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	apiSubcommandConstant                     = "api"
	repoSubcommandConstant                    = "repo"
	listSubcommandConstant                    = "list"
	jsonFlagConstant                          = "--json"
	limitFlagConstant                         = "--limit"
	jqFlagConstant                            = "--jq"
	paginateFlagConstant                      = "--paginate"
	authenticatedUserEndpointConstant         = "user"
	organizationsEndpointConstant             = "user/orgs"
	loginQueryConstant                        = ".login"
	organizationLoginsQueryConstant           = ".[].login"
	repositoryListJSONFieldsConstant          = "nameWithOwner"
	repositoryListLimitDefaultValueConstant   = 1000
	ownerFieldNameConstant                    = "owner"
	requiredValueMessageConstant              = "value required"
	executorNotConfiguredMessageConstant      = "github cli executor not configured"
	operationErrorMessageTemplateConstant     = "%s operation failed"
	operationErrorWithCauseTemplateConstant   = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant     = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant         = "%s: %s"
	listOwnerRepositoriesOperationNameConstant = OperationName("ListOwnerRepositories")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ResolveAuthenticatedLogin returns the login of the authenticated account.
//
// An unauthenticated session yields an empty login and a nil error so
// callers can branch on authentication without unwrapping failures.
func (client *Client) ResolveAuthenticatedLogin(executionContext context.Context) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			authenticatedUserEndpointConstant,
			jqFlagConstant,
			loginQueryConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return "", nil
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ListOrganizations enumerates organization logins the authenticated account belongs to.
//
// A failed lookup is treated as no memberships.
func (client *Client) ListOrganizations(executionContext context.Context) []string {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			organizationsEndpointConstant,
			paginateFlagConstant,
			jqFlagConstant,
			organizationLoginsQueryConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil
	}

	organizationLogins := make([]string, 0)
	for _, outputLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		organizationLogins = append(organizationLogins, trimmedLine)
	}

	return organizationLogins
}

// ListOwnerRepositories enumerates the owner's repositories as owner/name tuples.
func (client *Client) ListOwnerRepositories(executionContext context.Context, owner string) ([]shared.OwnerRepository, error) {
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return nil, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			listSubcommandConstant,
			trimmedOwner,
			jsonFlagConstant,
			repositoryListJSONFieldsConstant,
			limitFlagConstant,
			strconv.Itoa(repositoryListLimitDefaultValueConstant),
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listOwnerRepositoriesOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		NameWithOwner string `json:"nameWithOwner"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listOwnerRepositoriesOperationNameConstant, Cause: decodingError}
	}

	repositories := make([]shared.OwnerRepository, 0, len(response))
	for _, repositoryEntry := range response {
		ownerRepository, parseError := shared.NewOwnerRepository(repositoryEntry.NameWithOwner)
		if parseError != nil {
			return nil, ResponseDecodingError{Operation: listOwnerRepositoriesOperationNameConstant, Cause: parseError}
		}
		repositories = append(repositories, ownerRepository)
	}

	return repositories, nil
}
