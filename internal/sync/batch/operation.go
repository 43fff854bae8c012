package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tyemirov/gsync/internal/execshell"
	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	identifierRequiredMessageConstant     = "operation identifier must be provided"
	executableRequiredMessageConstant     = "operation executable must be provided"
	executorNotConfiguredMessageConstant  = "process runner executor not configured"
	startFailureDiagnosticTemplate        = "could not start %s: %v"
	unsupportedExecutableMessageTemplate  = "could not start %s: unsupported executable"
	startFailureSentinelExitCodeConstant  = -1
)

// ErrIdentifierRequired indicates an operation request without an identifier.
var ErrIdentifierRequired = errors.New(identifierRequiredMessageConstant)

// ErrExecutableRequired indicates an operation request without an executable name.
var ErrExecutableRequired = errors.New(executableRequiredMessageConstant)

// ErrExecutorNotConfigured indicates the shell process runner was built without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// OperationRequest describes one external invocation. It is immutable once constructed.
type OperationRequest struct {
	ExecutableName       execshell.CommandName
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	Identifier           string
}

// NewOperationRequest validates and constructs an OperationRequest.
func NewOperationRequest(executableName execshell.CommandName, arguments []string, workingDirectory string, identifier string) (OperationRequest, error) {
	if len(strings.TrimSpace(string(executableName))) == 0 {
		return OperationRequest{}, ErrExecutableRequired
	}
	if len(strings.TrimSpace(identifier)) == 0 {
		return OperationRequest{}, ErrIdentifierRequired
	}

	copiedArguments := make([]string, len(arguments))
	copy(copiedArguments, arguments)

	return OperationRequest{
		ExecutableName:   executableName,
		Arguments:        copiedArguments,
		WorkingDirectory: strings.TrimSpace(workingDirectory),
		Identifier:       strings.TrimSpace(identifier),
	}, nil
}

// WithEnvironment returns a copy of the request carrying the provided variables.
func (request OperationRequest) WithEnvironment(environmentVariables map[string]string) OperationRequest {
	copiedVariables := make(map[string]string, len(environmentVariables))
	for variableName, variableValue := range environmentVariables {
		copiedVariables[variableName] = variableValue
	}
	request.EnvironmentVariables = copiedVariables
	return request
}

// CommandLine renders the executable and arguments for display.
func (request OperationRequest) CommandLine() string {
	if len(request.Arguments) == 0 {
		return string(request.ExecutableName)
	}
	return string(request.ExecutableName) + " " + strings.Join(request.Arguments, " ")
}

// OperationResult captures one execution attempt. Retries create new results.
type OperationResult struct {
	Succeeded      bool
	CombinedOutput string
	ExitCode       int
	Request        OperationRequest
}

// ProcessRunner executes a single operation and always returns a structured result.
//
// Implementations never surface errors: start failures and non-zero
// exits alike are folded into the returned OperationResult.
type ProcessRunner interface {
	Run(executionContext context.Context, request OperationRequest) OperationResult
}

// ShellProcessRunner adapts a shell executor into the ProcessRunner contract.
type ShellProcessRunner struct {
	executor shared.GitExecutor
}

// NewShellProcessRunner constructs a ShellProcessRunner over the provided executor.
func NewShellProcessRunner(executor shared.GitExecutor) (*ShellProcessRunner, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &ShellProcessRunner{executor: executor}, nil
}

// Run executes the request and folds every failure shape into the result.
func (runner *ShellProcessRunner) Run(executionContext context.Context, request OperationRequest) OperationResult {
	details := execshell.CommandDetails{
		Arguments:            request.Arguments,
		WorkingDirectory:     request.WorkingDirectory,
		EnvironmentVariables: request.EnvironmentVariables,
	}

	var executionResult execshell.ExecutionResult
	var executionError error
	switch request.ExecutableName {
	case execshell.CommandGit:
		executionResult, executionError = runner.executor.ExecuteGit(executionContext, details)
	case execshell.CommandGitHub:
		executionResult, executionError = runner.executor.ExecuteGitHubCLI(executionContext, details)
	default:
		return OperationResult{
			Succeeded:      false,
			CombinedOutput: fmt.Sprintf(unsupportedExecutableMessageTemplate, request.ExecutableName),
			ExitCode:       startFailureSentinelExitCodeConstant,
			Request:        request,
		}
	}

	if executionError == nil {
		return OperationResult{
			Succeeded:      true,
			CombinedOutput: executionResult.CombinedOutput(),
			ExitCode:       executionResult.ExitCode,
			Request:        request,
		}
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return OperationResult{
			Succeeded:      false,
			CombinedOutput: commandFailure.Result.CombinedOutput(),
			ExitCode:       commandFailure.Result.ExitCode,
			Request:        request,
		}
	}

	return OperationResult{
		Succeeded:      false,
		CombinedOutput: fmt.Sprintf(startFailureDiagnosticTemplate, request.ExecutableName, executionError),
		ExitCode:       startFailureSentinelExitCodeConstant,
		Request:        request,
	}
}
