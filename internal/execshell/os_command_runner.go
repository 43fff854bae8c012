package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

const environmentEntryTemplateConstant = "%s=%s"

// OSCommandRunner executes shell commands against the host operating system.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an operating-system-backed command runner.
func NewOSCommandRunner() OSCommandRunner {
	return OSCommandRunner{}
}

// Available reports whether the executable resolves through the system PATH.
func (runner OSCommandRunner) Available(commandName CommandName) bool {
	_, lookupError := exec.LookPath(string(commandName))
	return lookupError == nil
}

// Run executes the command and captures both output streams and the exit code.
func (runner OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	osCommand := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	osCommand.Dir = command.Details.WorkingDirectory
	osCommand.Env = mergeEnvironment(command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	osCommand.Stdout = &standardOutputBuffer
	osCommand.Stderr = &standardErrorBuffer

	runError := osCommand.Run()
	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}

	if runError == nil {
		return executionResult, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) {
		executionResult.ExitCode = exitError.ExitCode()
		return executionResult, nil
	}

	return ExecutionResult{}, runError
}

func mergeEnvironment(environmentVariables map[string]string) []string {
	if len(environmentVariables) == 0 {
		return nil
	}

	variableNames := make([]string, 0, len(environmentVariables))
	for variableName := range environmentVariables {
		variableNames = append(variableNames, variableName)
	}
	sort.Strings(variableNames)

	mergedEnvironment := os.Environ()
	for _, variableName := range variableNames {
		mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentEntryTemplateConstant, variableName, environmentVariables[variableName]))
	}
	return mergedEnvironment
}
