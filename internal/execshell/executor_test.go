package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/execshell"
)

const (
	testWorkingDirectoryConstant = "/tmp/workspace"
	testStandardOutputConstant   = "standard output"
	testStandardErrorConstant    = "standard error"
)

type recordingCommandRunner struct {
	recordedCommands []execshell.ShellCommand
	result           execshell.ExecutionResult
	runError         error
	available        bool
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	if runner.runError != nil {
		return execshell.ExecutionResult{}, runner.runError
	}
	return runner.result, nil
}

func (runner *recordingCommandRunner) Available(execshell.CommandName) bool {
	return runner.available
}

func TestNewShellExecutorValidatesDependencies(t *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		commandRunner execshell.CommandRunner
		expectedError error
	}{
		{
			name:          "MissingLogger",
			logger:        nil,
			commandRunner: &recordingCommandRunner{},
			expectedError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:          "MissingCommandRunner",
			logger:        zap.NewNop(),
			commandRunner: nil,
			expectedError: execshell.ErrCommandRunnerNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.commandRunner, false)
			require.ErrorIs(t, creationError, testCase.expectedError)
			require.Nil(t, executor)
		})
	}
}

func TestExecuteRequiresCommandName(t *testing.T) {
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{}, false)
	require.NoError(t, creationError)

	_, executionError := executor.Execute(context.Background(), execshell.ShellCommand{})
	require.ErrorIs(t, executionError, execshell.ErrCommandNameMissing)
}

func TestExecuteReturnsResultOnSuccess(t *testing.T) {
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{StandardOutput: testStandardOutputConstant}}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, false)
	require.NoError(t, creationError)

	executionResult, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        []string{"status"},
		WorkingDirectory: testWorkingDirectoryConstant,
	})
	require.NoError(t, executionError)
	require.Equal(t, testStandardOutputConstant, executionResult.StandardOutput)
	require.Len(t, commandRunner.recordedCommands, 1)
	require.Equal(t, execshell.CommandGit, commandRunner.recordedCommands[0].Name)
	require.Equal(t, testWorkingDirectoryConstant, commandRunner.recordedCommands[0].Details.WorkingDirectory)
}

func TestExecuteWrapsNonZeroExitCodes(t *testing.T) {
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{ExitCode: 128, StandardError: testStandardErrorConstant}}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, false)
	require.NoError(t, creationError)

	_, executionError := executor.ExecuteGitHubCLI(context.Background(), execshell.CommandDetails{Arguments: []string{"repo", "list"}})
	require.Error(t, executionError)

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(t, executionError, &commandFailure)
	require.Equal(t, 128, commandFailure.Result.ExitCode)
	require.Equal(t, testStandardErrorConstant, commandFailure.Result.StandardError)
	require.Contains(t, commandFailure.Error(), "exited with code 128")
}

func TestExecuteWrapsRunnerFailures(t *testing.T) {
	rootCause := errors.New("executable file not found")
	commandRunner := &recordingCommandRunner{runError: rootCause}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, true)
	require.NoError(t, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"pull"}})
	require.Error(t, executionError)

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(t, executionError, &executionFailure)
	require.ErrorIs(t, executionFailure, rootCause)
}

func TestCommandAvailableDelegatesToRunner(t *testing.T) {
	commandRunner := &recordingCommandRunner{available: true}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, false)
	require.NoError(t, creationError)

	require.True(t, executor.CommandAvailable(execshell.CommandGit))
	require.False(t, executor.CommandAvailable(execshell.CommandName("")))
}

func TestCombinedOutputMergesStreams(t *testing.T) {
	testCases := []struct {
		name           string
		result         execshell.ExecutionResult
		expectedOutput string
	}{
		{
			name:           "BothStreams",
			result:         execshell.ExecutionResult{StandardOutput: "cloned\n", StandardError: "warning\n"},
			expectedOutput: "cloned\nwarning",
		},
		{
			name:           "OutputOnly",
			result:         execshell.ExecutionResult{StandardOutput: "cloned"},
			expectedOutput: "cloned",
		},
		{
			name:           "ErrorOnly",
			result:         execshell.ExecutionResult{StandardError: "fatal: not found"},
			expectedOutput: "fatal: not found",
		},
		{
			name:           "Empty",
			result:         execshell.ExecutionResult{},
			expectedOutput: "",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedOutput, testCase.result.CombinedOutput())
		})
	}
}
