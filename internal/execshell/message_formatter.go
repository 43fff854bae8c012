package execshell

import (
	"fmt"
	"strings"
)

const (
	startedMessageTemplateConstant          = "RUN %s"
	successMessageTemplateConstant          = "OK  %s"
	failureMessageTemplateConstant          = "ERR %s (exit %d)"
	executionFailureMessageTemplateConstant = "ERR %s: %v"
	workingDirectorySuffixTemplateConstant  = " [%s]"
)

// CommandMessageFormatter renders human-readable command lifecycle messages.
type CommandMessageFormatter struct{}

// BuildStartedMessage renders the command start line.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, formatter.describeCommand(command))
}

// BuildSuccessMessage renders the command success line.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(successMessageTemplateConstant, formatter.describeCommand(command))
}

// BuildFailureMessage renders the non-zero exit line including trailing diagnostics.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	message := fmt.Sprintf(failureMessageTemplateConstant, formatter.describeCommand(command), result.ExitCode)
	detail := strings.TrimSpace(result.StandardError)
	if len(detail) == 0 {
		detail = strings.TrimSpace(result.StandardOutput)
	}
	if len(detail) > 0 {
		firstLine := strings.SplitN(detail, "\n", 2)[0]
		message = fmt.Sprintf("%s: %s", message, strings.TrimSpace(firstLine))
	}
	return message
}

// BuildExecutionFailureMessage renders the could-not-start line.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, cause error) string {
	return fmt.Sprintf(executionFailureMessageTemplateConstant, formatter.describeCommand(command), cause)
}

func (formatter CommandMessageFormatter) describeCommand(command ShellCommand) string {
	description := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		description = description + " " + strings.Join(command.Details.Arguments, " ")
	}
	if len(strings.TrimSpace(command.Details.WorkingDirectory)) > 0 {
		description = description + fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
	}
	return description
}
