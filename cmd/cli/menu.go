package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	syncservice "github.com/tyemirov/gsync/internal/sync"
)

const (
	menuTextConstant = "\ngsync\n" +
		"  1) Clone missing repositories\n" +
		"  2) Pull all repositories\n" +
		"  q) Quit\n" +
		"Choice: "
	menuUnknownChoiceConstant        = "Enter 1, 2, or q.\n"
	menuCloneChoiceConstant          = "1"
	menuPullChoiceConstant           = "2"
	menuQuitShortChoiceConstant      = "q"
	menuQuitLongChoiceConstant       = "quit"
	workflowFailedTemplateConstant   = "The operation did not finish: %v\n"
	workflowFailedLogMessageConstant = "workflow failed"
	workflowLogFieldConstant         = "workflow"
	authenticationRetryPrompt        = "No authenticated GitHub user was found. Run 'gh auth login' in another terminal, then press Enter to retry (q returns to the menu): "
)

// runInteractiveMenu loops over the top-level menu until the operator quits.
//
// Workflow errors are reported and return control to the menu; only the
// startup prerequisite check ends the program with an error.
func (application *Application) runInteractiveMenu(command *cobra.Command, _ []string) error {
	if prerequisiteError := application.prerequisitesChecker(); prerequisiteError != nil {
		return prerequisiteError
	}

	menuReader := bufio.NewReader(command.InOrStdin())
	menuWriter := command.OutOrStdout()

	for {
		fmt.Fprint(menuWriter, menuTextConstant)
		rawChoice, readError := menuReader.ReadString('\n')
		menuChoice := strings.ToLower(strings.TrimSpace(rawChoice))

		switch menuChoice {
		case menuCloneChoiceConstant:
			application.runCloneFromMenu(command.Context(), menuReader, menuWriter)
		case menuPullChoiceConstant:
			application.runPullFromMenu(command.Context(), menuReader, menuWriter)
		case menuQuitShortChoiceConstant, menuQuitLongChoiceConstant:
			return nil
		default:
			if len(menuChoice) > 0 {
				fmt.Fprint(menuWriter, menuUnknownChoiceConstant)
			}
		}

		if readError != nil {
			return nil
		}
	}
}

// runCloneFromMenu runs the clone workflow and offers an authentication
// re-check instead of failing when no GitHub login is available.
func (application *Application) runCloneFromMenu(executionContext context.Context, reader *bufio.Reader, writer io.Writer) {
	options := application.cloneBuilder.ExecutionOptionsFromConfiguration()
	if executionFlags, flagsAvailable := application.commandContextAccessor.ExecutionFlags(executionContext); flagsAvailable && executionFlags.AssumeYesSet {
		options.AssumeYes = executionFlags.AssumeYes
	}

	for {
		executionError := application.cloneBuilder.Execute(executionContext, options, reader, writer)
		if executionError == nil {
			return
		}
		if !errors.Is(executionError, syncservice.ErrAuthenticationRequired) {
			application.reportWorkflowFailure(writer, cloneOperationNameConstant, executionError)
			return
		}

		fmt.Fprint(writer, authenticationRetryPrompt)
		rawAnswer, readError := reader.ReadString('\n')
		normalizedAnswer := strings.ToLower(strings.TrimSpace(rawAnswer))
		if readError != nil || normalizedAnswer == menuQuitShortChoiceConstant || normalizedAnswer == menuQuitLongChoiceConstant {
			return
		}
	}
}

func (application *Application) runPullFromMenu(executionContext context.Context, reader *bufio.Reader, writer io.Writer) {
	options := application.pullBuilder.ExecutionOptionsFromConfiguration()
	if executionError := application.pullBuilder.Execute(executionContext, options, reader, writer); executionError != nil {
		application.reportWorkflowFailure(writer, pullOperationNameConstant, executionError)
	}
}

// reportWorkflowFailure tells the operator on the interactive stream and
// records the failure on the console logger for log collection.
func (application *Application) reportWorkflowFailure(writer io.Writer, workflowName string, failure error) {
	fmt.Fprintf(writer, workflowFailedTemplateConstant, failure)
	if application.consoleLogger != nil {
		application.consoleLogger.Warn(workflowFailedLogMessageConstant,
			zap.String(workflowLogFieldConstant, workflowName),
			zap.Error(failure),
		)
	}
}
