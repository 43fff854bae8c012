package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	coordinatorExecutorMissingMessageConstant = "retry coordinator executor not configured"
	coordinatorPrompterMissingMessageConstant = "retry coordinator prompter not configured"
	coordinatorOutputMissingMessageConstant   = "retry coordinator output writer not configured"
	failureListingHeaderTemplateConstant      = "%d operation(s) failed:\n"
	failureListingEntryTemplateConstant       = "  %d) %s: %s (in %s)\n"
	retryDecisionPromptConstant               = "Retry failed operations? [r]etry / [s]kip: "
	retryDecisionInvalidMessageConstant       = "Please answer r or s.\n"
	retryAnswerConstant                       = "r"
	retryAnswerLongConstant                   = "retry"
	skipAnswerConstant                        = "s"
	skipAnswerLongConstant                    = "skip"
)

// ErrCoordinatorExecutorMissing indicates the coordinator was built without an executor.
var ErrCoordinatorExecutorMissing = errors.New(coordinatorExecutorMissingMessageConstant)

// ErrCoordinatorPrompterMissing indicates the coordinator was built without a prompter.
var ErrCoordinatorPrompterMissing = errors.New(coordinatorPrompterMissingMessageConstant)

// ErrCoordinatorOutputMissing indicates the coordinator was built without an output writer.
var ErrCoordinatorOutputMissing = errors.New(coordinatorOutputMissingMessageConstant)

// RetryState names the phases of the failure-resolution loop.
type RetryState string

const (
	// RetryStateAwaitingDecision means failures remain and the operator has not yet answered.
	RetryStateAwaitingDecision RetryState = "awaiting-decision"
	// RetryStateRetrying means the remaining failures are being re-executed.
	RetryStateRetrying RetryState = "retrying"
	// RetryStateResolved means every operation eventually succeeded.
	RetryStateResolved RetryState = "resolved"
	// RetryStateSkipped means the operator abandoned the remaining failures.
	RetryStateSkipped RetryState = "skipped"
)

// RetryDecision is the operator's answer to a failure listing.
type RetryDecision string

const (
	// RetryDecisionRetry re-runs the remaining failed operations.
	RetryDecisionRetry RetryDecision = "retry"
	// RetryDecisionSkip abandons the remaining failed operations.
	RetryDecisionSkip RetryDecision = "skip"
)

// DecisionPrompter obtains a retry-or-skip decision from the operator.
type DecisionPrompter interface {
	PromptRetryDecision() (RetryDecision, error)
}

// Outcome summarizes a completed failure-resolution loop.
type Outcome struct {
	State           RetryState
	UnresolvedCount int
	Rounds          int
}

// Coordinator drives the retry loop over a batch executor.
//
// The loop runs until either no failures remain or the operator skips;
// every round re-executes only the operations still failing.
type Coordinator struct {
	executor *Executor
	prompter DecisionPrompter
	output   io.Writer
}

// NewCoordinator constructs a Coordinator from its collaborators.
func NewCoordinator(executor *Executor, prompter DecisionPrompter, output io.Writer) (*Coordinator, error) {
	if executor == nil {
		return nil, ErrCoordinatorExecutorMissing
	}
	if prompter == nil {
		return nil, ErrCoordinatorPrompterMissing
	}
	if output == nil {
		return nil, ErrCoordinatorOutputMissing
	}
	return &Coordinator{executor: executor, prompter: prompter, output: output}, nil
}

// Resolve loops over the failed results until they are exhausted or skipped.
//
// A prompter read failure is treated as a skip decision so the loop
// always terminates.
func (coordinator *Coordinator) Resolve(executionContext context.Context, failures []OperationResult) Outcome {
	remainingFailures := failures
	completedRounds := 0

	for len(remainingFailures) > 0 {
		coordinator.printFailureListing(remainingFailures)

		decision, promptError := coordinator.prompter.PromptRetryDecision()
		if promptError != nil || decision == RetryDecisionSkip {
			return Outcome{State: RetryStateSkipped, UnresolvedCount: len(remainingFailures), Rounds: completedRounds}
		}

		retryRequests := make([]OperationRequest, 0, len(remainingFailures))
		for _, failedResult := range remainingFailures {
			retryRequests = append(retryRequests, failedResult.Request)
		}

		_, remainingFailures = coordinator.executor.Run(executionContext, retryRequests)
		completedRounds++
	}

	return Outcome{State: RetryStateResolved, UnresolvedCount: 0, Rounds: completedRounds}
}

func (coordinator *Coordinator) printFailureListing(failures []OperationResult) {
	fmt.Fprintf(coordinator.output, failureListingHeaderTemplateConstant, len(failures))
	for failureIndex, failedResult := range failures {
		workingDirectory := failedResult.Request.WorkingDirectory
		if len(workingDirectory) == 0 {
			workingDirectory = "."
		}
		fmt.Fprintf(coordinator.output, failureListingEntryTemplateConstant,
			failureIndex+1,
			failedResult.Request.Identifier,
			failedResult.Request.CommandLine(),
			workingDirectory,
		)
	}
}

// IODecisionPrompter reads retry decisions from a line-oriented stream.
//
// Unrecognized answers are rejected and the prompt repeats until a
// valid answer or a read error arrives.
type IODecisionPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIODecisionPrompter constructs an IODecisionPrompter over the given streams.
func NewIODecisionPrompter(reader io.Reader, writer io.Writer) *IODecisionPrompter {
	return &IODecisionPrompter{reader: bufio.NewReader(reader), writer: writer}
}

// PromptRetryDecision asks until it receives retry, skip, or a read error.
func (prompter *IODecisionPrompter) PromptRetryDecision() (RetryDecision, error) {
	for {
		fmt.Fprint(prompter.writer, retryDecisionPromptConstant)

		rawAnswer, readError := prompter.reader.ReadString('\n')
		normalizedAnswer := strings.ToLower(strings.TrimSpace(rawAnswer))

		switch normalizedAnswer {
		case retryAnswerConstant, retryAnswerLongConstant:
			return RetryDecisionRetry, nil
		case skipAnswerConstant, skipAnswerLongConstant:
			return RetryDecisionSkip, nil
		}

		if readError != nil {
			return RetryDecisionSkip, readError
		}

		fmt.Fprint(prompter.writer, retryDecisionInvalidMessageConstant)
	}
}
