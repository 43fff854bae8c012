package batch

import (
	"context"
	"errors"
)

const runnerNotConfiguredMessageConstant = "batch executor process runner not configured"

// ErrRunnerNotConfigured indicates the batch executor was built without a process runner.
var ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// Executor runs ordered operation batches one invocation at a time.
type Executor struct {
	processRunner ProcessRunner
}

// NewExecutor constructs an Executor over the provided process runner.
func NewExecutor(processRunner ProcessRunner) (*Executor, error) {
	if processRunner == nil {
		return nil, ErrRunnerNotConfigured
	}
	return &Executor{processRunner: processRunner}, nil
}

// Run executes every operation strictly sequentially in input order.
//
// Each operation is attempted regardless of earlier failures; the two
// partitions preserve relative input order and always sum to the
// number of requests.
func (executor *Executor) Run(executionContext context.Context, requests []OperationRequest) (successes []OperationResult, failures []OperationResult) {
	successes = make([]OperationResult, 0, len(requests))
	failures = make([]OperationResult, 0)

	for _, request := range requests {
		operationResult := executor.processRunner.Run(executionContext, request)
		if operationResult.Succeeded {
			successes = append(successes, operationResult)
			continue
		}
		failures = append(failures, operationResult)
	}

	return successes, failures
}
