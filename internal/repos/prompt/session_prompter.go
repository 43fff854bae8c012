package prompt

import (
	"sync"
	"sync/atomic"

	"github.com/tyemirov/gsync/internal/repos/shared"
)

// SessionState carries the assume-yes policy across every prompt of one run.
// Once enabled it never reverts, so a single "all" answer silences the
// remaining confirmations of the session.
type SessionState struct {
	assumeYes atomic.Bool
}

// NewSessionState constructs a SessionState with the given starting policy.
func NewSessionState(initialAssumeYes bool) *SessionState {
	state := &SessionState{}
	state.assumeYes.Store(initialAssumeYes)
	return state
}

// IsAssumeYesEnabled reports whether prompts should be answered automatically.
func (state *SessionState) IsAssumeYesEnabled() bool {
	if state == nil {
		return false
	}
	return state.assumeYes.Load()
}

// EnableAssumeYes switches the session to automatic confirmation.
func (state *SessionState) EnableAssumeYes() {
	if state == nil {
		return
	}
	state.assumeYes.Store(true)
}

type sessionPrompter struct {
	delegate shared.ConfirmationPrompter
	state    *SessionState
	mutex    sync.Mutex
}

// NewSessionPrompter wraps delegate so an apply-to-all answer upgrades the
// shared session state and later prompts are skipped.
func NewSessionPrompter(delegate shared.ConfirmationPrompter, state *SessionState) shared.ConfirmationPrompter {
	if delegate == nil {
		return nil
	}
	return &sessionPrompter{delegate: delegate, state: state}
}

func (prompter *sessionPrompter) Confirm(promptText string) (shared.ConfirmationResult, error) {
	if prompter.delegate == nil {
		return shared.ConfirmationResult{}, nil
	}

	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()

	if prompter.state.IsAssumeYesEnabled() {
		return shared.ConfirmationResult{Confirmed: true}, nil
	}

	result, confirmError := prompter.delegate.Confirm(promptText)
	if confirmError != nil {
		return shared.ConfirmationResult{}, confirmError
	}
	if result.ApplyToAll {
		prompter.state.EnableAssumeYes()
	}
	return result, nil
}
