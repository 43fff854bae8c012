package prompt

import (
	"bufio"
	"io"
	"strings"

	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	yesAnswerConstant     = "y"
	yesLongAnswerConstant = "yes"
	allAnswerConstant     = "a"
	allLongAnswerConstant = "all"
)

// IOConfirmationPrompter asks yes/no questions over a reader and writer pair.
//
// Anything other than a yes or all answer counts as a decline, so pressing
// Enter at a prompt is always the safe choice.
type IOConfirmationPrompter struct {
	input  *bufio.Reader
	output io.Writer
}

// NewIOConfirmationPrompter constructs a prompter over the provided streams.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{input: bufio.NewReader(input), output: output}
}

// Confirm writes the prompt and reads one line as the answer. Answering
// "a" or "all" confirms and additionally requests apply-to-all.
func (prompter *IOConfirmationPrompter) Confirm(promptText string) (shared.ConfirmationResult, error) {
	if prompter.output != nil {
		if _, writeError := io.WriteString(prompter.output, promptText); writeError != nil {
			return shared.ConfirmationResult{}, writeError
		}
	}

	rawAnswer, readError := prompter.input.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return shared.ConfirmationResult{}, readError
	}

	switch strings.ToLower(strings.TrimSpace(rawAnswer)) {
	case yesAnswerConstant, yesLongAnswerConstant:
		return shared.ConfirmationResult{Confirmed: true}, nil
	case allAnswerConstant, allLongAnswerConstant:
		return shared.ConfirmationResult{Confirmed: true, ApplyToAll: true}, nil
	default:
		return shared.ConfirmationResult{}, nil
	}
}
