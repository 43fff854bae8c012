// Package selection parses numeric multi-select expressions entered at
// interactive prompts.
package selection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	selectAllShortTokenConstant = "a"
	selectAllLongTokenConstant  = "all"
	cancelShortTokenConstant    = "q"
	cancelLongTokenConstant     = "quit"
	rangeSeparatorConstant      = "-"

	unparsableTokenDiagnosticTemplateConstant = "ignoring %q: not a number or range"
	outOfRangeDiagnosticTemplateConstant      = "ignoring %d: outside 1-%d"
	emptyRangeDiagnosticTemplateConstant      = "ignoring %q: empty range"
)

// Selection is the outcome of parsing one selection expression.
//
// Cancelled and the index set are distinct channels: a cancelled
// selection carries no indices, and an empty index set without
// cancellation means every token was rejected.
type Selection struct {
	Cancelled   bool
	Indices     []int
	Diagnostics []string
}

// IsEmpty reports whether no indices were selected.
func (selection Selection) IsEmpty() bool {
	return len(selection.Indices) == 0
}

// Parse interprets a selection expression against candidateCount numbered items.
//
// Accepted forms: single numbers, inclusive ranges "a-b", the
// select-all sentinels "a"/"all", and the cancel sentinels
// "q"/"quit"/blank input. Tokens split on commas and whitespace.
// Invalid tokens are reported in Diagnostics and skipped; a range
// whose start exceeds its end is skipped, never swapped.
func Parse(expression string, candidateCount int) Selection {
	normalizedExpression := strings.TrimSpace(expression)
	if len(normalizedExpression) == 0 {
		return Selection{Cancelled: true}
	}

	loweredExpression := strings.ToLower(normalizedExpression)
	if loweredExpression == cancelShortTokenConstant || loweredExpression == cancelLongTokenConstant {
		return Selection{Cancelled: true}
	}
	if loweredExpression == selectAllShortTokenConstant || loweredExpression == selectAllLongTokenConstant {
		return Selection{Indices: fullIndexRange(candidateCount)}
	}

	selectedIndices := map[int]bool{}
	var diagnostics []string

	for _, rawToken := range splitTokens(normalizedExpression) {
		tokenDiagnostics := applyToken(rawToken, candidateCount, selectedIndices)
		diagnostics = append(diagnostics, tokenDiagnostics...)
	}

	return Selection{Indices: sortedIndices(selectedIndices), Diagnostics: diagnostics}
}

func applyToken(rawToken string, candidateCount int, selectedIndices map[int]bool) []string {
	token := strings.ToLower(strings.TrimSpace(rawToken))
	if len(token) == 0 {
		return nil
	}

	if strings.Contains(token, rangeSeparatorConstant) {
		return applyRangeToken(token, candidateCount, selectedIndices)
	}

	parsedIndex, parseError := strconv.Atoi(token)
	if parseError != nil {
		return []string{fmt.Sprintf(unparsableTokenDiagnosticTemplateConstant, rawToken)}
	}
	if parsedIndex < 1 || parsedIndex > candidateCount {
		return []string{fmt.Sprintf(outOfRangeDiagnosticTemplateConstant, parsedIndex, candidateCount)}
	}

	selectedIndices[parsedIndex] = true
	return nil
}

func applyRangeToken(token string, candidateCount int, selectedIndices map[int]bool) []string {
	boundaries := strings.SplitN(token, rangeSeparatorConstant, 2)
	if len(boundaries) != 2 {
		return []string{fmt.Sprintf(unparsableTokenDiagnosticTemplateConstant, token)}
	}

	rangeStart, startError := strconv.Atoi(strings.TrimSpace(boundaries[0]))
	rangeEnd, endError := strconv.Atoi(strings.TrimSpace(boundaries[1]))
	if startError != nil || endError != nil {
		return []string{fmt.Sprintf(unparsableTokenDiagnosticTemplateConstant, token)}
	}

	if rangeStart > rangeEnd {
		return []string{fmt.Sprintf(emptyRangeDiagnosticTemplateConstant, token)}
	}

	var diagnostics []string
	for candidateIndex := rangeStart; candidateIndex <= rangeEnd; candidateIndex++ {
		if candidateIndex < 1 || candidateIndex > candidateCount {
			diagnostics = append(diagnostics, fmt.Sprintf(outOfRangeDiagnosticTemplateConstant, candidateIndex, candidateCount))
			continue
		}
		selectedIndices[candidateIndex] = true
	}
	return diagnostics
}

func splitTokens(expression string) []string {
	return strings.FieldsFunc(expression, func(character rune) bool {
		return character == ',' || character == ' ' || character == '\t'
	})
}

func fullIndexRange(candidateCount int) []int {
	indices := make([]int, 0, candidateCount)
	for candidateIndex := 1; candidateIndex <= candidateCount; candidateIndex++ {
		indices = append(indices, candidateIndex)
	}
	return indices
}

func sortedIndices(selectedIndices map[int]bool) []int {
	indices := make([]int, 0, len(selectedIndices))
	for selectedIndex := range selectedIndices {
		indices = append(indices, selectedIndex)
	}
	sort.Ints(indices)
	return indices
}
