// Package version resolves the gsync version string from build metadata,
// falling back to git tag description when running from a source checkout.
package version

import (
	"context"
	"errors"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/execshell"
	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	unknownVersionConstant         = "unknown"
	develModuleVersionConstant     = "devel"
	revParseSubcommandConstant     = "rev-parse"
	showTopLevelFlagConstant       = "--show-toplevel"
	describeSubcommandConstant     = "describe"
	tagsFlagConstant               = "--tags"
	exactMatchFlagConstant         = "--exact-match"
	longFlagConstant               = "--long"
	dirtyFlagConstant              = "--dirty"
	terminalPromptEnvironmentName  = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValue    = "0"
	executorMissingMessageConstant = "git executor not configured"
)

// BuildInfoProvider exposes runtime build metadata.
type BuildInfoProvider interface {
	Read() (*debug.BuildInfo, bool)
}

// Dependencies describes the collaborators required for version detection.
type Dependencies struct {
	BuildInfoProvider BuildInfoProvider
	GitExecutor       shared.GitExecutor
	WorkingDirectory  string
}

// Detector resolves the version string reported by the version command.
type Detector struct {
	buildInfoProvider BuildInfoProvider
	gitExecutor       shared.GitExecutor
	workingDirectory  string
}

// NewDetector constructs a Detector, defaulting any collaborator left unset.
func NewDetector(dependencies Dependencies) (*Detector, error) {
	buildInfoProvider := dependencies.BuildInfoProvider
	if buildInfoProvider == nil {
		buildInfoProvider = runtimeBuildInfoProvider{}
	}

	gitExecutor := dependencies.GitExecutor
	if gitExecutor == nil {
		defaultExecutor, executorError := newDefaultGitExecutor()
		if executorError != nil {
			return nil, executorError
		}
		gitExecutor = defaultExecutor
	}

	workingDirectory := strings.TrimSpace(dependencies.WorkingDirectory)
	if len(workingDirectory) == 0 {
		if currentDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
			workingDirectory = currentDirectory
		}
	}

	return &Detector{
		buildInfoProvider: buildInfoProvider,
		gitExecutor:       gitExecutor,
		workingDirectory:  workingDirectory,
	}, nil
}

// Detect is a one-shot convenience wrapper around NewDetector and Version.
func Detect(executionContext context.Context, dependencies Dependencies) string {
	detector, detectorError := NewDetector(dependencies)
	if detectorError != nil {
		return unknownVersionConstant
	}
	return detector.Version(executionContext)
}

// Version returns the detected version string, preferring the module version
// stamped into the binary over git tag description.
func (detector *Detector) Version(executionContext context.Context) string {
	if detector == nil {
		return unknownVersionConstant
	}

	if moduleVersion := detector.moduleVersion(); len(moduleVersion) > 0 {
		return moduleVersion
	}

	repositoryRoot := detector.repositoryTopLevel(executionContext)
	describeArgumentSets := [][]string{
		{describeSubcommandConstant, tagsFlagConstant, exactMatchFlagConstant},
		{describeSubcommandConstant, tagsFlagConstant, longFlagConstant, dirtyFlagConstant},
	}
	for _, describeArguments := range describeArgumentSets {
		if describedVersion := detector.describe(executionContext, repositoryRoot, describeArguments); len(describedVersion) > 0 {
			return describedVersion
		}
	}

	return unknownVersionConstant
}

// moduleVersion reads the main module version from build info. The "devel"
// placeholder the toolchain stamps on untagged builds does not count.
func (detector *Detector) moduleVersion() string {
	if detector.buildInfoProvider == nil {
		return ""
	}

	buildInfo, available := detector.buildInfoProvider.Read()
	if !available || buildInfo == nil {
		return ""
	}

	moduleVersion := strings.TrimSpace(buildInfo.Main.Version)
	if len(moduleVersion) == 0 || strings.EqualFold(moduleVersion, develModuleVersionConstant) {
		return ""
	}
	return moduleVersion
}

// repositoryTopLevel locates the enclosing repository root so describe runs
// from the checkout rather than an arbitrary subdirectory.
func (detector *Detector) repositoryTopLevel(executionContext context.Context) string {
	if len(detector.workingDirectory) == 0 {
		return ""
	}

	executionResult, executionError := detector.runGit(executionContext, detector.workingDirectory, []string{revParseSubcommandConstant, showTopLevelFlagConstant})
	if executionError != nil {
		return detector.workingDirectory
	}

	topLevelPath := strings.TrimSpace(executionResult.StandardOutput)
	if len(topLevelPath) == 0 {
		return detector.workingDirectory
	}
	return topLevelPath
}

func (detector *Detector) describe(executionContext context.Context, repositoryRoot string, arguments []string) string {
	executionResult, executionError := detector.runGit(executionContext, repositoryRoot, arguments)
	if executionError != nil {
		return ""
	}
	return strings.TrimSpace(executionResult.StandardOutput)
}

func (detector *Detector) runGit(executionContext context.Context, workingDirectory string, arguments []string) (execshell.ExecutionResult, error) {
	if detector.gitExecutor == nil {
		return execshell.ExecutionResult{}, errors.New(executorMissingMessageConstant)
	}

	return detector.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: map[string]string{terminalPromptEnvironmentName: terminalPromptDisabledValue},
	})
}

type runtimeBuildInfoProvider struct{}

func (runtimeBuildInfoProvider) Read() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}

func newDefaultGitExecutor() (shared.GitExecutor, error) {
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), false)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
