package sync

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/repos/shared"
	syncservice "github.com/tyemirov/gsync/internal/sync"
	flagutils "github.com/tyemirov/gsync/internal/utils/flags"
)

const (
	pullUseConstant              = "pull"
	pullShortDescriptionConstant = "Fast-forward every Git repository under a directory"
	pullLongDescriptionConstant  = "pull discovers the Git repositories directly under a target directory and runs a fast-forward pull in each of them."
)

// PullConfiguration captures configured defaults for the pull command.
type PullConfiguration struct {
	Directory    string `mapstructure:"directory"`
	DisplayLimit int    `mapstructure:"display_limit"`
}

func (configuration PullConfiguration) sanitize() PullConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	if sanitized.DisplayLimit < 1 {
		sanitized.DisplayLimit = defaultDirectoryDisplayLimitConstant
	}
	return sanitized
}

// PullExecutionOptions tunes one pull workflow run.
type PullExecutionOptions struct {
	TargetDirectory string
	DisplayLimit    int
}

// PullCommandBuilder assembles the pull command.
type PullCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	Discoverer                   shared.RepositoryDiscoverer
	FileSystem                   shared.FileSystem
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() PullConfiguration
}

// Build constructs the pull command.
func (builder *PullCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pullUseConstant,
		Short: pullShortDescriptionConstant,
		Long:  pullLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	configuration := builder.resolveConfiguration()
	flagutils.BindDirectoryFlag(command, flagutils.DirectoryFlagValues{Directory: configuration.Directory}, flagutils.DirectoryFlagDefinition{Enabled: true})

	return command, nil
}

// ExecutionOptionsFromConfiguration derives run options from configured defaults alone.
func (builder *PullCommandBuilder) ExecutionOptionsFromConfiguration() PullExecutionOptions {
	configuration := builder.resolveConfiguration()
	return PullExecutionOptions{
		TargetDirectory: configuration.Directory,
		DisplayLimit:    configuration.DisplayLimit,
	}
}

func (builder *PullCommandBuilder) run(command *cobra.Command, _ []string) error {
	options := builder.ExecutionOptionsFromConfiguration()

	directoryFlagValue, directoryFlagChanged, directoryFlagError := flagutils.StringFlag(command, flagutils.DirectoryFlagName)
	if directoryFlagError != nil && !errors.Is(directoryFlagError, flagutils.ErrFlagNotDefined) {
		return directoryFlagError
	}
	if directoryFlagChanged {
		options.TargetDirectory = directoryFlagValue
	}

	return builder.Execute(command.Context(), options, command.InOrStdin(), command.OutOrStdout())
}

// Execute runs the pull workflow against the provided streams.
func (builder *PullCommandBuilder) Execute(executionContext context.Context, options PullExecutionOptions, input io.Reader, output io.Writer) error {
	components, componentsError := assembleWorkflowComponents(workflowComponentInputs{
		Logger:               builder.resolveLogger(),
		HumanReadableLogging: builder.humanReadableLoggingEnabled(),
		GitExecutor:          builder.GitExecutor,
		Discoverer:           builder.Discoverer,
		FileSystem:           builder.FileSystem,
		Input:                input,
		Output:               output,
		DisplayLimit:         options.DisplayLimit,
	})
	if componentsError != nil {
		return componentsError
	}

	pullService, serviceError := syncservice.NewPullAllService(syncservice.PullAllDependencies{
		Discoverer:      components.discoverer,
		DirectoryPicker: components.picker,
		Executor:        components.executor,
		Coordinator:     components.coordinator,
		RequestFactory:  components.requestFactory,
		Output:          components.writer,
		Logger:          components.logger,
	})
	if serviceError != nil {
		return serviceError
	}

	_, executionError := pullService.Execute(executionContext, syncservice.PullAllOptions{
		TargetDirectory: options.TargetDirectory,
	})
	return executionError
}

func (builder *PullCommandBuilder) resolveConfiguration() PullConfiguration {
	if builder.ConfigurationProvider == nil {
		return PullConfiguration{}.sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *PullCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func (builder *PullCommandBuilder) humanReadableLoggingEnabled() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}
