package sync

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/gsync/internal/repos/dependencies"
	"github.com/tyemirov/gsync/internal/repos/prompt"
	"github.com/tyemirov/gsync/internal/repos/shared"
	syncservice "github.com/tyemirov/gsync/internal/sync"
	flagutils "github.com/tyemirov/gsync/internal/utils/flags"
)

const (
	cloneUseConstant              = "clone"
	cloneShortDescriptionConstant = "Clone remote repositories that have no local folder"
	cloneLongDescriptionConstant  = "clone lists the GitHub repositories of an owner, compares them against the subfolders of a target directory, and clones the ones that are missing."
)

// CloneConfiguration captures configured defaults for the clone command.
type CloneConfiguration struct {
	Owner        string `mapstructure:"owner"`
	Directory    string `mapstructure:"directory"`
	AssumeYes    bool   `mapstructure:"assume_yes"`
	DisplayLimit int    `mapstructure:"display_limit"`
}

func (configuration CloneConfiguration) sanitize() CloneConfiguration {
	sanitized := configuration
	sanitized.Owner = strings.TrimSpace(configuration.Owner)
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	if sanitized.DisplayLimit < 1 {
		sanitized.DisplayLimit = defaultDirectoryDisplayLimitConstant
	}
	return sanitized
}

// CloneExecutionOptions tunes one clone workflow run.
type CloneExecutionOptions struct {
	Owner           string
	TargetDirectory string
	AssumeYes       bool
	DisplayLimit    int
}

// CloneCommandBuilder assembles the clone command.
type CloneCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	Discoverer                   shared.RepositoryDiscoverer
	FileSystem                   shared.FileSystem
	GitHubClient                 syncservice.GitHubMetadataClient
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CloneConfiguration
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescriptionConstant,
		Long:  cloneLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	configuration := builder.resolveConfiguration()
	flagutils.BindOwnerFlag(command, configuration.Owner)
	flagutils.BindDirectoryFlag(command, flagutils.DirectoryFlagValues{Directory: configuration.Directory}, flagutils.DirectoryFlagDefinition{Enabled: true})

	return command, nil
}

// ExecutionOptionsFromConfiguration derives run options from configured defaults alone.
func (builder *CloneCommandBuilder) ExecutionOptionsFromConfiguration() CloneExecutionOptions {
	configuration := builder.resolveConfiguration()
	return CloneExecutionOptions{
		Owner:           configuration.Owner,
		TargetDirectory: configuration.Directory,
		AssumeYes:       configuration.AssumeYes,
		DisplayLimit:    configuration.DisplayLimit,
	}
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, _ []string) error {
	options := builder.ExecutionOptionsFromConfiguration()

	ownerFlagValue, ownerFlagChanged, ownerFlagError := flagutils.StringFlag(command, flagutils.OwnerFlagName)
	if ownerFlagError != nil && !errors.Is(ownerFlagError, flagutils.ErrFlagNotDefined) {
		return ownerFlagError
	}
	if ownerFlagChanged {
		options.Owner = ownerFlagValue
	}

	directoryFlagValue, directoryFlagChanged, directoryFlagError := flagutils.StringFlag(command, flagutils.DirectoryFlagName)
	if directoryFlagError != nil && !errors.Is(directoryFlagError, flagutils.ErrFlagNotDefined) {
		return directoryFlagError
	}
	if directoryFlagChanged {
		options.TargetDirectory = directoryFlagValue
	}

	executionFlags, executionFlagsAvailable := flagutils.ResolveExecutionFlags(command)
	if executionFlagsAvailable && executionFlags.AssumeYesSet {
		options.AssumeYes = executionFlags.AssumeYes
	}

	return builder.Execute(command.Context(), options, command.InOrStdin(), command.OutOrStdout())
}

// Execute runs the clone workflow against the provided streams.
func (builder *CloneCommandBuilder) Execute(executionContext context.Context, options CloneExecutionOptions, input io.Reader, output io.Writer) error {
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

	githubClient := builder.GitHubClient
	if githubClient == nil {
		resolvedClient, clientError := dependencies.ResolveGitHubClient(nil, components.gitExecutor)
		if clientError != nil {
			return clientError
		}
		githubClient = resolvedClient
	}

	sessionState := prompt.NewSessionState(options.AssumeYes)
	confirmationPrompter := prompt.NewSessionPrompter(prompt.NewIOConfirmationPrompter(components.reader, components.writer), sessionState)

	cloneService, serviceError := syncservice.NewCloneMissingService(syncservice.CloneMissingDependencies{
		GitHubClient:    githubClient,
		Discoverer:      components.discoverer,
		DirectoryPicker: components.picker,
		Executor:        components.executor,
		Coordinator:     components.coordinator,
		Prompter:        confirmationPrompter,
		RequestFactory:  components.requestFactory,
		Input:           components.reader,
		Output:          components.writer,
		Logger:          components.logger,
	})
	if serviceError != nil {
		return serviceError
	}

	_, executionError := cloneService.Execute(executionContext, syncservice.CloneMissingOptions{
		Owner:           options.Owner,
		TargetDirectory: options.TargetDirectory,
	})
	return executionError
}

func (builder *CloneCommandBuilder) resolveConfiguration() CloneConfiguration {
	if builder.ConfigurationProvider == nil {
		return CloneConfiguration{}.sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CloneCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func (builder *CloneCommandBuilder) humanReadableLoggingEnabled() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}
