// Package cli wires the gsync command-line application.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	synccmd "github.com/tyemirov/gsync/cmd/cli/sync"
	"github.com/tyemirov/gsync/internal/execshell"
	reposdeps "github.com/tyemirov/gsync/internal/repos/dependencies"
	"github.com/tyemirov/gsync/internal/utils"
	flagutils "github.com/tyemirov/gsync/internal/utils/flags"
	"github.com/tyemirov/gsync/internal/version"
)

const (
	applicationUseConstant   = "gsync"
	applicationShortConstant = "Synchronize a local directory tree with GitHub repositories"
	applicationLongConstant  = "gsync clones the GitHub repositories missing from a local directory and fast-forwards the ones already present. Run it without arguments for the interactive menu."

	configurationNameConstant  = ".gsync"
	configurationTypeConstant  = "yaml"
	environmentPrefixConstant  = "GSYNC"
	userConfigurationDirectory = ".config/gsync"

	configurationFlagNameConstant  = "config"
	configurationFlagUsageConstant = "Path to the configuration file"
	logLevelFlagNameConstant       = "log-level"
	logLevelFlagUsageConstant      = "Log verbosity"
	logFormatFlagNameConstant      = "log-format"
	logFormatFlagUsageConstant     = "Log output format"
	versionFlagNameConstant        = "version"
	versionFlagUsageConstant       = "Print the application version and exit"

	logLevelConfigurationKeyConstant  = "common.log_level"
	logFormatConfigurationKeyConstant = "common.log_format"
	assumeYesConfigurationKeyConstant = "common.assume_yes"

	cloneOperationNameConstant = "clone"
	pullOperationNameConstant  = "pull"

	versionCommandUseConstant   = "version"
	versionCommandShortConstant = "Print the application version"
	versionOutputTemplate       = "gsync version: %s\n"

	startupErrorTemplateConstant        = "required tools missing from PATH: %s"
	configurationLoadTemplateConstant   = "unable to load configuration: %w"
	operationConfigurationTemplateError = "invalid operation configuration: %w"
	commandBuildTemplateConstant        = "unable to build %s command: %w"
)

// StartupError reports external tools absent from PATH at startup.
type StartupError struct {
	MissingTools []string
}

// Error implements the error interface.
func (startupError StartupError) Error() string {
	return fmt.Sprintf(startupErrorTemplateConstant, strings.Join(startupError.MissingTools, ", "))
}

// Application owns the root command and its shared collaborators.
type Application struct {
	rootCommand             *cobra.Command
	configurationLoader     *utils.ConfigurationLoader
	loggerFactory           *utils.LoggerFactory
	commandContextAccessor  utils.CommandContextAccessor
	logger                  *zap.Logger
	consoleLogger           *zap.Logger
	configuration           ApplicationConfiguration
	operationConfigurations OperationConfigurations
	configurationFilePath   string
	logLevelFlagValue       string
	logFormatFlagValue      string
	effectiveLogFormat      string
	versionFlagValue        bool
	cloneBuilder            *synccmd.CloneCommandBuilder
	pullBuilder             *synccmd.PullCommandBuilder
	versionResolver         func(executionContext context.Context) string
	prerequisitesChecker    func() error
	exitFunction            func(exitCode int)
}

// Execute builds the application and runs it with the process arguments.
func Execute() error {
	application, creationError := NewApplication()
	if creationError != nil {
		return creationError
	}
	return application.Run()
}

// NewApplication constructs the application with its default collaborators.
func NewApplication() (*Application, error) {
	application := &Application{
		configurationLoader:    utils.NewConfigurationLoader(configurationNameConstant, configurationTypeConstant, environmentPrefixConstant, configurationSearchPaths()),
		loggerFactory:          utils.NewLoggerFactory(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		exitFunction:           os.Exit,
	}
	application.versionResolver = application.resolveVersion
	application.prerequisitesChecker = application.checkPrerequisites

	application.cloneBuilder = &synccmd.CloneCommandBuilder{
		LoggerProvider:               func() *zap.Logger { return application.logger },
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider:        application.cloneConfiguration,
	}
	application.pullBuilder = &synccmd.PullCommandBuilder{
		LoggerProvider:               func() *zap.Logger { return application.logger },
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider:        application.pullConfiguration,
	}

	rootCommand := &cobra.Command{
		Use:               applicationUseConstant,
		Short:             applicationShortConstant,
		Long:              applicationLongConstant,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: application.initializeConfiguration,
		RunE:              application.runInteractiveMenu,
	}

	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configurationFlagNameConstant, "", configurationFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flagutils.FormatChoiceUsage(logLevelFlagUsageConstant, []string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)}))
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.FormatChoiceUsage(logFormatFlagUsageConstant, []string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)}))
	rootCommand.PersistentFlags().BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)
	flagutils.BindExecutionFlags(rootCommand, flagutils.ExecutionDefaults{}, flagutils.ExecutionFlagDefinitions{
		AssumeYes: flagutils.ExecutionFlagDefinition{Name: flagutils.AssumeYesFlagName, Shorthand: flagutils.AssumeYesFlagShorthand, Usage: flagutils.AssumeYesFlagUsage, Enabled: true},
	})

	cloneCommand, cloneBuildError := application.cloneBuilder.Build()
	if cloneBuildError != nil {
		return nil, fmt.Errorf(commandBuildTemplateConstant, cloneOperationNameConstant, cloneBuildError)
	}
	cloneCommand.PreRunE = application.runPrerequisiteCheck

	pullCommand, pullBuildError := application.pullBuilder.Build()
	if pullBuildError != nil {
		return nil, fmt.Errorf(commandBuildTemplateConstant, pullOperationNameConstant, pullBuildError)
	}
	pullCommand.PreRunE = application.runPrerequisiteCheck

	rootCommand.AddCommand(cloneCommand, pullCommand, application.buildVersionCommand())

	application.rootCommand = rootCommand
	return application, nil
}

// Run executes the root command against the process arguments.
//
// Interactive prompts end without a newline, so process stdout goes
// through a flushing writer to keep them visible immediately.
func (application *Application) Run() error {
	if application.rootCommand.OutOrStdout() == os.Stdout {
		application.rootCommand.SetOut(utils.NewFlushingWriter(bufio.NewWriter(os.Stdout)))
	}
	return application.rootCommand.Execute()
}

// RootCommand exposes the assembled root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func configurationSearchPaths() []string {
	searchPaths := []string{"."}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError == nil && len(homeDirectory) > 0 {
		searchPaths = append(searchPaths, homeDirectory, filepath.Join(homeDirectory, userConfigurationDirectory))
	}
	return searchPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command, _ []string) error {
	embeddedContent, embeddedType := EmbeddedDefaultConfiguration()
	application.configurationLoader.SetEmbeddedConfiguration(embeddedContent, embeddedType)

	defaults := map[string]any{
		logLevelConfigurationKeyConstant:  string(utils.LogLevelError),
		logFormatConfigurationKeyConstant: string(utils.LogFormatStructured),
		assumeYesConfigurationKeyConstant: false,
	}

	application.configuration = ApplicationConfiguration{}
	if _, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaults, &application.configuration); loadError != nil {
		return fmt.Errorf(configurationLoadTemplateConstant, loadError)
	}

	operationConfigurations, configurationError := newOperationConfigurations(application.configuration.Operations)
	if configurationError != nil {
		return fmt.Errorf(operationConfigurationTemplateError, configurationError)
	}
	application.operationConfigurations = operationConfigurations.MergeDefaults(loadEmbeddedOperationConfigurations())

	effectiveLogLevel := application.configuration.Common.LogLevel
	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		effectiveLogLevel = application.logLevelFlagValue
	}
	effectiveLogFormat := application.configuration.Common.LogFormat
	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		effectiveLogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerError := application.loggerFactory.CreateLoggerOutputs(utils.LogLevel(effectiveLogLevel), utils.LogFormat(effectiveLogFormat))
	if loggerError != nil {
		return loggerError
	}
	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger
	application.effectiveLogFormat = effectiveLogFormat

	executionFlags := flagutils.CollectExecutionFlags(command)
	if !executionFlags.AssumeYesSet && application.configuration.Common.AssumeYes {
		executionFlags.AssumeYes = true
	}

	commandContext := command.Context()
	commandContext = application.commandContextAccessor.WithConfigurationFilePath(commandContext, application.configurationFilePath)
	commandContext = application.commandContextAccessor.WithExecutionFlags(commandContext, executionFlags)
	commandContext = application.commandContextAccessor.WithLogLevel(commandContext, effectiveLogLevel)
	command.SetContext(commandContext)
	application.rootCommand.SetContext(commandContext)

	if application.versionFlagValue {
		application.printVersion(command)
		application.exitFunction(0)
	}

	return nil
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	persistentFlag := command.Root().PersistentFlags().Lookup(flagName)
	if persistentFlag == nil {
		return false
	}
	return persistentFlag.Changed
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(application.effectiveLogFormat, string(utils.LogFormatConsole))
}

func (application *Application) cloneConfiguration() synccmd.CloneConfiguration {
	configuration := synccmd.CloneConfiguration{AssumeYes: application.configuration.Common.AssumeYes}
	if decodeError := application.operationConfigurations.decode(cloneOperationNameConstant, &configuration); decodeError != nil {
		application.logger.Warn(decodeError.Error())
	}
	return configuration
}

func (application *Application) pullConfiguration() synccmd.PullConfiguration {
	configuration := synccmd.PullConfiguration{}
	if decodeError := application.operationConfigurations.decode(pullOperationNameConstant, &configuration); decodeError != nil {
		application.logger.Warn(decodeError.Error())
	}
	return configuration
}

func (application *Application) runPrerequisiteCheck(_ *cobra.Command, _ []string) error {
	return application.prerequisitesChecker()
}

// checkPrerequisites verifies the wrapped external tools exist before any workflow runs.
func (application *Application) checkPrerequisites() error {
	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner(), application.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	missingTools := make([]string, 0, 2)
	for _, requiredCommand := range []execshell.CommandName{execshell.CommandGit, execshell.CommandGitHub} {
		if !shellExecutor.CommandAvailable(requiredCommand) {
			missingTools = append(missingTools, string(requiredCommand))
		}
	}
	if len(missingTools) > 0 {
		return StartupError{MissingTools: missingTools}
	}
	return nil
}

func (application *Application) buildVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			application.printVersion(command)
			return nil
		},
	}
}

func (application *Application) printVersion(command *cobra.Command) {
	fmt.Fprintf(command.OutOrStdout(), versionOutputTemplate, application.versionResolver(command.Context()))
}

func (application *Application) resolveVersion(executionContext context.Context) string {
	gitExecutor, executorError := reposdeps.ResolveGitExecutor(nil, zap.NewNop(), false)
	if executorError != nil {
		gitExecutor = nil
	}
	return version.Detect(executionContext, version.Dependencies{GitExecutor: gitExecutor})
}
