package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Automatically confirm prompts"
	// DirectoryFlagName exposes the shared target-directory flag name.
	DirectoryFlagName = "directory"
	// DirectoryFlagUsage describes the shared target-directory flag purpose.
	DirectoryFlagUsage = "Target directory (skips the interactive directory picker)"
	// OwnerFlagName exposes the repository owner flag name.
	OwnerFlagName = "owner"
	// OwnerFlagUsage describes the repository owner flag purpose.
	OwnerFlagUsage = "GitHub user or organization owning the repositories"
)

// FormatChoiceUsage renders a flag usage string listing the accepted values.
func FormatChoiceUsage(description string, choices []string) string {
	if len(choices) == 0 {
		return description
	}
	return fmt.Sprintf("%s (%s)", description, strings.Join(choices, "|"))
}

// DirectoryFlagDefinition captures configuration for the target-directory flag.
type DirectoryFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// DirectoryFlagValues stores target-directory flag values.
type DirectoryFlagValues struct {
	Directory string
}

// BindDirectoryFlag attaches the target-directory flag to the provided command.
func BindDirectoryFlag(command *cobra.Command, defaults DirectoryFlagValues, definition DirectoryFlagDefinition) *DirectoryFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	if !definition.Enabled {
		return &values
	}

	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = DirectoryFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = DirectoryFlagUsage
	}

	if command.Flags().Lookup(flagName) == nil {
		command.Flags().StringVar(&values.Directory, flagName, defaults.Directory, flagUsage)
	}
	return &values
}

// BindOwnerFlag attaches the repository owner flag to the provided command.
func BindOwnerFlag(command *cobra.Command, defaultValue string) *string {
	ownerValue := defaultValue
	if command == nil {
		return &ownerValue
	}

	if command.Flags().Lookup(OwnerFlagName) == nil {
		command.Flags().StringVar(&ownerValue, OwnerFlagName, defaultValue, OwnerFlagUsage)
	}
	return &ownerValue
}
