package utils

import (
	"bytes"
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant            = "."
	configurationEnvironmentSeparatorConstant    = "_"
	embeddedConfigurationReadErrorPrefixConstant = "unable to read embedded configuration: "
	configurationMergeErrorPrefixConstant        = "unable to merge configuration file: "
	configurationDecodeErrorPrefixConstant       = "unable to decode configuration: "
)

// LoadedConfiguration describes where the effective configuration came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationLoader layers configuration from embedded defaults, explicit
// default values, configuration files, and environment variables.
//
// Precedence, lowest to highest: default values, embedded configuration,
// configuration file, environment variables.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader constructs a loader for the named configuration.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	copiedSearchPaths := make([]string, len(searchPaths))
	copy(copiedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       copiedSearchPaths,
	}
}

// SetEmbeddedConfiguration registers baseline configuration shipped inside the binary.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(content []byte, contentType string) {
	loader.embeddedConfiguration = content
	loader.embeddedConfigurationType = contentType
}

// LoadConfiguration resolves the effective configuration into target.
//
// explicitFilePath, when non-empty, bypasses the search paths entirely.
func (loader *ConfigurationLoader) LoadConfiguration(explicitFilePath string, defaultValues map[string]any, target any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}
		viperInstance.SetConfigType(embeddedType)
		if readError := viperInstance.ReadConfig(bytes.NewReader(loader.embeddedConfiguration)); readError != nil {
			return LoadedConfiguration{}, errors.New(embeddedConfigurationReadErrorPrefixConstant + readError.Error())
		}
		viperInstance.SetConfigType(loader.configurationType)
	}

	metadata := LoadedConfiguration{}
	trimmedExplicitFilePath := strings.TrimSpace(explicitFilePath)
	if len(trimmedExplicitFilePath) > 0 {
		viperInstance.SetConfigFile(trimmedExplicitFilePath)
		if mergeError := viperInstance.MergeInConfig(); mergeError != nil {
			return LoadedConfiguration{}, errors.New(configurationMergeErrorPrefixConstant + mergeError.Error())
		}
		metadata.ConfigFileUsed = viperInstance.ConfigFileUsed()
	} else {
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
		mergeError := viperInstance.MergeInConfig()
		if mergeError == nil {
			metadata.ConfigFileUsed = viperInstance.ConfigFileUsed()
		} else {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(mergeError, &configFileNotFound) {
				return LoadedConfiguration{}, errors.New(configurationMergeErrorPrefixConstant + mergeError.Error())
			}
		}
	}

	if len(loader.environmentPrefix) > 0 {
		viperInstance.SetEnvPrefix(loader.environmentPrefix)
		viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, configurationEnvironmentSeparatorConstant))
		viperInstance.AutomaticEnv()
	}

	if target != nil {
		if decodeError := viperInstance.Unmarshal(target); decodeError != nil {
			return LoadedConfiguration{}, errors.New(configurationDecodeErrorPrefixConstant + decodeError.Error())
		}
	}

	return metadata, nil
}
