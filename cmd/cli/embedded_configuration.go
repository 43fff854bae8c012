package cli

import _ "embed"

//go:embed config.yaml
var embeddedDefaultConfigurationContent []byte

const embeddedConfigurationTypeConstant = "yaml"

// EmbeddedDefaultConfiguration exposes the default configuration document compiled into the binary.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return embeddedDefaultConfigurationContent, embeddedConfigurationTypeConstant
}
