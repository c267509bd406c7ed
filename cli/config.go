package cli

import (
	"github.com/shibukawa/spokenform"
)

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*spokenform.Config, error) {
	return spokenform.LoadConfig(configPath)
}
