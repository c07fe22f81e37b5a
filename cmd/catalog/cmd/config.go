package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	Registry string `json:"registry" yaml:"registry" mapstructure:"registry"` // Location of the registry of clones
	Catalogs string `json:"catalogs" yaml:"catalogs" mapstructure:"catalogs"` // Location of the catalog definitions
	LogLevel string `json:"loglevel" yaml:"loglevel" mapstructure:"loglevel"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// configCmd represents the registry related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the registry of local clones",
	Long: `Commands to manage the registry of local clones.

The registry maps catalog names to the directories holding their local copies,
analogous to what "git remote" does for remotes.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
