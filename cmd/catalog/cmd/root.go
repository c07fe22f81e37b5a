// Copyright © 2020 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/oneconcern/catalog/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "catalog manages local copies of versioned reference catalogs",
	Long: `catalog manages local copies of versioned reference catalogs.

A catalog is a dataset maintained either as a git repository, where tags are versions,
or as a series of versioned releases archived on Zenodo.

Local clones are recorded in a registry, so that tools may find them by name.
`,
	SilenceUsage: true,
}

var cliConfig *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addRegistryFlag(rootCmd)
	addCatalogsFlag(rootCmd)
	for _, key := range []string{registryKey, catalogsKey, logLevelKey} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			log.Fatalln(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv("CATALOG_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("CATALOG_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.catalog")
		viper.SetConfigName("catalog")
	}

	viper.SetEnvPrefix("CATALOG")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	cliConfig, err = newConfig()
	if err != nil {
		wrapFatalln("read configuration", err)
		return
	}
	if cliConfig.LogLevel == "" {
		cliConfig.LogLevel = dlogger.LogLevelInfo
	}
}
