package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"launchpad-sync/cmd/configprint"
	"launchpad-sync/cmd/sync"
	"launchpad-sync/cmd/version"
	"launchpad-sync/pkg/log"
)

var cfgFile string

const cfgFlagName = "config"

var RootCmd = &cobra.Command{
	Use:   "launchpad-sync",
	Short: "Keep a team's launch pad catalog in sync with the shared store",
	Long: `launchpad-sync keeps the local launch pad catalog (bookmarks, executables
and scripts) in sync with the team's shared PostgreSQL store. Team-level
records flow both ways: remote changes are pulled into the local catalog
and records the shared store has never seen are pushed up.`,
}

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d, b string) {
	version.SetVersionInfo(v, c, d, b)
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, cfgFlagName, "c", "", "path to config file")

	viper.BindPFlag(cfgFlagName, RootCmd.PersistentFlags().Lookup(cfgFlagName))
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("launchpad_sync")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/launchpad-sync/")
	viper.AddConfigPath("$HOME/.launchpad-sync")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cobra.OnInitialize(loadConfigFile)

	RootCmd.AddCommand(sync.SyncCmd)
	RootCmd.AddCommand(version.VersionCmd)
	RootCmd.AddCommand(configprint.ConfigPrintCmd)
}

func loadConfigFile() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// environment-only configuration is fine
			return
		}
		log.Logger.Error().Err(err).Msg("Failed to read config file")
		os.Exit(1)
	}
}
