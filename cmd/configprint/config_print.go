package configprint

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"launchpad-sync/internal/config"
	"launchpad-sync/pkg/log"
)

var (
	sectionFlag string
	formatFlag  string
)

var ConfigPrintCmd = &cobra.Command{
	Use:   "config-print",
	Short: "Print the current configuration",
	Long: `Print the loaded configuration or a specific section of it.
Supports YAML and JSON output formats.`,
	Example: `  # Print entire config
  launchpad-sync config-print

  # Print specific section
  launchpad-sync config-print --section postgres
  launchpad-sync config-print --section local

  # Print in YAML format
  launchpad-sync config-print --section postgres --format yaml`,
	Run: run,
}

func init() {
	ConfigPrintCmd.Flags().StringVarP(&sectionFlag, "section", "s", "",
		"print only a specific section (local, postgres, interval, id, log_level)")
	ConfigPrintCmd.Flags().StringVarP(&formatFlag, "format", "f", "json",
		"output format (yaml|json)")
}

func run(_ *cobra.Command, _ []string) {
	logger := log.Logger.With().Str("component", "config_print").Logger()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return
	}

	var output interface{}

	if sectionFlag == "" {
		output = redacted(cfg)
		logger.Info().Msg("Printing entire configuration")
	} else {
		output, err = getSection(cfg, sectionFlag)
		if err != nil {
			logger.Error().Err(err).Str("section", sectionFlag).Msg("Invalid section")
			return
		}
		logger.Info().Str("section", sectionFlag).Msg("Printing configuration section")
	}

	switch formatFlag {
	case "yaml":
		printYAML(logger, output)
	case "json":
		printJSON(logger, output)
	default:
		logger.Error().Msgf("unsupported format: %s (use 'yaml' or 'json')", formatFlag)
	}
}

func redacted(cfg *config.Config) config.Config {
	out := *cfg
	out.Postgres.Password = "********"
	return out
}

func getSection(cfg *config.Config, section string) (interface{}, error) {
	switch section {
	case "local":
		return cfg.Local, nil
	case "postgres":
		return redacted(cfg).Postgres, nil
	case "interval":
		return map[string]int{"interval": cfg.Interval}, nil
	case "id":
		return map[string]string{"id": cfg.ID}, nil
	case "log_level":
		return map[string]string{"log_level": cfg.LogLevel}, nil
	default:
		return nil, fmt.Errorf("unknown section: %s (valid: local, postgres, interval, id, log_level)", section)
	}
}

func printYAML(logger zerolog.Logger, data interface{}) {
	bytes, err := yaml.Marshal(data)
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode YAML")
		return
	}
	logger.Info().
		Str("format", "yaml").
		Str("config", "\n"+string(bytes)).
		Msg("Current configuration")
}

func printJSON(logger zerolog.Logger, data interface{}) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON")
		return
	}
	logger.Info().
		Str("format", "json").
		RawJSON("config", bytes).
		Msg("Current configuration")
}
