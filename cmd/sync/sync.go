package sync

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchpad-sync/internal/config"
	"launchpad-sync/internal/core"
	"launchpad-sync/internal/service/orchestrator"
	"launchpad-sync/pkg/log"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the local catalog with the shared team store",
	Long:  `Synchronize the local launch pad catalog with the shared team store in various execution modes.`,
}

var onceCmd = &cobra.Command{
	Use:     "once",
	Short:   "Run one sync pass and exit",
	Long:    `Perform a single pull-then-push synchronization pass over all entity kinds and exit.`,
	Example: `launchpad-sync sync once --config /path/to/config.yaml`,
	Run:     runOnce,
}

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	Short:   "Run sync on an interval until stopped",
	Long:    `Run sync passes continuously on the configured interval until interrupted.`,
	Example: `launchpad-sync sync daemon --config /path/to/config.yaml`,
	Run:     runDaemon,
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show when the catalog last synced",
	Long:    `Print the timestamp of the last completed sync pass recorded in the local catalog.`,
	Example: `launchpad-sync sync status --config /path/to/config.yaml`,
	Run:     runStatus,
}

func init() {
	SyncCmd.AddCommand(onceCmd)
	SyncCmd.AddCommand(daemonCmd)
	SyncCmd.AddCommand(statusCmd)
}

func setup(component string) (*core.Wiring, *orchestrator.Orchestrator, bool) {
	logger := log.Logger.With().Str("component", component).Logger()

	appConfig, err := config.NewConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Error creating config")
		return nil, nil, false
	}
	log.Init(appConfig.ID, appConfig.LogLevel)

	wiring := core.NewWiring(appConfig)
	return wiring, wiring.InitOrchestrator(), true
}

func runOnce(_ *cobra.Command, _ []string) {
	logger := log.Logger.With().Str("component", "sync-once").Logger()
	logger.Info().Msg("Starting one-time catalog sync")

	wiring, engine, ok := setup("sync-once")
	if !ok {
		return
	}
	defer wiring.Close()

	result := engine.RunOnce()
	if !result.Success {
		logger.Error().Strs("errors", result.Errors).Msg("Sync finished with errors")
		return
	}
	logger.Info().
		Int("items_synced", result.ItemsSynced).
		Int("conflicts", result.Conflicts).
		Msg("One-time sync completed successfully")
}

func runDaemon(_ *cobra.Command, _ []string) {
	logger := log.Logger.With().Str("component", "sync-daemon").Logger()
	logger.Info().Msg("Starting catalog sync daemon")

	wiring, engine, ok := setup("sync-daemon")
	if !ok {
		return
	}
	defer wiring.Close()

	engine.Start(wiring.Interval())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	logger.Info().Str("signal", sig.String()).Msg("Shutting down sync daemon")
	engine.Stop()
}

func runStatus(_ *cobra.Command, _ []string) {
	logger := log.Logger.With().Str("component", "sync-status").Logger()

	appConfig, err := config.NewConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Error creating config")
		return
	}
	log.Init(appConfig.ID, appConfig.LogLevel)

	wiring := core.NewWiring(appConfig)
	defer wiring.Close()

	lastSync, err := wiring.InitLocalStore().GetSetting(orchestrator.LastSyncTimestampKey)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read last sync timestamp")
		return
	}
	if lastSync == "" {
		logger.Info().Msg("The catalog has never synced")
		return
	}
	logger.Info().Str("last_sync", lastSync).Msg("Last completed sync")
}
