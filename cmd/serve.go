package cmd

import (
	"os"

	"evmscan/pkg/logging"
	"evmscan/pkg/scan"
	"evmscan/pkg/server"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTML front-end, JSON API and metrics",
	Long: `Serve the explorer over HTTP.

Pages:
  /                                          search form
  /transactions/{network}/address/{address}  balance and transactions (?sort=timeStamp.desc&q=0xabc)
  /transactions/{network}/hash/{hash}        transaction details

JSON:
  /api/transactions/{network}/address/{address}
  /api/transactions/{network}/hash/{hash}

Also /health and /metrics (Prometheus).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		logger := logging.New(os.Stderr, cfg.LogLevel)
		logger.Info("configuration loaded", "path", path)
		for _, e := range cfg.Validate() {
			logger.Warn("config", "err", e)
		}
		clients := scan.NewClients(cfg, logger, nil)
		for n, c := range clients {
			if !c.HasAPIKey() {
				logger.Warn("no API key, lookups will come back empty", "network", n, "env", n.APIKeyEnv())
			}
		}

		ctx, cancel := signalContext()
		defer cancel()

		srv := server.NewServer(watcher.NewRealDataSource(clients), views.SettingsFromConfig(cfg, logger), logger)
		return srv.Start(ctx, cfg.Addr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
}
