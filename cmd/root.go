package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"evmscan/pkg/config"
	"evmscan/pkg/logging"
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/scan"
	"evmscan/pkg/tui"
	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X evmscan/cmd.Version=..."
var Version = "dev"

var (
	configPath  string
	logLevel    string
	networkName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evmscan [path|address]",
	Short: "Browse Ethereum and Polygon addresses and transactions",
	Long: `evmscan looks up balances, transaction lists and transaction details
on Ethereum and Polygon through the Etherscan and Polygonscan APIs.

Without a subcommand it starts the terminal explorer. An address opens its
transaction list directly; a path such as
/transactions/polygon/hash/0x... opens that page.

Lookups that fail are not reported as errors: the balance shows as 0, the
transaction list as empty and a transaction as not found. Failures are
written to the log file when one is configured.

Examples:
  evmscan                                     # Start at the search page
  evmscan 0xcb1bBF5e3ABA3f9E935feB03cA973Dfd12EbA56f
  evmscan -n polygon 0xcb1bBF5e3ABA3f9E935feB03cA973Dfd12EbA56f
  evmscan serve --port 8080                   # HTML front-end and JSON API
  evmscan check --json                        # Validate config and probe APIs`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (default ~/"+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.Flags().StringVarP(&networkName, "network", "n", string(network.Ethereum), "network for an address argument")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config path, loads the file and applies flag overrides.
func loadConfig() (config.Config, string, error) {
	path, err := config.GetConfigPath(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determining config path: %w", err)
	}
	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		return config.Config{}, path, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, path, nil
}

// initialRoute turns the optional argument into the first page to show.
// A bare address opens on netName; anything else must be a navigation path.
func initialRoute(arg, netName string) (route.Route, error) {
	if arg == "" {
		return route.Home(), nil
	}
	if views.IsValidAddress(arg) {
		n, err := network.Parse(netName)
		if err != nil {
			return route.Route{}, err
		}
		return route.ForAddress(n, arg), nil
	}
	return route.Parse(arg)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	start, err := initialRoute(arg, networkName)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	// the alt-screen owns stdout, so logs only go to a file
	logger, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = closeLog() }()

	for _, e := range cfg.Validate() {
		logger.Warn("config", "err", e)
	}

	ctx, cancel := signalContext()
	defer cancel()

	clients := scan.NewClients(cfg, logger, nil)
	w := watcher.NewWatcher(watcher.NewRealDataSource(clients), logger)
	defer w.Stop()

	return tui.Start(ctx, w, views.SettingsFromConfig(cfg, logger), start, Version)
}
