package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"evmscan/pkg/config"
	"evmscan/pkg/logging"
	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/scan"

	"github.com/spf13/cobra"
)

var checkJSON bool

// errCheckFailed is returned when the configuration is invalid or a network probe fails.
var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test configuration and exit",
	Long: `Validate the configuration file, report which networks have an API key
and probe each explorer API with eth_blockNumber.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		report := runCheck(ctx, cfg, path, scan.NewClients(cfg, logging.Discard(), nil), cmd.OutOrStdout(), checkJSON)
		if !reportOK(report) {
			cmd.SilenceErrors = checkJSON
			return errCheckFailed
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output test results as JSON")
}

// runCheck validates cfg and probes every network's client. Progress goes to
// out as text, or the whole report as JSON when jsonOut is set.
func runCheck(ctx context.Context, cfg config.Config, path string, clients scan.Clients, out io.Writer, jsonOut bool) models.CheckReport {
	report := models.CheckReport{ConfigPath: path, ValidStructure: true}
	if !jsonOut {
		fmt.Fprintf(out, "Testing configuration at: %s\n", path)
	}

	for _, err := range cfg.Validate() {
		report.ValidStructure = false
		report.StructureErrors = append(report.StructureErrors, err.Error())
		if !jsonOut {
			fmt.Fprintf(out, "Error: %s\n", err)
		}
	}

	for _, n := range network.All {
		c, err := clients.For(n)
		if err != nil {
			continue
		}
		res := models.NetworkResult{
			Network:   n.String(),
			APIURL:    cfg.Network(n).APIURL,
			HasAPIKey: c.HasAPIKey(),
		}
		if !jsonOut {
			fmt.Fprintf(out, "Testing Network: %s (%s)\n  API: %s ... ", n.Title(), n.Symbol(), res.APIURL)
		}

		start := time.Now()
		block, err := c.FetchBlockNumber(ctx)
		if err != nil {
			res.Status = "error"
			res.Error = err.Error()
			if !jsonOut {
				fmt.Fprintf(out, "Failed: %v\n", err)
			}
		} else {
			res.Status = "ok"
			res.BlockNumber = block
			res.LatencyMS = time.Since(start).Milliseconds()
			if !jsonOut {
				fmt.Fprintf(out, "OK (block %d, %d ms)\n", block, res.LatencyMS)
			}
		}
		report.Networks = append(report.Networks, res)
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
	return report
}

func reportOK(r models.CheckReport) bool {
	if !r.ValidStructure {
		return false
	}
	for _, n := range r.Networks {
		if n.Status != "ok" {
			return false
		}
	}
	return true
}
