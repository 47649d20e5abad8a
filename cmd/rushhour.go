package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coffeehub/smartqueue/config"
	"github.com/coffeehub/smartqueue/core/simulation"
	"github.com/coffeehub/smartqueue/infra/logger"
)

var rushSeed int64

var rushhourCmd = &cobra.Command{
	Use:   "rushhour",
	Short: "Run the rush-hour simulation and print the report",
	RunE:  runRushhour,
}

func init() {
	rushhourCmd.Flags().Int64Var(&rushSeed, "seed", 0, "RNG seed, 0 for a time-based seed")
	rootCmd.AddCommand(rushhourCmd)
}

func runRushhour(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.Console)

	simCfg := cfg.Simulation
	if rushSeed != 0 {
		simCfg.Seed = rushSeed
	}
	sim, err := simulation.New(simCfg, logger.New("rushhour"))
	if err != nil {
		return fmt.Errorf("simulator: %w", err)
	}
	report := sim.Run()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
