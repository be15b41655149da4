package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhish-rithvik/transport-optimizer/app"
	"github.com/sudhish-rithvik/transport-optimizer/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and demand file without running",
	RunE:  validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	demand, err := app.LoadDemand(cfg.DemandFile)
	if err != nil {
		return err
	}
	for _, d := range demand {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	cmd.Printf("config ok: %d routes, %d demand points, population %d, %d generations\n",
		len(cfg.Routes), len(demand), cfg.Optimizer.PopulationSize, cfg.Optimizer.Generations)
	return nil
}
