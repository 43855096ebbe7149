package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yatradesk/tourdata/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tourdata",
	Short: "Generative cache-population pipeline for tourism catalog data",
	Long:  "Serves places, festivals and place details for Indian states: cached records when present, freshly generated and validated ones otherwise, curated seeds as a last resort.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
