package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gorev/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the achievement catalog and default categories",
	Long:  `Insert missing achievement definitions and, when no category exists yet, the default categories. Running it again is harmless.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := loadConfig()
		store := openStore(cfg)
		defer store.Close()

		if err := repository.Seed(cmd.Context(), store); err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		log.Info("database seeded", "path", cfg.Database.Path)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
