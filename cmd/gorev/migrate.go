package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := loadConfig()
		store := openStore(cfg)
		defer store.Close()

		log.Info("database migrated", "path", cfg.Database.Path, "driver", cfg.Database.Driver)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
