package cmd

import (
	"log"

	"github.com/spf13/cobra"

	appcfg "github.com/Skotchmaster/online_shopping/internal/config"
	"github.com/Skotchmaster/online_shopping/internal/db"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appcfg.LoadForMigrate()
		if err := db.Up(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Println("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appcfg.LoadForMigrate()
		if err := db.Down(cfg.DatabaseURL, migrateDownSteps); err != nil {
			return err
		}
		log.Println("migrations rolled back")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back, 0 for all")
}
