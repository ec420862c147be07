// Command admin is the operator tool for a rentflow deployment: demo data
// seeding, row-level security management, data inspection, payment status
// reconciliation, and an end-to-end smoke check.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rentflow/internal/config"
	"rentflow/internal/database"
	"rentflow/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Rentflow operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		seedCmd(),
		rlsCmd(),
		inspectCmd(),
		reconcileCmd(),
		smokeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// getDB connects to the configured database.
func getDB() (*gorm.DB, error) {
	if _, err := config.Load(); err != nil {
		return nil, err
	}
	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, err
	}
	return manager.DB(), nil
}
