package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rentflow/internal/models"
)

// Row-level security management. Policies are generated from
// models.OwnedTables so the database layer gates on the same ownership
// column the application queries filter on.

func rlsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rls",
		Short: "Manage row-level security policies for user-owned tables",
	}
	cmd.AddCommand(rlsEnableCmd(), rlsDisableCmd(), rlsStatusCmd())
	return cmd
}

func rlsEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Enable RLS and create per-table user_id policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			for _, table := range models.OwnedTables {
				stmts := []string{
					fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", table),
					fmt.Sprintf("DROP POLICY IF EXISTS %s_owner ON %s", table, table),
					fmt.Sprintf(
						"CREATE POLICY %s_owner ON %s USING (user_id = current_setting('app.user_id')::uuid)",
						table, table),
				}
				for _, stmt := range stmts {
					if err := db.Exec(stmt).Error; err != nil {
						return fmt.Errorf("table %s: %w", table, err)
					}
				}
				fmt.Printf("enabled RLS on %s\n", table)
			}
			return nil
		},
	}
}

func rlsDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Drop the user_id policies and disable RLS",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			for _, table := range models.OwnedTables {
				stmts := []string{
					fmt.Sprintf("DROP POLICY IF EXISTS %s_owner ON %s", table, table),
					fmt.Sprintf("ALTER TABLE %s DISABLE ROW LEVEL SECURITY", table),
				}
				for _, stmt := range stmts {
					if err := db.Exec(stmt).Error; err != nil {
						return fmt.Errorf("table %s: %w", table, err)
					}
				}
				fmt.Printf("disabled RLS on %s\n", table)
			}
			return nil
		},
	}
}

func rlsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show RLS state and policy presence per owned table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			fmt.Printf("%-24s  %-8s  %-8s\n", "Table", "RLS", "Policy")
			for _, table := range models.OwnedTables {
				enabled, err := rlsEnabled(db, table)
				if err != nil {
					return fmt.Errorf("table %s: %w", table, err)
				}
				hasPolicy, err := policyExists(db, table)
				if err != nil {
					return fmt.Errorf("table %s: %w", table, err)
				}
				fmt.Printf("%-24s  %-8v  %-8v\n", table, enabled, hasPolicy)
			}
			return nil
		},
	}
}

func rlsEnabled(db *gorm.DB, table string) (bool, error) {
	var enabled bool
	err := db.Raw("SELECT relrowsecurity FROM pg_class WHERE relname = ?", table).Scan(&enabled).Error
	return enabled, err
}

func policyExists(db *gorm.DB, table string) (bool, error) {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM pg_policies WHERE tablename = ? AND policyname = ?",
		table, table+"_owner").Scan(&count).Error
	return count > 0, err
}
