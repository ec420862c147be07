package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rentflow/internal/models"
)

func inspectCmd() *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report row counts, per-user ownership, and orphaned references",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			return inspect(db, userEmail)
		},
	}

	cmd.Flags().StringVar(&userEmail, "user", "", "Limit the report to one user's data")

	return cmd
}

func inspect(db *gorm.DB, userEmail string) error {
	var userID string
	if userEmail != "" {
		var user models.User
		if err := db.Where("email = ?", userEmail).First(&user).Error; err != nil {
			return fmt.Errorf("user %s: %w", userEmail, err)
		}
		userID = user.ID
		fmt.Printf("Report for %s (%s)\n\n", userEmail, userID)
	}

	fmt.Printf("%-24s  %8s\n", "Table", "Rows")
	for _, table := range models.OwnedTables {
		query := db.Table(table).Where("deleted_at IS NULL")
		if userID != "" {
			query = query.Where("user_id = ?", userID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		fmt.Printf("%-24s  %8d\n", table, count)
	}

	if userID == "" {
		fmt.Println("\nOwnership by user:")
		type ownerRow struct {
			Email string
			Count int64
		}
		var owners []ownerRow
		if err := db.Table("properties").
			Select("users.email AS email, COUNT(*) AS count").
			Joins("JOIN users ON users.id = properties.user_id").
			Where("properties.deleted_at IS NULL").
			Group("users.email").
			Order("count DESC").
			Scan(&owners).Error; err != nil {
			return fmt.Errorf("ownership breakdown: %w", err)
		}
		for _, o := range owners {
			fmt.Printf("  %-40s  %d properties\n", o.Email, o.Count)
		}
	}

	// The tenant->property and payment->tenant references are advisory so
	// orphans are possible; surface them rather than hiding them.
	fmt.Println("\nOrphaned references:")
	orphanChecks := []struct {
		label string
		query string
	}{
		{"tenants -> missing property", `
			SELECT COUNT(*) FROM tenants t
			WHERE t.deleted_at IS NULL
			  AND NOT EXISTS (SELECT 1 FROM properties p WHERE p.id = t.property_id AND p.deleted_at IS NULL)`},
		{"payments -> missing tenant", `
			SELECT COUNT(*) FROM payments pay
			WHERE pay.deleted_at IS NULL
			  AND NOT EXISTS (SELECT 1 FROM tenants t WHERE t.id = pay.tenant_id AND t.deleted_at IS NULL)`},
		{"payments -> missing property", `
			SELECT COUNT(*) FROM payments pay
			WHERE pay.deleted_at IS NULL
			  AND NOT EXISTS (SELECT 1 FROM properties p WHERE p.id = pay.property_id AND p.deleted_at IS NULL)`},
		{"maintenance -> missing property", `
			SELECT COUNT(*) FROM maintenance_requests m
			WHERE m.deleted_at IS NULL
			  AND NOT EXISTS (SELECT 1 FROM properties p WHERE p.id = m.property_id AND p.deleted_at IS NULL)`},
	}
	for _, check := range orphanChecks {
		var count int64
		if err := db.Raw(check.query).Scan(&count).Error; err != nil {
			return fmt.Errorf("%s: %w", check.label, err)
		}
		fmt.Printf("  %-36s  %d\n", check.label, count)
	}

	return nil
}
