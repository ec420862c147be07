package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentflow/internal/services"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Re-derive payment statuses from amounts and due dates",
		Long: "Walks every unsettled payment and re-derives its status from " +
			"amount, paid amount, and due date. Catches pending payments whose " +
			"due date passed since the last write.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}

			users := services.NewUserService(db)
			properties := services.NewPropertyService(db)
			tenants := services.NewTenantService(db, properties)
			payments := services.NewPaymentService(db, tenants, users)

			corrected, err := payments.ReconcileStatuses()
			if err != nil {
				return err
			}
			fmt.Printf("Corrected %d payment status(es)\n", corrected)
			return nil
		},
	}
}
