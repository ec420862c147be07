package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rentflow/internal/models"
	"rentflow/internal/services"
)

func seedCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo landlord with properties, tenants, payments, maintenance, and expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			return seed(db, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "demo@rentflow.dev", "Demo landlord email")
	cmd.Flags().StringVar(&password, "password", "demo-password-1", "Demo landlord password")

	return cmd
}

func seed(db *gorm.DB, email, password string) error {
	users := services.NewUserService(db)
	properties := services.NewPropertyService(db)
	tenants := services.NewTenantService(db, properties)
	payments := services.NewPaymentService(db, tenants, users)
	maintenance := services.NewMaintenanceService(db)
	expenses := services.NewExpenseService(db)

	user, err := users.GetUserByEmail(email)
	if err != nil {
		user, err = users.CreateUser(email, password, "Demo", "Landlord", models.RoleLandlord)
		if err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}
		fmt.Printf("Created landlord %s\n", email)
	} else {
		fmt.Printf("Landlord %s already exists, adding data\n", email)
	}

	now := time.Now()

	prop1, err := properties.CreateProperty(user.ID, "Maple Court", "12 Maple St", "Portland", "OR", "97201",
		models.PropertyTypeApartment, 4, 150000, "Demo building")
	if err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	prop2, err := properties.CreateProperty(user.ID, "Oak House", "7 Oak Ave", "Portland", "OR", "97202",
		models.PropertyTypeHouse, 1, 210000, "")
	if err != nil {
		return fmt.Errorf("create property: %w", err)
	}

	type seedTenant struct {
		property  *models.Property
		name      string
		email     string
		endOffset time.Duration
	}
	seedTenants := []seedTenant{
		{prop1, "Ana Lima", "ana@example.com", 300 * 24 * time.Hour},
		{prop1, "Ben Ochoa", "ben@example.com", 20 * 24 * time.Hour}, // lease expiring soon
		{prop2, "Cara Singh", "cara@example.com", 180 * 24 * time.Hour},
	}

	for _, st := range seedTenants {
		tenant, err := tenants.CreateTenant(user.ID, st.property.ID, st.name, st.email, "",
			now.AddDate(-1, 0, 0), now.Add(st.endOffset), st.property.MonthlyRent, models.TenantStatusActive)
		if err != nil {
			return fmt.Errorf("create tenant %s: %w", st.name, err)
		}

		// One settled payment, one pending, one overdue per tenant.
		settled, err := payments.CreatePayment(user.ID, tenant.ID, tenant.RentAmount,
			now.AddDate(0, -1, 0), models.PaymentMethodBankTransfer, "")
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if _, err := payments.RecordPayment(user.ID, settled.ID, settled.Amount, models.PaymentMethodBankTransfer, "seeded"); err != nil {
			return fmt.Errorf("record payment: %w", err)
		}
		if _, err := payments.CreatePayment(user.ID, tenant.ID, tenant.RentAmount,
			now.Add(5*24*time.Hour), models.PaymentMethodBankTransfer, ""); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if _, err := payments.CreatePayment(user.ID, tenant.ID, tenant.RentAmount,
			now.Add(-10*24*time.Hour), models.PaymentMethodBankTransfer, ""); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
	}

	if _, err := maintenance.CreateRequest(user.ID, prop1.ID, nil, "Boiler check",
		"Annual inspection due", models.MaintenanceCategoryHVAC, models.MaintenancePriorityMedium); err != nil {
		return fmt.Errorf("create maintenance request: %w", err)
	}
	if _, err := maintenance.CreateRequest(user.ID, prop2.ID, nil, "Leaking faucet",
		"Kitchen sink drips", models.MaintenanceCategoryPlumbing, models.MaintenancePriorityHigh); err != nil {
		return fmt.Errorf("create maintenance request: %w", err)
	}

	if _, err := expenses.CreateExpense(user.ID, &prop1.ID, models.ExpenseCategoryInsurance,
		45000, now.AddDate(0, 0, -15), "Annual building insurance", ""); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	if _, err := expenses.CreateExpense(user.ID, &prop2.ID, models.ExpenseCategoryRepairs,
		12500, now.AddDate(0, 0, -3), "Gutter repair", ""); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	fmt.Println("Seed complete")
	return nil
}
