package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/testutil"
)

func newTenantTestService(db *gorm.DB) TenantServicer {
	return NewTenantService(db, NewPropertyService(db))
}

func TestCreateTenant(t *testing.T) {
	t.Run("pending_by_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		now := time.Now()
		tenant, err := svc.CreateTenant(user.ID, property.ID, "Ada Lovelace", "ada@example.com", "", now, now.AddDate(1, 0, 0), 150000, "")
		testutil.AssertNoError(t, err)

		if tenant.Status != models.TenantStatusPending {
			t.Errorf("expected pending status, got %s", tenant.Status)
		}

		reloaded := &models.Property{}
		testutil.AssertNoError(t, db.Where("id = ?", property.ID).First(reloaded).Error)
		if reloaded.OccupiedUnits != 0 {
			t.Errorf("expected pending lease to leave occupancy at 0, got %d", reloaded.OccupiedUnits)
		}
	})

	t.Run("active_lease_occupies_unit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		now := time.Now()
		_, err := svc.CreateTenant(user.ID, property.ID, "Ada Lovelace", "ada@example.com", "", now, now.AddDate(1, 0, 0), 150000, models.TenantStatusActive)
		testutil.AssertNoError(t, err)

		reloaded := &models.Property{}
		testutil.AssertNoError(t, db.Where("id = ?", property.ID).First(reloaded).Error)
		if reloaded.OccupiedUnits != 1 {
			t.Errorf("expected 1 occupied unit, got %d", reloaded.OccupiedUnits)
		}
	})

	t.Run("full_property_rejects_active_lease", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(&models.Property{}).Where("id = ?", property.ID).Update("occupied_units", 1).Error)

		now := time.Now()
		_, err := svc.CreateTenant(user.ID, property.ID, "Second Tenant", "", "", now, now.AddDate(1, 0, 0), 150000, models.TenantStatusActive)
		testutil.AssertAppError(t, err, "NO_VACANT_UNITS")

		// The rejected lease must not leave a tenant row behind.
		var count int64
		testutil.AssertNoError(t, db.Model(&models.Tenant{}).Where("user_id = ? AND name = ?", user.ID, "Second Tenant").Count(&count).Error)
		if count != 0 {
			t.Errorf("expected rollback to remove tenant row, got %d", count)
		}
	})

	t.Run("lease_end_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		now := time.Now()
		_, err := svc.CreateTenant(user.ID, property.ID, "Ada", "", "", now, now.AddDate(0, 0, -1), 150000, "")
		testutil.AssertAppError(t, err, "INVALID_LEASE")
	})

	t.Run("unknown_property", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		_, err := svc.CreateTenant(user.ID, "00000000-0000-0000-0000-000000000000", "Ada", "", "", now, now.AddDate(1, 0, 0), 150000, "")
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})
}

func TestGetUserTenants(t *testing.T) {
	t.Run("filter_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		ended := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(ended).Update("status", models.TenantStatusEnded).Error)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		status := models.TenantStatusActive
		result, err := svc.GetUserTenants(user.ID, page, TenantFilter{Status: &status})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 active tenant, got %d", result.TotalItems)
		}
		if result.Data[0].ID != tenant.ID {
			t.Errorf("expected tenant %s, got %s", tenant.ID, result.Data[0].ID)
		}
	})

	t.Run("filter_by_property", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property1 := testutil.CreateTestProperty(t, db, user.ID)
		property2 := testutil.CreateTestProperty(t, db, user.ID)
		testutil.CreateTestTenant(t, db, user.ID, property1.ID)
		testutil.CreateTestTenant(t, db, user.ID, property2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTenants(user.ID, page, TenantFilter{PropertyID: &property1.ID})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 tenant for property, got %d", result.TotalItems)
		}
	})
}

func TestUpdateTenant(t *testing.T) {
	t.Run("updates_contact_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)

		phone := "555-0102"
		rent := int64(160000)
		updated, err := svc.UpdateTenant(user.ID, tenant.ID, TenantUpdateFields{Phone: &phone, RentAmount: &rent})
		testutil.AssertNoError(t, err)

		if updated.Phone != "555-0102" {
			t.Errorf("expected phone 555-0102, got %s", updated.Phone)
		}
		if updated.RentAmount != 160000 {
			t.Errorf("expected rent 160000, got %d", updated.RentAmount)
		}
	})

	t.Run("rejects_inverted_lease_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)

		badEnd := tenant.LeaseStart.AddDate(0, 0, -1)
		_, err := svc.UpdateTenant(user.ID, tenant.ID, TenantUpdateFields{LeaseEnd: &badEnd})
		testutil.AssertAppError(t, err, "INVALID_LEASE")
	})
}

func TestLeaseLifecycle(t *testing.T) {
	t.Run("activate_then_end", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		now := time.Now()
		tenant, err := svc.CreateTenant(user.ID, property.ID, "Ada", "", "", now, now.AddDate(1, 0, 0), 150000, "")
		testutil.AssertNoError(t, err)

		activated, err := svc.ActivateLease(user.ID, tenant.ID)
		testutil.AssertNoError(t, err)
		if activated.Status != models.TenantStatusActive {
			t.Fatalf("expected active status, got %s", activated.Status)
		}

		reloaded := &models.Property{}
		testutil.AssertNoError(t, db.Where("id = ?", property.ID).First(reloaded).Error)
		if reloaded.OccupiedUnits != 1 {
			t.Errorf("expected 1 occupied unit after activation, got %d", reloaded.OccupiedUnits)
		}

		ended, err := svc.EndLease(user.ID, tenant.ID)
		testutil.AssertNoError(t, err)
		if ended.Status != models.TenantStatusEnded {
			t.Fatalf("expected ended status, got %s", ended.Status)
		}

		testutil.AssertNoError(t, db.Where("id = ?", property.ID).First(reloaded).Error)
		if reloaded.OccupiedUnits != 0 {
			t.Errorf("expected unit freed after end, got %d", reloaded.OccupiedUnits)
		}
	})

	t.Run("activate_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(&models.Property{}).Where("id = ?", property.ID).Update("occupied_units", 1).Error)

		_, err := svc.ActivateLease(user.ID, tenant.ID)
		testutil.AssertNoError(t, err)

		reloaded := &models.Property{}
		testutil.AssertNoError(t, db.Where("id = ?", property.ID).First(reloaded).Error)
		if reloaded.OccupiedUnits != 1 {
			t.Errorf("expected occupancy unchanged, got %d", reloaded.OccupiedUnits)
		}
	})

	t.Run("ended_lease_cannot_reactivate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(tenant).Update("status", models.TenantStatusEnded).Error)

		_, err := svc.ActivateLease(user.ID, tenant.ID)
		testutil.AssertAppError(t, err, "LEASE_ENDED")

		_, err = svc.EndLease(user.ID, tenant.ID)
		testutil.AssertAppError(t, err, "LEASE_ENDED")
	})
}

func TestDeleteTenant(t *testing.T) {
	t.Run("rejects_active_lease", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)

		err := svc.DeleteTenant(user.ID, tenant.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("removes_ended_tenant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(tenant).Update("status", models.TenantStatusEnded).Error)

		testutil.AssertNoError(t, svc.DeleteTenant(user.ID, tenant.ID))

		_, err := svc.GetTenantByID(user.ID, tenant.ID)
		testutil.AssertAppError(t, err, "TENANT_NOT_FOUND")
	})
}

func TestListExpiringLeases(t *testing.T) {
	t.Run("only_active_leases_inside_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTenantTestService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		expiring := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(expiring).Update("lease_end", time.Now().AddDate(0, 0, 10)).Error)

		// Outside the window.
		testutil.CreateTestTenant(t, db, user.ID, property.ID)

		// Inside the window but not active.
		ended := testutil.CreateTestTenant(t, db, user.ID, property.ID)
		testutil.AssertNoError(t, db.Model(ended).Updates(map[string]interface{}{
			"lease_end": time.Now().AddDate(0, 0, 10),
			"status":    models.TenantStatusEnded,
		}).Error)

		leases, err := svc.ListExpiringLeases(user.ID, 30*24*time.Hour)
		testutil.AssertNoError(t, err)

		if len(leases) != 1 {
			t.Fatalf("expected 1 expiring lease, got %d", len(leases))
		}
		if leases[0].ID != expiring.ID {
			t.Errorf("expected tenant %s, got %s", expiring.ID, leases[0].ID)
		}
		if leases[0].PropertyName != property.Name {
			t.Errorf("expected property name %s, got %s", property.Name, leases[0].PropertyName)
		}
	})
}
