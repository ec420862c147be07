package services

import (
	"testing"

	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/testutil"
)

func TestCreateProperty(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)

		property, err := svc.CreateProperty(user.ID, "Maple Court", "12 Maple St", "Springfield", "IL", "62704", models.PropertyTypeApartment, 4, 150000, "corner building")
		testutil.AssertNoError(t, err)

		if property.ID == "" {
			t.Fatal("expected non-empty property ID")
		}
		if property.Units != 4 {
			t.Errorf("expected 4 units, got %d", property.Units)
		}
		if property.OccupiedUnits != 0 {
			t.Errorf("expected 0 occupied units, got %d", property.OccupiedUnits)
		}
	})

	t.Run("missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateProperty(user.ID, "", "12 Maple St", "", "", "", models.PropertyTypeHouse, 1, 150000, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("zero_units", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateProperty(user.ID, "Maple Court", "12 Maple St", "", "", "", models.PropertyTypeHouse, 0, 150000, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_rent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateProperty(user.ID, "Maple Court", "12 Maple St", "", "", "", models.PropertyTypeHouse, 1, 0, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserProperties(t *testing.T) {
	t.Run("returns_user_properties_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestProperty(t, db, user1.ID)
		testutil.CreateTestProperty(t, db, user1.ID)
		testutil.CreateTestProperty(t, db, user2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserProperties(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 properties, got %d", result.TotalItems)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestProperty(t, db, user.ID)
		}

		page := pagination.PageRequest{Page: 2, PageSize: 2}
		result, err := svc.GetUserProperties(user.ID, page)
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(result.Data))
		}
		if result.TotalItems != 5 {
			t.Errorf("expected 5 total, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages)
		}
	})

	t.Run("sorts_by_allowed_column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)

		for _, name := range []string{"Cedar", "Aspen", "Birch"} {
			p := testutil.CreateTestProperty(t, db, user.ID)
			testutil.AssertNoError(t, db.Model(p).Update("name", name).Error)
		}

		page := pagination.PageRequest{Page: 1, PageSize: 20, Sort: "name"}
		result, err := svc.GetUserProperties(user.ID, page)
		testutil.AssertNoError(t, err)

		got := []string{result.Data[0].Name, result.Data[1].Name, result.Data[2].Name}
		if got[0] != "Aspen" || got[1] != "Birch" || got[2] != "Cedar" {
			t.Errorf("expected alphabetical order, got %v", got)
		}

		page.Sort = "-name"
		result, err = svc.GetUserProperties(user.ID, page)
		testutil.AssertNoError(t, err)
		if result.Data[0].Name != "Cedar" {
			t.Errorf("expected descending order, got %s first", result.Data[0].Name)
		}
	})

	t.Run("rejects_unlisted_sort_column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProperty(t, db, user.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20, Sort: "id; DROP TABLE properties"}
		result, err := svc.GetUserProperties(user.ID, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected the default ordering to serve the list, got %d items", result.TotalItems)
		}
	})
}

func TestGetPropertyByID(t *testing.T) {
	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user2.ID)

		_, err := svc.GetPropertyByID(user1.ID, property.ID)
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})
}

func TestUpdateProperty(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		name := "Renamed"
		rent := int64(175000)
		updated, err := svc.UpdateProperty(user.ID, property.ID, PropertyUpdateFields{Name: &name, MonthlyRent: &rent})
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
		if updated.MonthlyRent != 175000 {
			t.Errorf("expected rent 175000, got %d", updated.MonthlyRent)
		}
	})

	t.Run("occupied_cannot_exceed_units", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		occupied := 2
		_, err := svc.UpdateProperty(user.ID, property.ID, PropertyUpdateFields{OccupiedUnits: &occupied})
		testutil.AssertAppError(t, err, "OCCUPANCY_EXCEEDED")
	})

	t.Run("shrinking_units_below_occupancy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		units := 3
		occupied := 3
		_, err := svc.UpdateProperty(user.ID, property.ID, PropertyUpdateFields{Units: &units, OccupiedUnits: &occupied})
		testutil.AssertNoError(t, err)

		units = 2
		_, err = svc.UpdateProperty(user.ID, property.ID, PropertyUpdateFields{Units: &units})
		testutil.AssertAppError(t, err, "OCCUPANCY_EXCEEDED")
	})
}

func TestDeleteProperty(t *testing.T) {
	t.Run("removes_vacant_property", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteProperty(user.ID, property.ID))

		_, err := svc.GetPropertyByID(user.ID, property.ID)
		testutil.AssertAppError(t, err, "PROPERTY_NOT_FOUND")
	})

	t.Run("rejects_property_with_active_tenant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		testutil.CreateTestTenant(t, db, user.ID, property.ID)

		err := svc.DeleteProperty(user.ID, property.ID)
		testutil.AssertAppError(t, err, "PROPERTY_OCCUPIED")
	})

	t.Run("allows_property_with_ended_lease", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)
		tenant := testutil.CreateTestTenant(t, db, user.ID, property.ID)

		if err := db.Model(tenant).Update("status", models.TenantStatusEnded).Error; err != nil {
			t.Fatalf("failed to end lease: %v", err)
		}

		testutil.AssertNoError(t, svc.DeleteProperty(user.ID, property.ID))
	})
}

func TestAdjustOccupancy(t *testing.T) {
	t.Run("rejects_overfill", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		testutil.AssertNoError(t, svc.AdjustOccupancy(db, user.ID, property.ID, 1))

		err := svc.AdjustOccupancy(db, user.ID, property.ID, 1)
		testutil.AssertAppError(t, err, "NO_VACANT_UNITS")
	})

	t.Run("clamps_at_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPropertyService(db)
		user := testutil.CreateTestUser(t, db)
		property := testutil.CreateTestProperty(t, db, user.ID)

		testutil.AssertNoError(t, svc.AdjustOccupancy(db, user.ID, property.ID, -1))

		reloaded, err := svc.GetPropertyByID(user.ID, property.ID)
		testutil.AssertNoError(t, err)
		if reloaded.OccupiedUnits != 0 {
			t.Errorf("expected occupancy clamped at 0, got %d", reloaded.OccupiedUnits)
		}
	})
}

func TestVacantUnits(t *testing.T) {
	property := &models.Property{Units: 4, OccupiedUnits: 3}
	if got := property.VacantUnits(); got != 1 {
		t.Errorf("expected 1 vacant unit, got %d", got)
	}
}
