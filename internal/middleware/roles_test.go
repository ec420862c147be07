package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"rentflow/internal/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name  string
		role  models.Role
		group RouteGroup
		want  bool
	}{
		{"landlord_properties", models.RoleLandlord, GroupProperties, true},
		{"landlord_payments", models.RoleLandlord, GroupPayments, true},
		{"landlord_dashboard", models.RoleLandlord, GroupDashboard, true},
		{"tenant_profile", models.RoleTenant, GroupProfile, true},
		{"tenant_payments_read", models.RoleTenant, GroupPaymentsRead, true},
		{"tenant_maintenance_submit", models.RoleTenant, GroupMaintenanceSubmit, true},
		{"tenant_maintenance_read", models.RoleTenant, GroupMaintenanceRead, true},
		{"tenant_notifications", models.RoleTenant, GroupNotifications, true},
		{"tenant_properties_denied", models.RoleTenant, GroupProperties, false},
		{"tenant_tenants_denied", models.RoleTenant, GroupTenants, false},
		{"tenant_payments_write_denied", models.RoleTenant, GroupPayments, false},
		{"tenant_maintenance_manage_denied", models.RoleTenant, GroupMaintenanceManage, false},
		{"tenant_expenses_denied", models.RoleTenant, GroupExpenses, false},
		{"tenant_dashboard_denied", models.RoleTenant, GroupDashboard, false},
		{"unknown_role_denied", models.Role("ghost"), GroupProfile, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.group); got != tt.want {
				t.Errorf("Allowed(%s, %s) = %v, want %v", tt.role, tt.group, got, tt.want)
			}
		})
	}
}

func setupGroupRouter(group RouteGroup, role string, setRole bool) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if setRole {
			c.Set("role", role)
		}
	})
	r.Use(RequireGroup(group))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRequireGroup(t *testing.T) {
	serve := func(r *gin.Engine) int {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("allowed_role_passes", func(t *testing.T) {
		code := serve(setupGroupRouter(GroupProperties, string(models.RoleLandlord), true))
		if code != http.StatusOK {
			t.Errorf("status = %d, want 200", code)
		}
	})

	t.Run("denied_role_forbidden", func(t *testing.T) {
		code := serve(setupGroupRouter(GroupProperties, string(models.RoleTenant), true))
		if code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
	})

	t.Run("missing_role_unauthorized", func(t *testing.T) {
		code := serve(setupGroupRouter(GroupProperties, "", false))
		if code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", code)
		}
	})
}
