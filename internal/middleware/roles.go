package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentflow/internal/models"
)

// RouteGroup names a set of routes gated together. Routes are assigned a
// group when the route tree is built; the policy table below is the only
// place role access is decided.
type RouteGroup string

const (
	GroupProfile           RouteGroup = "profile"
	GroupProperties        RouteGroup = "properties"
	GroupTenants           RouteGroup = "tenants"
	GroupPayments          RouteGroup = "payments"
	GroupPaymentsRead      RouteGroup = "payments_read"
	GroupMaintenanceSubmit RouteGroup = "maintenance_submit"
	GroupMaintenanceRead   RouteGroup = "maintenance_read"
	GroupMaintenanceManage RouteGroup = "maintenance_manage"
	GroupExpenses          RouteGroup = "expenses"
	GroupDashboard         RouteGroup = "dashboard"
	GroupNotifications     RouteGroup = "notifications"
)

// routePolicy maps each role to the route groups it may use. Tenant-role
// users see only their own payments and maintenance requests; everything
// else is landlord-only.
var routePolicy = map[models.Role]map[RouteGroup]bool{
	models.RoleLandlord: {
		GroupProfile:           true,
		GroupProperties:        true,
		GroupTenants:           true,
		GroupPayments:          true,
		GroupPaymentsRead:      true,
		GroupMaintenanceSubmit: true,
		GroupMaintenanceRead:   true,
		GroupMaintenanceManage: true,
		GroupExpenses:          true,
		GroupDashboard:         true,
		GroupNotifications:     true,
	},
	models.RoleTenant: {
		GroupProfile:           true,
		GroupPaymentsRead:      true,
		GroupMaintenanceSubmit: true,
		GroupMaintenanceRead:   true,
		GroupNotifications:     true,
	},
}

// Allowed reports whether a role may use a route group.
func Allowed(role models.Role, group RouteGroup) bool {
	return routePolicy[role][group]
}

// RequireGroup returns a middleware gating its routes on the policy table.
// Must run after AuthMiddleware.
func RequireGroup(group RouteGroup) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		role, ok := roleValue.(string)
		if !ok || !Allowed(models.Role(role), group) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
