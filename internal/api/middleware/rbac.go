package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workflowlive/request-tracker/internal/core/domain"
)

// Operation names a gated action. The capability table below is the single
// place role permissions are declared; handlers never inspect roles directly.
type Operation string

const (
	OpCreateRecord Operation = "records:create"
	OpListRecords  Operation = "records:list"
	OpSubscribe    Operation = "records:subscribe"
)

// capabilities maps each operation to its permitted role set.
var capabilities = map[Operation]map[string]struct{}{
	OpCreateRecord: roles(domain.RoleAdmin, domain.RoleSuperAdmin),
	OpListRecords:  roles(domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin),
	OpSubscribe:    roles(domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin),
}

func roles(rs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role string) bool {
	_, ok := capabilities[op][role]
	return ok
}

// RBAC enforces the capability table for a single operation.
func RBAC(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !Allowed(op, role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
