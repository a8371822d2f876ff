package middleware

import (
	"github.com/gin-gonic/gin"

	"sns/internal/apperror"
	userEntity "sns/internal/core/user"
)

// RouteRoles maps "<METHOD> <route pattern>" to the role that route requires.
// Routes without an entry are open to any authenticated caller.
type RouteRoles map[string]userEntity.Role

// RolesGuard consults the route table. It must run after a bearer guard on
// any route listed in the table.
func RolesGuard(table RouteRoles) gin.HandlerFunc {
	return func(c *gin.Context) {
		required, ok := table[c.Request.Method+" "+c.FullPath()]
		if !ok {
			c.Next()
			return
		}

		auth, ok := FromContext(c)
		if !ok {
			Abort(c, apperror.New(apperror.Unauthenticated, "an access token is required"))
			return
		}

		if auth.User.Role != required {
			Abort(c, apperror.Newf(apperror.Forbidden, "this action requires the %s role", required))
			return
		}
		c.Next()
	}
}
