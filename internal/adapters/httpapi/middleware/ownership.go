package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"sns/internal/apperror"
	userEntity "sns/internal/core/user"
)

// OwnershipChecker reports whether a resource belongs to a user.
type OwnershipChecker func(ctx context.Context, userID, resourceID uint) (bool, error)

// OwnerOrAdmin passes admins through and otherwise requires the requester to
// own the resource identified by the named route parameter. Running it
// without a bearer guard earlier in the chain is a programming error and
// surfaces as an internal failure.
func OwnerOrAdmin(param string, isMine OwnershipChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := FromContext(c)
		if !ok {
			Abort(c, apperror.New(apperror.Internal, "ownership guard requires a bearer guard before it"))
			return
		}

		if auth.User.Role == userEntity.RoleAdmin {
			c.Next()
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			Abort(c, apperror.Newf(apperror.InvalidInput, "invalid %s parameter", param))
			return
		}

		mine, err := isMine(c.Request.Context(), auth.User.ID, uint(id))
		if err != nil {
			Abort(c, err)
			return
		}
		if !mine {
			Abort(c, apperror.New(apperror.Forbidden, "you do not own this resource"))
			return
		}
		c.Next()
	}
}
