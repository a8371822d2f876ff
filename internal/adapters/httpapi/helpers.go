package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"sns/internal/adapters/httpapi/middleware"
	"sns/internal/apperror"
)

func fail(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		fail(c, apperror.Newf(apperror.InvalidInput, "invalid %s parameter", name))
		return 0, false
	}
	return uint(v), true
}
