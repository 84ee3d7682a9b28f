package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/middleware"
)

func userID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func userRole(c *gin.Context) string {
	return c.GetString(middleware.ContextUserRole)
}

// idParam reads a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, httperr.ErrValidation(name, "invalid_"+name)
	}
	return uint(v), nil
}

func uintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, httperr.ErrValidation(name, name+"_required")
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, httperr.ErrValidation(name, "")
	}
	return uint(v), nil
}
