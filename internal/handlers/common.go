package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// paramID reads a positive numeric path parameter. On failure the error
// response has been written.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.Code(c, httperr.CodeInvalidID)
		return 0, false
	}
	return uint(id), true
}

// pagination reads page and limit, clamping them to sane values.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
