package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
	loc  *time.Location
}

func NewAuditLogsHandler(logs *audit.Logger, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, loc: loc}
}

// List filters by user_id, action, entity and a from/to day range. The
// days are read in the platform timezone and "to" is inclusive.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	f := audit.ListFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if s := c.Query("user_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.Code(c, httperr.CodeInvalidID)
			return
		}
		uid := uint(id)
		f.UserID = &uid
	}

	if s := c.Query("from"); s != "" {
		from, err := time.ParseInLocation(timezone.DateLayout, s, h.loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidRequest, "from must be YYYY-MM-DD")
			return
		}
		f.From = &from
	}

	if s := c.Query("to"); s != "" {
		to, err := time.ParseInLocation(timezone.DateLayout, s, h.loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidRequest, "to must be YYYY-MM-DD")
			return
		}
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
