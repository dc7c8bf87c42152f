package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	ucBooking "github.com/BruksfildServices01/tour-guide-api/internal/usecase/booking"
)

type BookingHandler struct {
	repo         domain.Repository
	create       *ucBooking.CreateBooking
	updateStatus *ucBooking.UpdateBookingStatus
	get          *ucBooking.GetBooking
	list         *ucBooking.ListBookings
}

func NewBookingHandler(
	repo domain.Repository,
	create *ucBooking.CreateBooking,
	updateStatus *ucBooking.UpdateBookingStatus,
	get *ucBooking.GetBooking,
	list *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		repo:         repo,
		create:       create,
		updateStatus: updateStatus,
		get:          get,
		list:         list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	GuideID      uint   `json:"guide_id" binding:"required"`
	Date         string `json:"date" binding:"required,ymd"`
	StartTime    string `json:"start_time" binding:"required,hhmm"`
	Duration     int    `json:"duration" binding:"required,min=1,max=12"`
	GroupSize    int    `json:"group_size" binding:"omitempty,min=1,max=50"`
	MeetingPoint string `json:"meeting_point" binding:"max=255"`
	Notes        string `json:"notes" binding:"max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	ctx := c.Request.Context()

	b, err := h.create.Execute(ctx, ucBooking.CreateBookingInput{
		TouristID:    middleware.CurrentActor(c).UserID,
		GuideID:      req.GuideID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		Duration:     req.Duration,
		GroupSize:    req.GroupSize,
		MeetingPoint: req.MeetingPoint,
		Notes:        req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	// reload with both participants for the response
	full, err := h.repo.GetBooking(ctx, b.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if full != nil {
		b = full
	}

	httpresp.Created(c, dto.NewBooking(b))
}

func (h *BookingHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	bookings, total, err := h.list.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		Actor:  middleware.CurrentActor(c),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.NewBookingList(bookings), total, page, limit)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewBooking(b))
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(), ucBooking.UpdateStatusInput{
		BookingID: id,
		Actor:     middleware.CurrentActor(c),
		Status:    req.Status,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewBooking(b))
}
