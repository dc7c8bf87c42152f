package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/review"
	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	ucReview "github.com/BruksfildServices01/tour-guide-api/internal/usecase/review"
)

type ReviewHandler struct {
	create *ucReview.CreateReview
	manage *ucReview.Manage
}

func NewReviewHandler(create *ucReview.CreateReview, manage *ucReview.Manage) *ReviewHandler {
	return &ReviewHandler{create: create, manage: manage}
}

// --------- Requests ---------

// Score ranges are checked by the review domain so the error code stays
// invalid_rating rather than a generic validation failure.
type CreateReviewRequest struct {
	BookingID uint               `json:"booking_id" binding:"required"`
	Rating    domain.ScoresInput `json:"rating"`
	Comment   string             `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  domain.ScoresInput `json:"rating"`
	Comment *string            `json:"comment" binding:"omitempty,max=2000"`
}

type RespondReviewRequest struct {
	Response string `json:"response" binding:"required,max=1000"`
}

// --------- Handlers ---------

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	rv, err := h.create.Execute(c.Request.Context(), ucReview.CreateReviewInput{
		Actor:     middleware.CurrentActor(c),
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if u := middleware.CurrentUser(c); u != nil {
		rv.Tourist = *u
	}
	httpresp.Created(c, dto.NewReview(rv))
}

// ListForGuide is public and only shows approved reviews.
func (h *ReviewHandler) ListForGuide(c *gin.Context) {
	guideID, ok := paramID(c, "guideId")
	if !ok {
		return
	}

	page, limit := pagination(c)

	reviews, total, err := h.manage.ListForGuide(c.Request.Context(), guideID, page, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.NewReviewList(reviews), total, page, limit)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		req.Comment = &trimmed
	}

	rv, err := h.manage.Update(c.Request.Context(), ucReview.UpdateReviewInput{
		Actor:   middleware.CurrentActor(c),
		ID:      id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewReview(rv))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.manage.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "Review deleted")
}

func (h *ReviewHandler) Respond(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RespondReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	rv, err := h.manage.Respond(c.Request.Context(), middleware.CurrentActor(c), id, strings.TrimSpace(req.Response))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewReview(rv))
}
