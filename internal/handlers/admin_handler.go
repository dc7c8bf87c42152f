package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	bookingdomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	guidedomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/guide"
	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
	ucRating "github.com/BruksfildServices01/tour-guide-api/internal/usecase/rating"
	ucReview "github.com/BruksfildServices01/tour-guide-api/internal/usecase/review"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db      *gorm.DB
	reviews *ucReview.Manage
	ratings *ucRating.Aggregator
	audit   *audit.Dispatcher
}

func NewAdminHandler(
	db *gorm.DB,
	reviews *ucReview.Manage,
	ratings *ucRating.Aggregator,
	audit *audit.Dispatcher,
) *AdminHandler {
	return &AdminHandler{
		db:      db,
		reviews: reviews,
		ratings: ratings,
		audit:   audit,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type VerifyGuideRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
	Note   string `json:"note" binding:"max=500"`
}

type ModerateReviewRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

type BanUserRequest struct {
	IsBanned *bool `json:"is_banned" binding:"required"`
}

type ActivateUserRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ======================================================
// DASHBOARD
// ======================================================

type countRow struct {
	Label string
	Count int64
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)

	usersByRole, err := groupCount(db.Model(&models.User{}), "role")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	guidesByStatus, err := groupCount(db.Model(&models.GuideProfile{}), "verification_status")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	bookingsByStatus, err := groupCount(db.Model(&models.Booking{}), "status")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var banned, reviews, hiddenReviews int64
	if err := db.Model(&models.User{}).Where("is_banned = ?", true).Count(&banned).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := db.Model(&models.Review{}).Count(&reviews).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := db.Model(&models.Review{}).Where("is_approved = ?", false).Count(&hiddenReviews).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var revenue float64
	if err := db.Model(&models.Booking{}).
		Where("status = ?", bookingdomain.StatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"users": gin.H{
			"total":    sum(usersByRole),
			"tourists": usersByRole[string(access.RoleTourist)],
			"guides":   usersByRole[string(access.RoleGuide)],
			"admins":   usersByRole[string(access.RoleAdmin)],
			"banned":   banned,
		},
		"guides": gin.H{
			"pending":  guidesByStatus[string(guidedomain.VerificationPending)],
			"approved": guidesByStatus[string(guidedomain.VerificationApproved)],
			"rejected": guidesByStatus[string(guidedomain.VerificationRejected)],
		},
		"bookings": gin.H{
			"total":     sum(bookingsByStatus),
			"pending":   bookingsByStatus[string(bookingdomain.StatusPending)],
			"confirmed": bookingsByStatus[string(bookingdomain.StatusConfirmed)],
			"completed": bookingsByStatus[string(bookingdomain.StatusCompleted)],
			"cancelled": bookingsByStatus[string(bookingdomain.StatusCancelled)],
			"rejected":  bookingsByStatus[string(bookingdomain.StatusRejected)],
		},
		"reviews": gin.H{
			"total":  reviews,
			"hidden": hiddenReviews,
		},
		"completed_revenue": revenue,
	})
}

func groupCount(q *gorm.DB, column string) (map[string]int64, error) {
	var rows []countRow
	if err := q.
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Count
	}
	return out, nil
}

func sum(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

// ======================================================
// GUIDE VERIFICATION
// ======================================================

// Verifications lists guide profiles by verification status, pending by
// default, oldest first.
func (h *AdminHandler) Verifications(c *gin.Context) {
	status, ok := guidedomain.ParseVerification(c.DefaultQuery("status", string(guidedomain.VerificationPending)))
	if !ok {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid verification status")
		return
	}

	page, limit := pagination(c)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.GuideProfile{}).
		Where("verification_status = ?", status)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var profiles []models.GuideProfile
	if err := q.
		Preload("User").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&profiles).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.NewGuideList(profiles), total, page, limit)
}

// Verify sets the verification status of a guide profile, addressed by
// profile id.
func (h *AdminHandler) Verify(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req VerifyGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	ctx := c.Request.Context()

	var p models.GuideProfile
	if err := h.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Code(c, httperr.CodeProfileNotFound)
			return
		}
		httperr.Respond(c, err)
		return
	}

	from := p.VerificationStatus
	p.VerificationStatus = req.Status
	p.VerificationNote = strings.TrimSpace(req.Note)
	p.VerifiedAt = nil
	if req.Status == string(guidedomain.VerificationApproved) {
		now := time.Now().UTC()
		p.VerifiedAt = &now
	}

	if err := h.db.WithContext(ctx).
		Model(&models.GuideProfile{ID: p.ID}).
		Updates(map[string]any{
			"verification_status": p.VerificationStatus,
			"verification_note":   p.VerificationNote,
			"verified_at":         p.VerifiedAt,
		}).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   audit.ActionGuideVerified,
		Entity:   "guide_profile",
		EntityID: &p.ID,
		Metadata: map[string]any{"from": from, "to": p.VerificationStatus},
	})

	httpresp.OK(c, dto.NewGuide(&p))
}

// ======================================================
// REVIEW MODERATION
// ======================================================

func (h *AdminHandler) ModerateReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	rv, err := h.reviews.Moderate(c.Request.Context(), middleware.CurrentActor(c), id, *req.IsApproved)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewReview(rv))
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) Users(c *gin.Context) {
	page, limit := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})

	if role := c.Query("role"); role != "" {
		r, ok := access.ParseRole(role)
		if !ok {
			httperr.Code(c, httperr.CodeInvalidRole)
			return
		}
		q = q.Where("role = ?", r)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	switch c.Query("banned") {
	case "true":
		q = q.Where("is_banned = ?", true)
	case "false":
		q = q.Where("is_banned = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var users []models.User
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.NewMeList(users), total, page, limit)
}

func (h *AdminHandler) Ban(c *gin.Context) {
	var req BanUserRequest
	h.setUserFlag(c, &req, "is_banned", audit.ActionUserBanned, func() bool { return *req.IsBanned })
}

func (h *AdminHandler) Activate(c *gin.Context) {
	var req ActivateUserRequest
	h.setUserFlag(c, &req, "is_active", audit.ActionUserActivated, func() bool { return *req.IsActive })
}

// setUserFlag binds req, then writes the boolean returned by value to
// column. Admins cannot change their own flags.
func (h *AdminHandler) setUserFlag(c *gin.Context, req any, column, action string, value func() bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.Validation(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	if id == actor.UserID {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "You cannot change your own account status")
		return
	}

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	v := value()
	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update(column, v).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	switch column {
	case "is_banned":
		user.IsBanned = v
	case "is_active":
		user.IsActive = v
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   action,
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{column: v},
	})

	httpresp.OK(c, dto.NewMe(user))
}

// DeleteUser removes the account and everything hanging off it. Guides
// whose reviews disappear with a deleted tourist get their rating
// recomputed.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	if id == actor.UserID {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "You cannot delete your own account")
		return
	}

	user, ok := h.loadUser(c, id)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var affected []uint
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("tourist_id = ? AND guide_id <> ?", id, id).
			Distinct().
			Pluck("guide_id", &affected).Error; err != nil {
			return err
		}

		if err := tx.Where("tourist_id = ? OR guide_id = ?", id, id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tourist_id = ? OR guide_id = ?", id, id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", id, id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.GuideProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.refreshAll(ctx, affected)

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   audit.ActionUserDeleted,
		Entity:   "user",
		EntityID: &id,
		Metadata: map[string]any{"email": user.Email, "role": user.Role},
	})

	httpresp.Message(c, "User deleted")
}

func (h *AdminHandler) refreshAll(ctx context.Context, guideUserIDs []uint) {
	for _, gid := range guideUserIDs {
		h.ratings.Refresh(ctx, gid)
	}
}

func (h *AdminHandler) loadUser(c *gin.Context, id uint) (*models.User, bool) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Code(c, httperr.CodeUserNotFound)
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &user, true
}

// ======================================================
// RATINGS
// ======================================================

func (h *AdminHandler) RecomputeRatings(c *gin.Context) {
	updated, err := h.ratings.RecomputeAll(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   audit.ActionRatingsRecompute,
		Entity:   "guide_profile",
		Metadata: map[string]any{"updated": updated},
	})

	httpresp.OK(c, gin.H{"updated": updated})
}

func (h *AdminHandler) RecomputeGuideRating(c *gin.Context) {
	guideID, ok := paramID(c, "guideId")
	if !ok {
		return
	}

	snap, found, err := h.ratings.Recompute(c.Request.Context(), guideID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !found {
		httperr.Code(c, httperr.CodeProfileNotFound)
		return
	}

	actor := middleware.CurrentActor(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   audit.ActionRatingsRecompute,
		Entity:   "guide_profile",
		Metadata: map[string]any{"guide_user_id": guideID},
	})

	httpresp.OK(c, gin.H{
		"guide_id": guideID,
		"rating": models.Rating{
			Average: snap.Average,
			Count:   snap.Count,
			Breakdown: models.RatingBreakdown{
				Knowledge:     snap.Breakdown.Knowledge,
				Communication: snap.Breakdown.Communication,
				Punctuality:   snap.Breakdown.Punctuality,
			},
		},
	})
}
