package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/guide"
	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type GuideHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewGuideHandler(db *gorm.DB, repo domain.Repository) *GuideHandler {
	return &GuideHandler{db: db, repo: repo}
}

// ======================================================
// REQUESTS
// ======================================================

type AvailabilitySlotRequest struct {
	Day       *int   `json:"day" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type CreateGuideRequest struct {
	Bio               string                    `json:"bio" binding:"max=2000"`
	HourlyRate        float64                   `json:"hourly_rate" binding:"required,gt=0"`
	YearsOfExperience int                       `json:"years_of_experience" binding:"min=0,max=80"`
	Specialties       []string                  `json:"specialties" binding:"dive,specialty"`
	Cities            []string                  `json:"cities" binding:"required,min=1,dive,max=100"`
	Languages         []string                  `json:"languages" binding:"required,min=1,dive,max=50"`
	Availability      []AvailabilitySlotRequest `json:"availability" binding:"dive"`
	IsAvailable       *bool                     `json:"is_available"`
}

type UpdateGuideRequest struct {
	Bio               *string  `json:"bio" binding:"omitempty,max=2000"`
	HourlyRate        *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
	YearsOfExperience *int     `json:"years_of_experience" binding:"omitempty,min=0,max=80"`
	Specialties       []string `json:"specialties" binding:"omitempty,dive,specialty"`
	Cities            []string `json:"cities" binding:"omitempty,min=1,dive,max=100"`
	Languages         []string `json:"languages" binding:"omitempty,min=1,dive,max=50"`
}

type UpdateAvailabilityRequest struct {
	Availability []AvailabilitySlotRequest `json:"availability" binding:"dive"`
	IsAvailable  *bool                     `json:"is_available"`
}

type ListGuidesQuery struct {
	City          string   `form:"city"`
	Language      string   `form:"language"`
	Specialty     string   `form:"specialty"`
	MinPrice      *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice      *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	MinRating     *float64 `form:"minRating" binding:"omitempty,gte=0,lte=5"`
	MinExperience *int     `form:"minExperience" binding:"omitempty,gte=0"`
	Sort          string   `form:"sort"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *GuideHandler) List(c *gin.Context) {
	var q ListGuidesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Validation(c, err)
		return
	}

	page, limit := pagination(c)

	guides, total, err := h.repo.List(c.Request.Context(), domain.ListFilter{
		City:          strings.TrimSpace(q.City),
		Language:      strings.TrimSpace(q.Language),
		Specialty:     strings.TrimSpace(q.Specialty),
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		MinRating:     q.MinRating,
		MinExperience: q.MinExperience,
		Sort:          domain.ParseSort(q.Sort),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.NewGuideList(guides), total, page, limit)
}

// Get shows an approved guide whose account is in good standing. A guide
// that is temporarily unavailable is still visible, only not bookable.
func (h *GuideHandler) Get(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if p == nil ||
		p.VerificationStatus != string(domain.VerificationApproved) ||
		p.User.Suspended() {
		httperr.Code(c, httperr.CodeGuideNotFound)
		return
	}

	httpresp.OK(c, dto.NewGuide(p))
}

// ======================================================
// OWN PROFILE (guide)
// ======================================================

func (h *GuideHandler) Me(c *gin.Context) {
	p, ok := h.ownProfile(c)
	if !ok {
		return
	}
	httpresp.OK(c, dto.NewGuide(p))
}

func (h *GuideHandler) Create(c *gin.Context) {
	var req CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	slots := toSlots(req.Availability)
	if err := domain.ValidateAvailability(slots); err != nil {
		httperr.Respond(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	existing, err := h.repo.GetByUserID(ctx, user.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if existing != nil {
		httperr.Code(c, httperr.CodeProfileExists)
		return
	}

	p := models.GuideProfile{
		UserID:             user.ID,
		Bio:                strings.TrimSpace(req.Bio),
		HourlyRate:         req.HourlyRate,
		YearsOfExperience:  req.YearsOfExperience,
		Specialties:        datatypes.JSONSlice[string](domain.NormalizeList(req.Specialties)),
		Cities:             datatypes.JSONSlice[string](domain.NormalizeList(req.Cities)),
		Languages:          datatypes.JSONSlice[string](domain.NormalizeList(req.Languages)),
		Availability:       datatypes.JSONSlice[models.AvailabilitySlot](slots),
		IsAvailable:        true,
		VerificationStatus: string(domain.VerificationPending),
	}

	if err := h.db.WithContext(ctx).Create(&p).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Code(c, httperr.CodeProfileExists)
			return
		}
		httperr.Respond(c, err)
		return
	}

	// the column default swallows an explicit false on insert
	if req.IsAvailable != nil && !*req.IsAvailable {
		if err := h.db.WithContext(ctx).Model(&p).Update("is_available", false).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		p.IsAvailable = false
	}

	p.User = *user
	httpresp.Created(c, dto.NewGuide(&p))
}

// Update edits the descriptive fields. Verification and rating are never
// writable here.
func (h *GuideHandler) Update(c *gin.Context) {
	var req UpdateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	p, ok := h.ownProfile(c)
	if !ok {
		return
	}

	updates := map[string]any{}
	if req.Bio != nil {
		p.Bio = strings.TrimSpace(*req.Bio)
		updates["bio"] = p.Bio
	}
	if req.HourlyRate != nil {
		p.HourlyRate = *req.HourlyRate
		updates["hourly_rate"] = p.HourlyRate
	}
	if req.YearsOfExperience != nil {
		p.YearsOfExperience = *req.YearsOfExperience
		updates["years_of_experience"] = p.YearsOfExperience
	}
	if req.Specialties != nil {
		p.Specialties = domain.NormalizeList(req.Specialties)
		updates["specialties"] = p.Specialties
	}
	if req.Cities != nil {
		p.Cities = domain.NormalizeList(req.Cities)
		updates["cities"] = p.Cities
	}
	if req.Languages != nil {
		p.Languages = domain.NormalizeList(req.Languages)
		updates["languages"] = p.Languages
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.GuideProfile{ID: p.ID}).
			Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	httpresp.OK(c, dto.NewGuide(p))
}

// UpdateAvailability replaces the weekly slots when "availability" is sent
// (an empty list clears them) and toggles is_available when sent.
func (h *GuideHandler) UpdateAvailability(c *gin.Context) {
	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if req.Availability == nil && req.IsAvailable == nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "availability or is_available is required")
		return
	}

	var slots []models.AvailabilitySlot
	if req.Availability != nil {
		slots = toSlots(req.Availability)
		if err := domain.ValidateAvailability(slots); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	p, ok := h.ownProfile(c)
	if !ok {
		return
	}

	updates := map[string]any{}
	if req.Availability != nil {
		p.Availability = slots
		updates["availability"] = p.Availability
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
		updates["is_available"] = p.IsAvailable
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.GuideProfile{ID: p.ID}).
		Updates(updates).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewGuide(p))
}

// ======================================================
// HELPERS
// ======================================================

func (h *GuideHandler) ownProfile(c *gin.Context) (*models.GuideProfile, bool) {
	p, err := h.repo.GetByUserID(c.Request.Context(), middleware.CurrentActor(c).UserID)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	if p == nil {
		httperr.Code(c, httperr.CodeProfileNotFound)
		return nil, false
	}
	return p, true
}

func toSlots(in []AvailabilitySlotRequest) []models.AvailabilitySlot {
	out := make([]models.AvailabilitySlot, 0, len(in))
	for _, s := range in {
		out = append(out, models.AvailabilitySlot{
			Day:       *s.Day,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return out
}
