package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/auth"
	"github.com/BruksfildServices01/tour-guide-api/internal/cache"
	"github.com/BruksfildServices01/tour-guide-api/internal/config"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/logger"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
	"github.com/BruksfildServices01/tour-guide-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	tokens *auth.TokenService
	resets *cache.ResetTokenStore
	audit  *audit.Dispatcher
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	tokens *auth.TokenService,
	resets *cache.ResetTokenStore,
	audit *audit.Dispatcher,
) *AuthHandler {
	return &AuthHandler{
		db:     db,
		config: cfg,
		tokens: tokens,
		resets: resets,
		audit:  audit,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=tourist guide"`

	Phone    string `json:"phone" binding:"max=30"`
	Language string `json:"language" binding:"max=10"`
	City     string `json:"city" binding:"max=100"`
	Country  string `json:"country" binding:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type authResponse struct {
	User  dto.MeDTO `json:"user"`
	Token string    `json:"token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	role := access.RoleTourist
	if req.Role != "" {
		r, ok := access.ParseRole(req.Role)
		if !ok || !access.SelfRegistrable(r) {
			httperr.Code(c, httperr.CodeInvalidRole)
			return
		}
		role = r
	}

	email := normalizeEmail(req.Email)

	if h.config.CheckEmailDomain && !validators.IsEmailDomainValid(c.Request.Context(), email) {
		httperr.Code(c, httperr.CodeInvalidEmailDomain)
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if count > 0 {
		httperr.Code(c, httperr.CodeEmailTaken)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         string(role),
		Phone:        req.Phone,
		Language:     req.Language,
		City:         req.City,
		Country:      req.Country,
		IsActive:     true,
	}
	if user.Language == "" {
		user.Language = "en"
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		// lost a race with a concurrent sign up
		if httperr.IsUniqueViolation(err) {
			httperr.Code(c, httperr.CodeEmailTaken)
			return
		}
		httperr.Respond(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   audit.ActionUserRegistered,
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"role": user.Role},
	})

	httpresp.Created(c, authResponse{User: dto.NewMe(&user), Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Code(c, httperr.CodeInvalidCredentials)
			return
		}
		httperr.Respond(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.Code(c, httperr.CodeInvalidCredentials)
		return
	}
	if user.Suspended() {
		httperr.Code(c, httperr.CodeAccountSuspended)
		return
	}

	now := time.Now().UTC()
	if err := h.db.WithContext(c.Request.Context()).
		Model(&user).
		UpdateColumn("last_login_at", now).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	user.LastLoginAt = &now

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, authResponse{User: dto.NewMe(&user), Token: token})
}

func (h *AuthHandler) VerifyToken(c *gin.Context) {
	httpresp.OK(c, gin.H{"user": dto.NewMe(middleware.CurrentUser(c))})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		httperr.Code(c, httperr.CodeIncorrectPassword)
		return
	}

	if err := h.setPassword(c, user, req.NewPassword); err != nil {
		httperr.Respond(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   audit.ActionPasswordChanged,
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, authResponse{User: dto.NewMe(user), Token: token})
}

// ForgotPassword answers the same way whether or not the email is known.
// Outside production the raw token is echoed back, there is no mailer.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	const message = "If the email is registered, a reset token has been issued"

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpresp.Message(c, message)
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if user.Suspended() {
		httpresp.Message(c, message)
		return
	}

	raw, digest, err := auth.NewResetToken()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.resets.Save(c.Request.Context(), user.ID, digest, h.config.ResetTokenTTL); err != nil {
		httperr.Respond(c, err)
		return
	}

	logger.FromContext(c, nil).Info("password reset token issued", zap.Uint("user_id", user.ID))

	if h.config.IsProduction() {
		httpresp.Message(c, message)
		return
	}
	httpresp.OK(c, gin.H{"message": message, "reset_token": raw})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	userID, ok, err := h.resets.Consume(c.Request.Context(), auth.HashResetToken(strings.TrimSpace(req.Token)))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !ok {
		httperr.Code(c, httperr.CodeInvalidResetToken)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Code(c, httperr.CodeInvalidResetToken)
			return
		}
		httperr.Respond(c, err)
		return
	}
	if user.Suspended() {
		httperr.Code(c, httperr.CodeAccountSuspended)
		return
	}

	if err := h.setPassword(c, &user, req.Password); err != nil {
		httperr.Respond(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   audit.ActionPasswordReset,
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, authResponse{User: dto.NewMe(&user), Token: token})
}

// setPassword stores a new hash and stamps passwordChangedAt, which
// invalidates every token issued before it.
func (h *AuthHandler) setPassword(c *gin.Context, user *models.User, password string) error {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Updates(map[string]any{
			"password_hash":       hashed,
			"password_changed_at": now,
		}).Error; err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.PasswordChangedAt = &now
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
