package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/imaging"
	"github.com/BruksfildServices01/tour-guide-api/internal/logger"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/storage"
)

const avatarField = "avatar"

type UserHandler struct {
	db       *gorm.DB
	store    storage.AvatarStore
	maxBytes int64
}

func NewUserHandler(db *gorm.DB, store storage.AvatarStore, maxBytes int64) *UserHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UserHandler{db: db, store: store, maxBytes: maxBytes}
}

// Only the fields present in the body are changed.
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Bio      *string `json:"bio" binding:"omitempty,max=1000"`
	Language *string `json:"language" binding:"omitempty,max=10"`
	City     *string `json:"city" binding:"omitempty,max=100"`
	Country  *string `json:"country" binding:"omitempty,max=100"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	user := middleware.CurrentUser(c)

	updates := map[string]any{}
	set := func(column string, v *string, dst *string) {
		if v == nil {
			return
		}
		val := strings.TrimSpace(*v)
		updates[column] = val
		*dst = val
	}
	set("name", req.Name, &user.Name)
	set("phone", req.Phone, &user.Phone)
	set("bio", req.Bio, &user.Bio)
	set("language", req.Language, &user.Language)
	set("city", req.City, &user.City)
	set("country", req.Country, &user.Country)

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Model(user).
			Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	httpresp.OK(c, dto.NewMe(user))
}

// UploadAvatar replaces the caller's avatar. The upload is re-encoded
// before it is stored, the original bytes are never kept.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile(avatarField)
	if err != nil {
		httperr.Code(c, httperr.CodeFileRequired)
		return
	}
	if header.Size > h.maxBytes {
		httperr.Code(c, httperr.CodeFileTooLarge)
		return
	}

	f, err := header.Open()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer f.Close()

	// one byte over the limit is enough to reject
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	webpData, err := imaging.ProcessAvatar(data, h.maxBytes)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	key := "avatars/" + strconv.FormatUint(uint64(user.ID), 10) + "-" + uuid.NewString() + imaging.AvatarExtension
	url, err := h.store.Put(ctx, key, webpData, imaging.AvatarContentType)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	oldKey := user.AvatarKey
	if err := h.db.WithContext(ctx).
		Model(user).
		Updates(map[string]any{"avatar_url": url, "avatar_key": key}).Error; err != nil {
		h.removeObject(c, key)
		httperr.Respond(c, err)
		return
	}
	user.AvatarURL = url
	user.AvatarKey = key

	if oldKey != "" {
		h.removeObject(c, oldKey)
	}

	httpresp.OK(c, dto.NewMe(user))
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	oldKey := user.AvatarKey
	if err := h.db.WithContext(ctx).
		Model(user).
		Updates(map[string]any{"avatar_url": "", "avatar_key": ""}).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	user.AvatarURL = ""
	user.AvatarKey = ""

	if oldKey != "" {
		h.removeObject(c, oldKey)
	}

	httpresp.OK(c, dto.NewMe(user))
}

// removeObject only logs: a leftover object is harmless once no user
// points at it.
func (h *UserHandler) removeObject(c *gin.Context, key string) {
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		logger.FromContext(c, nil).Warn("avatar delete failed", zap.String("key", key), zap.Error(err))
	}
}
