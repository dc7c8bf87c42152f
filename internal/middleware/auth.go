package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/auth"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

const (
	ContextUser     = "user"
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AuthMiddleware verifies the bearer token and loads the user fresh from
// the database, so bans and password changes apply immediately.
func AuthMiddleware(tokens *auth.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			httperr.Code(c, httperr.CodeNotAuthorized)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				httperr.Code(c, httperr.CodeTokenExpired)
				return
			}
			httperr.Code(c, httperr.CodeInvalidToken)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			httperr.Code(c, httperr.CodeInvalidToken)
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Code(c, httperr.CodeNotAuthorized)
				return
			}
			httperr.Respond(c, err)
			return
		}

		if user.Suspended() {
			httperr.Code(c, httperr.CodeAccountSuspended)
			return
		}
		if user.PasswordChangedAt != nil && claims.IssuedBefore(*user.PasswordChangedAt) {
			httperr.Code(c, httperr.CodeTokenExpired)
			return
		}

		c.Set(ContextUser, &user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)

		c.Next()
	}
}

// Authorize lets the request through when the authenticated role holds the
// capability for action. Must run after AuthMiddleware.
func Authorize(action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := access.Role(c.GetString(ContextUserRole))
		if !access.Allowed(role, action) {
			httperr.Forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func CurrentActor(c *gin.Context) access.Actor {
	return access.Actor{
		UserID: c.GetUint(ContextUserID),
		Role:   access.Role(c.GetString(ContextUserRole)),
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
