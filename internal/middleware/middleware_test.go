package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/auth"
	"github.com/BruksfildServices01/tour-guide-api/internal/cache"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(db *gorm.DB, tokens *auth.TokenService) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens, db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID, "role": CurrentActor(c).Role})
	})
	r.GET("/admin", AuthMiddleware(tokens, db), Authorize(access.ActionAdminDashboard), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func call(r http.Handler, path, token string) (*httptest.ResponseRecorder, httperr.HTTPError) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body httperr.HTTPError
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestAuthMiddleware_Taxonomy(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := auth.NewTokenService("secret", time.Hour)
	r := protected(db, tokens)

	tourist := testutil.CreateUser(t, db, "tourist")
	good, err := tokens.Issue(tourist.ID, "tourist")
	require.NoError(t, err)

	rec, _ := call(r, "/me", good)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":`+jsonNumber(tourist.ID)+`,"role":"tourist"}`, rec.Body.String())

	rec, body := call(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httperr.CodeNotAuthorized, body.Code)

	_, body = call(r, "/me", "garbage")
	assert.Equal(t, httperr.CodeInvalidToken, body.Code)

	expired, err := auth.NewTokenService("secret", -time.Minute).Issue(tourist.ID, "tourist")
	require.NoError(t, err)
	_, body = call(r, "/me", expired)
	assert.Equal(t, httperr.CodeTokenExpired, body.Code)

	ghost, err := tokens.Issue(9999, "tourist")
	require.NoError(t, err)
	_, body = call(r, "/me", ghost)
	assert.Equal(t, httperr.CodeNotAuthorized, body.Code)
}

func TestAuthMiddleware_SuspendedAndPasswordChange(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := auth.NewTokenService("secret", time.Hour)
	r := protected(db, tokens)

	banned := testutil.CreateUser(t, db, "tourist")
	require.NoError(t, db.Model(banned).Update("is_banned", true).Error)
	token, _ := tokens.Issue(banned.ID, "tourist")
	rec, body := call(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httperr.CodeAccountSuspended, body.Code)

	inactive := testutil.CreateUser(t, db, "guide")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	token, _ = tokens.Issue(inactive.ID, "guide")
	_, body = call(r, "/me", token)
	assert.Equal(t, httperr.CodeAccountSuspended, body.Code)

	changed := testutil.CreateUser(t, db, "tourist")
	token, _ = tokens.Issue(changed.ID, "tourist")
	require.NoError(t, db.Model(changed).Update("password_changed_at", time.Now().Add(time.Hour)).Error)
	_, body = call(r, "/me", token)
	assert.Equal(t, httperr.CodeTokenExpired, body.Code)
}

func TestAuthorize_UsesStoredRole(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := auth.NewTokenService("secret", time.Hour)
	r := protected(db, tokens)

	tourist := testutil.CreateUser(t, db, "tourist")
	// the role claim is ignored; the stored role decides
	forged, _ := tokens.Issue(tourist.ID, "admin")
	rec, body := call(r, "/admin", forged)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httperr.CodeForbidden, body.Code)

	admin := testutil.CreateUser(t, db, "admin")
	token, _ := tokens.Issue(admin.ID, "admin")
	rec, _ = call(r, "/admin", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("http://localhost:3000, https://app.example.com/"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.POST("/login", RateLimit(cache.NewRateLimiter(client, "rate:login", 1, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// redis down: fail open
	mr.Close()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
