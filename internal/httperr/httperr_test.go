package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, HTTPError) {
	t.Helper()
	r := gin.New()
	r.POST("/", h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	var body HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespond_BusinessErrorUsesCatalog(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		Respond(c, fmt.Errorf("wrapped: %w", ErrBusiness(CodeSlotTaken)))
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, CodeSlotTaken, body.Code)
	assert.Equal(t, "This time slot is already booked", body.Message)
}

func TestRespond_DetailOverridesMessage(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		Respond(c, ErrBusinessf(CodeInvalidTransition, "cannot move from rejected to cancelled"))
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot move from rejected to cancelled", body.Message)
}

func TestRespond_UnknownErrorIsGeneric(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		Respond(c, errors.New("connection refused on 10.0.0.3"))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestValidation_ReportsFields(t *testing.T) {
	type req struct {
		Email string `json:"email" binding:"required,email"`
		Age   int    `json:"age" binding:"min=18"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var in req
		if err := c.ShouldBindJSON(&in); err != nil {
			Validation(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"email":"nope","age":3}`)))

	var body HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be a valid email", body.Errors["Email"])
	assert.Equal(t, "must be at least 18", body.Errors["Age"])
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestLookup_UnknownCode(t *testing.T) {
	status, msg := Lookup("something_new")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "something_new", msg)
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
