package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/auth"
	"github.com/BruksfildServices01/tour-guide-api/internal/cache"
	"github.com/BruksfildServices01/tour-guide-api/internal/config"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	"github.com/BruksfildServices01/tour-guide-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/tour-guide-api/internal/infra/repository"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/storage"
	"github.com/BruksfildServices01/tour-guide-api/internal/timezone"
	ucBooking "github.com/BruksfildServices01/tour-guide-api/internal/usecase/booking"
	ucRating "github.com/BruksfildServices01/tour-guide-api/internal/usecase/rating"
	ucReview "github.com/BruksfildServices01/tour-guide-api/internal/usecase/review"
)

// Deps are the long-lived resources built by main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  *redis.Client
	Store  storage.AvatarStore
	Audit  *audit.Dispatcher
	Log    *zap.Logger
}

// NewEngine returns a bare engine. Forwarded client IPs are only honoured
// from cfg.TrustedProxies, the rate limiter keys on them.
func NewEngine(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB

	// ======================================================
	// INFRA
	// ======================================================
	loc := timezone.Location(cfg.Timezone)

	bookingRepo := infraRepo.NewBookingGormRepository(db)
	guideRepo := infraRepo.NewGuideGormRepository(db)
	reviewRepo := infraRepo.NewReviewGormRepository(db)
	ratingRepo := infraRepo.NewRatingGormRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	resets := cache.NewResetTokenStore(d.Redis)
	loginLimiter := cache.NewRateLimiter(d.Redis, "login", cfg.LoginRateLimit, cfg.LoginRateWindow)
	forgotLimiter := cache.NewRateLimiter(d.Redis, "forgot", cfg.LoginRateLimit, cfg.LoginRateWindow)

	aggregator := ucRating.NewAggregator(ratingRepo, d.Log)

	// ======================================================
	// USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, d.Audit, loc)
	updateBookingStatusUC := ucBooking.NewUpdateBookingStatus(bookingRepo, d.Audit)
	getBookingUC := ucBooking.NewGetBooking(bookingRepo)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)

	createReviewUC := ucReview.NewCreateReview(reviewRepo, aggregator, d.Audit)
	manageReviewUC := ucReview.NewManage(reviewRepo, aggregator, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db, d.Redis)
	authHandler := handlers.NewAuthHandler(db, cfg, tokens, resets, d.Audit)
	userHandler := handlers.NewUserHandler(db, d.Store, cfg.Upload.MaxBytes)
	guideHandler := handlers.NewGuideHandler(db, guideRepo)
	bookingHandler := handlers.NewBookingHandler(
		bookingRepo,
		createBookingUC,
		updateBookingStatusUC,
		getBookingUC,
		listBookingsUC,
	)
	reviewHandler := handlers.NewReviewHandler(createReviewUC, manageReviewUC)
	messageHandler := handlers.NewMessageHandler(db)
	adminHandler := handlers.NewAdminHandler(db, manageReviewUC, aggregator, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(db), loc)

	authn := middleware.AuthMiddleware(tokens, db)
	can := middleware.Authorize

	// ======================================================
	// STATIC
	// ======================================================
	r.GET("/health", healthHandler.Check)

	if cfg.Upload.Driver == "" || cfg.Upload.Driver == "local" {
		r.Static("/uploads", cfg.Upload.Dir)
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// AUTH
	// ------------------------------
	authAPI := api.Group("/auth")
	{
		authAPI.POST("/register", authHandler.Register)
		authAPI.POST("/login", middleware.RateLimit(loginLimiter), authHandler.Login)
		authAPI.POST("/forgotpassword", middleware.RateLimit(forgotLimiter), authHandler.ForgotPassword)
		authAPI.PUT("/resetpassword", authHandler.ResetPassword)

		authAPI.GET("/verify-token", authn, authHandler.VerifyToken)
		authAPI.PUT("/updatepassword", authn, authHandler.UpdatePassword)
	}

	// ------------------------------
	// USERS
	// ------------------------------
	users := api.Group("/users", authn, can(access.ActionProfileUpdate))
	{
		users.PUT("/profile", userHandler.UpdateProfile)
		users.PUT("/avatar", userHandler.UploadAvatar)
		users.DELETE("/avatar", userHandler.DeleteAvatar)
	}

	// ------------------------------
	// GUIDES
	// ------------------------------
	guides := api.Group("/guides")
	{
		guides.GET("", guideHandler.List)
		guides.GET("/me", authn, can(access.ActionGuideProfileManage), guideHandler.Me)
		guides.GET("/:id", guideHandler.Get)

		guides.POST("", authn, can(access.ActionGuideProfileManage), guideHandler.Create)
		guides.PUT("", authn, can(access.ActionGuideProfileManage), guideHandler.Update)
		guides.PUT("/availability", authn, can(access.ActionGuideProfileManage), guideHandler.UpdateAvailability)
	}

	// ------------------------------
	// BOOKINGS
	// ------------------------------
	bookings := api.Group("/bookings", authn)
	{
		bookings.POST("", can(access.ActionBookingCreate), bookingHandler.Create)
		bookings.GET("", can(access.ActionBookingRead), bookingHandler.List)
		bookings.GET("/:id", can(access.ActionBookingRead), bookingHandler.Get)
		bookings.PUT("/:id/status", can(access.ActionBookingUpdateStatus), bookingHandler.UpdateStatus)
	}

	// ------------------------------
	// REVIEWS
	// ------------------------------
	reviews := api.Group("/reviews")
	{
		reviews.GET("/guide/:guideId", reviewHandler.ListForGuide)

		reviews.POST("", authn, can(access.ActionReviewCreate), reviewHandler.Create)
		reviews.PUT("/:id", authn, can(access.ActionReviewUpdate), reviewHandler.Update)
		reviews.DELETE("/:id", authn, can(access.ActionReviewDelete), reviewHandler.Delete)
		reviews.PUT("/:id/response", authn, can(access.ActionReviewRespond), reviewHandler.Respond)
	}

	// ------------------------------
	// MESSAGES
	// ------------------------------
	messages := api.Group("/messages", authn)
	{
		messages.GET("/conversations", can(access.ActionMessageRead), messageHandler.Conversations)
		messages.GET("/:userId", can(access.ActionMessageRead), messageHandler.Thread)
		messages.POST("", can(access.ActionMessageSend), messageHandler.Send)
	}

	// ------------------------------
	// ADMIN
	// ------------------------------
	admin := api.Group("/admin", authn)
	{
		admin.GET("/dashboard", can(access.ActionAdminDashboard), adminHandler.Dashboard)

		admin.GET("/verifications", can(access.ActionAdminVerifyGuides), adminHandler.Verifications)
		admin.PUT("/verifications/:id", can(access.ActionAdminVerifyGuides), adminHandler.Verify)

		admin.PUT("/reviews/:id", can(access.ActionAdminModerateReviews), adminHandler.ModerateReview)

		admin.GET("/users", can(access.ActionAdminManageUsers), adminHandler.Users)
		admin.PUT("/users/:id/ban", can(access.ActionAdminManageUsers), adminHandler.Ban)
		admin.PUT("/users/:id/activate", can(access.ActionAdminManageUsers), adminHandler.Activate)
		admin.DELETE("/users/:id", can(access.ActionAdminManageUsers), adminHandler.DeleteUser)

		admin.POST("/ratings/recompute", can(access.ActionAdminRecomputeRatings), adminHandler.RecomputeRatings)
		admin.POST("/ratings/recompute/:guideId", can(access.ActionAdminRecomputeRatings), adminHandler.RecomputeGuideRating)

		admin.GET("/audit-logs", can(access.ActionAdminReadAudit), auditLogsHandler.List)
	}
}
