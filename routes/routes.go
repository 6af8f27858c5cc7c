package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/configs"
	"github.com/maxmaindev/citizen-appeals/controllers"
	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/middlewares"
	"github.com/maxmaindev/citizen-appeals/pkg/classify"
	"github.com/maxmaindev/citizen-appeals/pkg/geocode"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/storage"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/services"
)

// cacheTTL bounds how stale a cached list or dashboard may get; mutations
// invalidate sooner through the querycache.Mutations table.
const cacheTTL = 30 * time.Second

// RegisterRoutes wires repositories, services and controllers and mounts
// every endpoint on the engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config) error {
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"success": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	appealRepo := repository.NewAppealRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	categoryServiceRepo := repository.NewCategoryServiceRepository(db)
	userServiceRepo := repository.NewUserServiceRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Shared infrastructure
	cache := querycache.New[any](cacheTTL)
	classifier := classify.New(cfg.ClassifyURL, cfg.ClassifyEnabled)
	geocoder := geocode.New(cfg.GeocodeURL, cfg.GeocodeEnabled)

	settingsSvc, err := services.NewSettingsService(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("load system settings: %w", err)
	}

	var store storage.Storage
	if cfg.UseMinio {
		store, err = storage.NewMinioStorage(
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.UseSSL)
	} else {
		store, err = storage.NewLocalStorage(cfg.UploadPath)
	}
	if err != nil {
		return fmt.Errorf("init photo storage: %w", err)
	}

	// Services
	notifier := services.NewNotificationService(notificationRepo, userRepo, userServiceRepo)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	appealSvc := services.NewAppealService(appealRepo, categoryRepo, serviceRepo, classifier, geocoder, settingsSvc, notifier)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc, userRepo)
	appealCtrl := controllers.NewAppealController(appealRepo, userServiceRepo, appealSvc, cache)
	dashboardCtrl := controllers.NewDashboardController(statsRepo, userServiceRepo, cache)
	classificationCtrl := controllers.NewClassificationController(classifier, cache)
	categoryCtrl := controllers.NewCategoryController(categoryRepo, cache)
	serviceCtrl := controllers.NewServiceController(serviceRepo, classifier, cache)
	joinCtrl := controllers.NewJoinController(categoryServiceRepo, userServiceRepo, cache)
	userCtrl := controllers.NewUserController(userRepo, cache)
	commentCtrl := controllers.NewCommentController(commentRepo, appealRepo, notifier, cache)
	photoCtrl := controllers.NewPhotoController(photoRepo, appealRepo, userServiceRepo, store, cfg.MaxUploadSize, cache)
	notificationCtrl := controllers.NewNotificationController(notificationRepo, cache)
	settingsCtrl := controllers.NewSettingsController(settingsSvc, cache)

	secret := cfg.JWTSecret
	anyUser := middlewares.AuthMiddleware(secret)
	staff := middlewares.AuthMiddleware(secret, entity.RoleDispatcher, entity.RoleExecutor, entity.RoleAdmin)
	dispatcherAdmin := middlewares.AuthMiddleware(secret, entity.RoleDispatcher, entity.RoleAdmin)
	adminOnly := middlewares.AuthMiddleware(secret, entity.RoleAdmin)

	// Auth
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}
	authed := auth.Group("", anyUser)
	{
		authed.GET("/me", authCtrl.Me)
		authed.PATCH("/profile", authCtrl.UpdateProfile)
		authed.PATCH("/change-password", authCtrl.ChangePassword)
	}

	// Appeals
	appeals := r.Group("/appeals", anyUser)
	{
		appeals.POST("", appealCtrl.Create)
		appeals.GET("", appealCtrl.List)
		appeals.POST("/classify", appealCtrl.Classify)

		// dashboards before the :id wildcard
		appeals.GET("/statistics", dispatcherAdmin, dashboardCtrl.Statistics)
		appeals.GET("/dashboard/dispatcher", dispatcherAdmin, dashboardCtrl.Dispatcher)
		appeals.GET("/dashboard/admin", adminOnly, dashboardCtrl.Admin)
		appeals.GET("/dashboard/executor", middlewares.AuthMiddleware(secret, entity.RoleExecutor, entity.RoleAdmin), dashboardCtrl.Executor)
		appeals.GET("/services/:id/statistics", staff, dashboardCtrl.ServiceStatistics)

		appeals.GET("/:id", appealCtrl.Get)
		appeals.PUT("/:id", appealCtrl.Update)
		appeals.PATCH("/:id/status", staff, appealCtrl.UpdateStatus)
		appeals.PATCH("/:id/priority", staff, appealCtrl.UpdatePriority)
		appeals.PATCH("/:id/assign", dispatcherAdmin, appealCtrl.Assign)
		appeals.GET("/:id/history", appealCtrl.History)

		appeals.GET("/:id/comments", commentCtrl.List)
		appeals.POST("/:id/comments", commentCtrl.Create)
		appeals.POST("/:id/photos", photoCtrl.Upload)
	}

	// Classification history
	classification := r.Group("/classification", adminOnly)
	{
		classification.GET("/history", classificationCtrl.History)
		classification.GET("/history/analytics", classificationCtrl.Analytics)
	}

	// Catalog: public read, admin write
	r.GET("/categories", categoryCtrl.List)
	r.GET("/categories/:id", categoryCtrl.Get)
	r.GET("/categories/:id/services", joinCtrl.ServicesForCategory)
	r.GET("/services", serviceCtrl.List)
	r.GET("/services/:id", serviceCtrl.Get)

	catalog := r.Group("", adminOnly)
	{
		catalog.POST("/categories", categoryCtrl.Create)
		catalog.PUT("/categories/:id", categoryCtrl.Update)
		catalog.DELETE("/categories/:id", categoryCtrl.Delete)
		catalog.POST("/services", serviceCtrl.Create)
		catalog.PUT("/services/:id", serviceCtrl.Update)
		catalog.PUT("/services/:id/keywords", serviceCtrl.UpdateKeywords)
		catalog.DELETE("/services/:id", serviceCtrl.Delete)
	}

	// Assignment joins
	r.GET("/user-services/me", anyUser, joinCtrl.MyServices)
	joins := r.Group("", dispatcherAdmin)
	{
		joins.GET("/category-services", joinCtrl.ListCategoryServices)
		joins.POST("/category-services", joinCtrl.LinkCategoryService)
		joins.DELETE("/category-services", joinCtrl.UnlinkCategoryService)
		joins.GET("/user-services", joinCtrl.ListUserServices)
		joins.POST("/user-services", joinCtrl.LinkUserService)
		joins.DELETE("/user-services", joinCtrl.UnlinkUserService)
	}

	// Users
	r.GET("/users", staff, userCtrl.List)
	users := r.Group("/users", adminOnly)
	{
		users.GET("/:id", userCtrl.Get)
		users.PUT("/:id", userCtrl.Update)
		users.DELETE("/:id", userCtrl.Delete)
	}

	// Comments and photos addressed directly
	r.DELETE("/comments/:id", anyUser, commentCtrl.Delete)
	r.GET("/photos/:id", anyUser, photoCtrl.Get)
	r.DELETE("/photos/:id", anyUser, photoCtrl.Delete)

	// Notifications
	notifications := r.Group("/notifications", anyUser)
	{
		notifications.GET("", notificationCtrl.List)
		notifications.GET("/unread-count", notificationCtrl.UnreadCount)
		notifications.PUT("/read-all", notificationCtrl.MarkAllRead)
		notifications.PUT("/:id/read", notificationCtrl.MarkRead)
		notifications.DELETE("/:id", notificationCtrl.Delete)
	}

	// System settings
	r.GET("/settings", anyUser, settingsCtrl.Get)
	r.PUT("/settings", adminOnly, settingsCtrl.Update)

	return nil
}
