package router

import (
	"errors"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/storyloom/backend/internal/handlers"
	"github.com/storyloom/backend/internal/middleware"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/moderation"
	"github.com/storyloom/backend/internal/repositories"
	"github.com/storyloom/backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes runs migrations and seeding, then wires every handler
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, engine *moderation.Engine, log *logrus.Logger) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Tag{},
		&models.Story{},
		&models.StoryRevision{},
		&models.Flag{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.ViewHistory{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	log.Info("auto-migrations completed")

	userRepo := repositories.NewPostgresUserRepository(db)
	if err := seedRoles(userRepo); err != nil {
		return err
	}
	if err := seedSuperadmin(userRepo, cfg); err != nil {
		return err
	}
	log.Info("roles and superadmin seeded")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	storyRepo := repositories.NewPostgresStoryRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	tagRepo := repositories.NewPostgresTagRepository(db)
	interactionRepo := repositories.NewPostgresInteractionRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	analyticsRepo := repositories.NewPostgresAnalyticsRepository(db)

	// Unprotected routes for authentication
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// Protected routes (require JWT authentication)
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	authHandler.RegisterProtectedRoutes(api.Group("/auth"))

	storyHandler := handlers.NewStoryHandler(engine, storyRepo, interactionRepo)
	storyHandler.RegisterStoryRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, storyRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(api)

	interactionHandler := handlers.NewInteractionHandler(interactionRepo, storyRepo, notificationRepo)
	interactionHandler.RegisterInteractionRoutes(api)

	tagHandler := handlers.NewTagHandler(tagRepo)
	tagHandler.RegisterTagRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	moderationHandler := handlers.NewModerationHandler(engine)
	moderationHandler.RegisterUserRoutes(api)

	// Moderator and superadmin surfaces
	moderatorGroup := api.Group("/moderation")
	moderatorGroup.Use(middleware.RequireRoles(models.RoleModerator, models.RoleSuperadmin))
	moderationHandler.RegisterModeratorRoutes(moderatorGroup)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireRoles(models.RoleSuperadmin))
	tagHandler.RegisterTagAdminRoutes(adminGroup)

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo)
	analyticsHandler.RegisterAnalyticsRoutes(adminGroup.Group("/analytics"))

	log.Info("all routes configured")
	return nil
}

var defaultRoles = []models.Role{
	{Name: models.RoleUser, Description: "Reader with basic access"},
	{Name: models.RoleCreator, Description: "Can author and generate stories"},
	{Name: models.RoleModerator, Description: "Reviews flagged content"},
	{Name: models.RoleSuperadmin, Description: "Full administrative access"},
}

func seedRoles(userRepo repositories.UserRepository) error {
	for _, role := range defaultRoles {
		_, err := userRepo.GetRoleByName(role.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		r := role
		if err := userRepo.CreateRole(&r); err != nil {
			return err
		}
	}
	return nil
}

func seedSuperadmin(userRepo repositories.UserRepository, cfg *config.Config) error {
	_, err := userRepo.GetUserByEmail(cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	role, err := userRepo.GetRoleByName(models.RoleSuperadmin)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return userRepo.CreateUser(&models.User{
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		IsVerified:   true,
		RoleID:       role.ID,
	})
}
