package httptransport

import (
	"log/slog"

	"github.com/almasbek/pinpoint/internal/token"
	"github.com/almasbek/pinpoint/internal/transport/http/handler"
	"github.com/almasbek/pinpoint/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	bookmarkHandler *handler.BookmarkHandler,
	tokens *token.Service,
	uploadDir string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Security())

	r.Static("/uploads", uploadDir)

	api := r.Group("/api")

	// Public auth routes
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.GET("/verify/:token", authHandler.VerifyEmail)
	api.POST("/verify-email", authHandler.VerifyEmail)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password/:token", authHandler.ResetPassword)

	// Everything below requires a session token.
	authed := api.Group("")
	authed.Use(middleware.Auth(tokens))

	authed.POST("/logout", authHandler.Logout)

	authed.GET("/profile/:userId", profileHandler.GetUser)
	authed.PUT("/update-profile/:userId", profileHandler.UpdateUser)
	authed.PUT("/update-profile-image/:userId", profileHandler.UpdateProfileImage)

	authed.POST("/bookmarks/:userId/add", bookmarkHandler.Add)
	authed.GET("/bookmarks/:userId", bookmarkHandler.List)
	authed.DELETE("/bookmarks/:userId/:bookmarkId/delete", bookmarkHandler.Delete)

	return r
}
