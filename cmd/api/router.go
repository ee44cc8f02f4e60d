package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/middleware"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/response"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins...),
	)

	// Uploaded files (local driver)
	if c.LocalUploads != nil {
		router.Static(c.Config.Upload.PublicPrefix, c.LocalUploads.Dir())
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupPostRoutes(v1, c)
	}

	return router
}

func setupPostRoutes(rg *gin.RouterGroup, c *container.Container) {
	posts := rg.Group("/posts")
	{
		// Public
		posts.GET("", c.PostHandler.ListPosts)
		posts.GET("/count", c.PostHandler.CountPosts)
		posts.GET("/search/query", c.PostHandler.SearchPosts)
		posts.GET("/:slug", c.PostHandler.GetPost)
	}

	authed := posts.Group("", middleware.AuthMiddleware(c.JWTManager))
	{
		authed.POST("", c.PostHandler.CreatePost)
		authed.PATCH("/:id", c.PostHandler.UpdatePost)
		authed.DELETE("/:id", c.PostHandler.DeletePost)

		authed.POST("/upload/cover", c.UploadHandler.UploadCover)
		authed.POST("/upload/img", c.UploadHandler.UploadImage)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		if err := c.HealthCheck(checkCtx); err != nil {
			response.ServiceUnavailable(ctx, "post store unavailable: "+err.Error())
			return
		}

		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "ok",
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
			"store":   c.Config.Store.Driver,
		})
	}
}
