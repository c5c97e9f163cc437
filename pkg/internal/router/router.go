// Package router binds the /images surface and the health endpoint to the
// gin engine. Handler implementations live in pkg/internal/handle.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/internal/handle"
	"github.com/ridgeline/mediavault/pkg/middleware"
)

// RegisterImagesRoutes registers the media pipeline routes on g. Mutating
// and administrative routes require an admin caller.
func RegisterImagesRoutes(g *gin.RouterGroup) {
	images := g.Group("/images")
	{
		images.GET("", handle.ListImages)

		admin := images.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/upload", handle.UploadImage)
			admin.POST("/upload/multiple", handle.UploadImages)
			admin.PUT("/:id", handle.UpdateImage)
			admin.DELETE("/:id", handle.DeleteImage)

			admin.GET("/scan", handle.ScanImages)
			admin.POST("/cloudinary", handle.CommitPicked)
			admin.POST("/check-paths", handle.CheckPaths)
			admin.POST("/import-local", handle.ImportLocal)
		}
	}
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(g *gin.RouterGroup) {
	g.GET("/health", handle.Health)
}
