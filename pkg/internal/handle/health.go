package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/configs"
	ctxPkg "github.com/ridgeline/mediavault/pkg/context"
)

// Health handles GET /health. Reports service liveness and the metadata
// store's reachability.
func Health(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"version": configs.AppVersion,
	}

	if store := ctxPkg.GetAssetStore(c.Request.Context()); store != nil {
		if err := store.HealthCheck(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["mongo"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, status)

			return
		}

		status["mongo"] = "ok"
	}

	c.JSON(http.StatusOK, status)
}
