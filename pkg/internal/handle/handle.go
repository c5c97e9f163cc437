// Package handle contains the gin handlers for the /images surface. Handlers
// bind and validate requests, delegate to the service layer and wrap every
// response in the {success, message, data} envelope.
package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/internal/types"
)

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, types.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, types.APIResponse{
		Success: false,
		Message: message,
	})
}
