package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/internal/service"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	"github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/rule"
)

// ScanImages handles GET /images/scan: reconcile the configured static
// directories against the metadata store.
func ScanImages(c *gin.Context) {
	svc := service.NewMediaServiceFromContext(c.Request.Context())

	outcome, err := svc.Scan(c.Request.Context(), service.ScanOptions{})
	if err != nil {
		log.Logger().Error().Err(err).Msg("scan failed")
		fail(c, http.StatusInternalServerError, err.Error())

		return
	}

	ok(c, "scan completed", outcome)
}

// ImportLocal handles POST /images/import-local: scan caller-chosen
// directories, optionally rehosting new files to the asset host.
func ImportLocal(c *gin.Context) {
	var req types.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())

	outcome, err := svc.Scan(c.Request.Context(), service.ScanOptions{
		Directories: req.Directories,
		Rehost:      req.Rehost,
	})
	if err != nil {
		log.Logger().Error().Err(err).Msg("import-local failed")
		fail(c, http.StatusInternalServerError, err.Error())

		return
	}

	ok(c, "import completed", outcome)
}

// CheckPaths handles POST /images/check-paths: report directory existence
// without touching the store.
func CheckPaths(c *gin.Context) {
	var req types.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())

	ok(c, "paths checked", svc.CheckPaths(req.Directories))
}

// CommitPicked handles POST /images/cloudinary: register assets already
// hosted on the asset host, selected through the in-browser picker.
func CommitPicked(c *gin.Context) {
	var req types.PickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := rule.ValidateStruct(req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())
	results := svc.CommitPicked(c.Request.Context(), req)

	succeeded := 0
	for _, r := range results {
		if r.OK {
			succeeded++
		}
	}

	ok(c, "picked assets processed", gin.H{
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}
