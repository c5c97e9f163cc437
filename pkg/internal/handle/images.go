package handle

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/service"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	"github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/rule"
)

// statusForCode maps per-item result codes to HTTP statuses for single-item
// endpoints. Batch endpoints always answer 200 and report per item.
func statusForCode(code string) int {
	switch code {
	case types.IngestValidation:
		return http.StatusBadRequest
	case types.IngestRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// readUpload pulls one multipart file fully into memory, bounded by limit.
func readUpload(fh *multipart.FileHeader, limit int64) (types.IngestFile, error) {
	f, err := fh.Open()
	if err != nil {
		return types.IngestFile{}, err
	}
	defer f.Close()

	// limit+1 so an oversize buffer is detectable downstream rather than
	// silently truncated
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return types.IngestFile{}, err
	}

	return types.IngestFile{Name: fh.Filename, Data: data}, nil
}

func bindMeta(c *gin.Context) (types.IngestMeta, error) {
	var meta types.IngestMeta
	if err := c.ShouldBind(&meta); err != nil {
		return meta, err
	}

	if err := rule.ValidateStruct(meta); err != nil {
		return meta, err
	}

	return meta, nil
}

// UploadImage handles POST /images/upload: one file in the "image" field.
func UploadImage(c *gin.Context) {
	meta, err := bindMeta(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "missing image file")
		return
	}

	limit := configs.GetConfig().Media.MaxUploadBytes()

	file, err := readUpload(fh, limit)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())
	results := svc.Ingest(c.Request.Context(), []types.IngestFile{file}, meta, limit)

	res := results[0]
	if !res.OK {
		log.Logger().Warn().Str("file", res.Name).Str("code", res.Code).Str("error", res.Error).
			Msg("upload rejected")
		fail(c, statusForCode(res.Code), res.Error)

		return
	}

	created(c, "image uploaded", res.Record)
}

// UploadImages handles POST /images/upload/multiple: any number of files in
// the "images" field. Always answers 200 with one result per file.
func UploadImages(c *gin.Context) {
	meta, err := bindMeta(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	fhs := form.File["images"]
	if len(fhs) == 0 {
		fail(c, http.StatusBadRequest, "no files in images field")
		return
	}

	limit := configs.GetConfig().Media.MaxBatchBytes()

	files := make([]types.IngestFile, 0, len(fhs))
	for _, fh := range fhs {
		file, err := readUpload(fh, limit)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		files = append(files, file)
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())
	results := svc.Ingest(c.Request.Context(), files, meta, limit)

	succeeded := 0
	for _, r := range results {
		if r.OK {
			succeeded++
		}
	}

	ok(c, "batch processed", gin.H{
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

// ListImages handles GET /images.
func ListImages(c *gin.Context) {
	var q types.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := rule.ValidateStruct(q); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())

	res, err := svc.List(c.Request.Context(), q)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list images failed")
		fail(c, http.StatusInternalServerError, err.Error())

		return
	}

	ok(c, "images listed", res)
}

// UpdateImage handles PUT /images/:id: metadata patch only.
func UpdateImage(c *gin.Context) {
	var patch model.AssetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	svc := service.NewMediaServiceFromContext(c.Request.Context())

	rec, err := svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fail(c, http.StatusNotFound, "image not found")
			return
		}

		log.Logger().Error().Err(err).Str("id", c.Param("id")).Msg("update image failed")
		fail(c, http.StatusInternalServerError, err.Error())

		return
	}

	ok(c, "image updated", rec)
}

// DeleteImage handles DELETE /images/:id. The binary delete is best-effort;
// the record is gone either way when this returns success.
func DeleteImage(c *gin.Context) {
	svc := service.NewMediaServiceFromContext(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fail(c, http.StatusNotFound, "image not found")
			return
		}

		log.Logger().Error().Err(err).Str("id", c.Param("id")).Msg("delete image failed")
		fail(c, http.StatusInternalServerError, err.Error())

		return
	}

	ok(c, "image deleted", nil)
}
