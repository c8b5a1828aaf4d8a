package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stepwise/stepwise-api/internal/api/metrics"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// maxUploadBytes caps step images at 10 MiB.
const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler accepts step images and hands them to object storage.
type UploadHandler struct {
	storage ports.ObjectStorage
	log     zerolog.Logger
}

func NewUploadHandler(storage ports.ObjectStorage, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{storage: storage, log: log}
}

// Upload handles POST /v1/uploads. Accepts a multipart form with a single
// "file" part and returns the stored object's key and public URL.
//
// @Summary      Upload a step image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file (png, jpeg, gif, or webp, max 10 MiB)"
// @Success      201   {object}  ports.StoredObject
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      415   {object}  errorResponse
// @Router       /v1/uploads/images [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	if fileHeader.Size > maxUploadBytes {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds 10 MiB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported image type")
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return err
	}
	defer file.Close()

	obj, err := h.storage.Upload(c.Request().Context(), file, fileHeader.Size, contentType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("content_type", contentType).Msg("image upload failed")
		return err
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.UploadBytes.Observe(float64(fileHeader.Size))
	return c.JSON(http.StatusCreated, obj)
}

// Delete handles DELETE /v1/uploads/images. Removes the object a previously
// returned public URL points at.
//
// @Summary      Delete an uploaded image
// @Tags         uploads
// @Security     BearerAuth
// @Param        url  query  string  true  "Public URL returned by the upload endpoint"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/uploads/images [delete]
func (h *UploadHandler) Delete(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}

	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing url")
	}
	if err := h.storage.Delete(c.Request().Context(), url); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
