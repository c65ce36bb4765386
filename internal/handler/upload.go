package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/upload"
)

// maxUploadBytes bounds a single image upload.
const maxUploadBytes = 10 << 20 // 10 MiB

// UploadHandler serves POST /upload/image.
type UploadHandler struct{ Store upload.Store }

func NewUploadHandler(s upload.Store) *UploadHandler { return &UploadHandler{Store: s} }

// Image accepts a multipart form with an "image" part and stores it,
// returning the public URL and identifier.
func (h *UploadHandler) Image(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file is required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image too large"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Store.Save(ctx, data, fh.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusOK, res)
}
