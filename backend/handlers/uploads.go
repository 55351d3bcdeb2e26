package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
	"github.com/preyforum/preyforum/preyforum/services"
)

// HandleUpload accepts a multipart file, classifies it by content type and
// stores it in the media bucket. The public URL comes back to the client for
// attachment to a post.
func (w *WebApp) HandleUpload(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendBadRequest(c, "Missing file", nil)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	kind, maxSize, err := services.ClassifyMedia(contentType)
	if err != nil {
		return utils.SendBadRequest(c, "Unsupported media type", map[string]string{
			"content_type": contentType,
		})
	}
	if fileHeader.Size > maxSize {
		return utils.SendBadRequest(c, fmt.Sprintf("File too large (max %d MiB)", maxSize>>20), nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to read upload")
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Context(), appconfig.UploadTimeout)
	defer cancel()

	name := fmt.Sprintf("%s-%d-%s",
		session.PreyUID, time.Now().UnixNano(), utils.SanitizeFilename(fileHeader.Filename))

	url, err := w.Spaces.UploadMedia(ctx, kind, name, contentType, file)
	if err != nil {
		slog.Error("Failed to upload media",
			slog.String("prey_uid", session.PreyUID),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to upload media")
	}

	return utils.SendCreated(c, &models.UploadResult{
		URL:         url,
		Kind:        string(kind),
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
	}, "Upload complete")
}
