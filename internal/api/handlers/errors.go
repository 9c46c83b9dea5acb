package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"image_media/internal/middleware"
	"image_media/internal/service"
)

// ImageNotFoundMessage 是所有找不到圖片情況的固定訊息
const ImageNotFoundMessage = "Image not found."

// respondError 將服務層錯誤轉成 HTTP 狀態碼
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error."
	switch {
	case errors.Is(err, service.ErrImageNotFound):
		status, message = http.StatusNotFound, ImageNotFoundMessage
	case errors.Is(err, service.ErrRemoteService):
		status, message = http.StatusBadGateway, "Remote media service failed."
	case errors.Is(err, service.ErrStaleRecord):
		status, message = http.StatusConflict, "Image was modified by another request."
	case errors.Is(err, service.ErrEncoding):
		status, message = http.StatusInternalServerError, "Failed to generate QR code."
	}

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.Log(c.Request.Context(), level, "request failed",
		"request_id", middleware.RequestIDFrom(c),
		"path", c.FullPath(),
		"status", status,
		"error", err)

	c.JSON(status, gin.H{"error": message})
}
