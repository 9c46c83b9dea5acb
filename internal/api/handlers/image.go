package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"image_media/internal/models"
	"image_media/internal/service"
)

// ImageHandler 處理圖片轉換與 QR code 相關的請求
type ImageHandler struct {
	imageService *service.ImageService
}

// NewImageHandler 創建一個新的 ImageHandler 實例
func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// TransformQuery 定義旋轉請求的查詢參數
type TransformQuery struct {
	Angle int `form:"angle,default=45"`
}

// QRLoadQuery 定義 QR code 來源的查詢參數
type QRLoadQuery struct {
	Option string `form:"option,default=original" binding:"oneof=original transformed"`
}

// TransformImage 旋轉圖片並保存新網址
func (h *ImageHandler) TransformImage(c *gin.Context) {
	var query TransformQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.imageService.Rotate(c.Request.Context(), c.Param("image_id"), query.Angle)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":               fmt.Sprintf("Image transformed and updated successfully. Rotated by %d degrees.", result.Angle),
		"transformed_image_url": result.URL,
	})
}

// GenerateQRCode 產生原圖網址的 QR code，上傳後保存其網址
func (h *ImageHandler) GenerateQRCode(c *gin.Context) {
	result, err := h.imageService.GenerateQR(c.Request.Context(), c.Param("image_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "QR Code generated and updated successfully for the original image.",
		"url_original_qr": result.URL,
	})
}

// LoadQRCode 直接回傳 QR code PNG
func (h *ImageHandler) LoadQRCode(c *gin.Context) {
	var query QRLoadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	png, err := h.imageService.RenderQR(c.Request.Context(), c.Param("image_id"), models.ImageSource(query.Option))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
