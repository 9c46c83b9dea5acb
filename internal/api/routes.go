package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"image_media/internal/api/handlers"
	"image_media/internal/middleware"
	"image_media/internal/service"
)

const healthPath = "/api/health"

// NewRouter 建立已掛上中間件與路由的 gin 引擎
func NewRouter(services *service.Services) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(healthPath), gin.Recovery())
	SetupRoutes(r, services)
	return r
}

func SetupRoutes(r *gin.Engine, services *service.Services) {
	imageHandler := handlers.NewImageHandler(services.Image)

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found.",
		})
	})

	// 基本的健康檢查
	r.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Cloudinary 圖片操作
	cloud := r.Group("/cloudinary")
	{
		cloud.GET("/transformed_image/:image_id", imageHandler.TransformImage) // 旋轉圖片
		cloud.GET("/qr_codes_image/:image_id", imageHandler.GenerateQRCode)    // 產生並上傳 QR code
		cloud.GET("/qr_load/:image_id", imageHandler.LoadQRCode)               // 直接回傳 QR code
	}
}
