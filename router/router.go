package router

import (
	"FileVault/internal/handler"
	"FileVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
	r.GET("/health", handler.Health)

	files := r.Group("/files")
	files.Use(utils.AuthMiddleware())
	{
		files.GET("/list", handler.ListFiles)
		files.POST("/upload-multiple", handler.UploadMultiple)
		files.POST("/download-multiple", handler.DownloadMultiple)
	}

	return r
}
