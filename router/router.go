package router

import (
	"GoVault/internal/handler"
	"GoVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds page, form and API routes.
func InitRouter(h *handler.Handler) *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob("web/templates/*.html")

	r.GET("/", h.ShowHome)
	r.GET("/signup", h.ShowSignup)
	r.POST("/signup", h.Signup)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)

	auth := r.Group("")
	auth.Use(h.SessionMiddleware())
	{
		auth.POST("/logout", h.Logout)
		auth.GET("/files", h.ListFiles)
		auth.POST("/files", h.UploadFile)
		auth.GET("/files/:id", h.DownloadFile)
		auth.DELETE("/files/:id", h.DeleteFile)
		auth.POST("/files/:id/delete", h.DeleteFile)
	}

	api := r.Group("/api")
	api.Use(utils.CORSMiddleware())
	{
		api.POST("/signup", h.APISignup)
		api.POST("/login", h.APILogin)

		apiAuth := api.Group("")
		apiAuth.Use(utils.AuthMiddleware())
		{
			apiAuth.POST("/logout", h.Logout)
			apiAuth.GET("/files", h.ListFiles)
			apiAuth.POST("/files", h.UploadFile)
			apiAuth.GET("/files/:id", h.DownloadFile)
			apiAuth.DELETE("/files/:id", h.DeleteFile)
		}
	}
	return r
}
