package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/personachat-backend/internal/http/handlers"
	httpMW "github.com/yungbote/personachat-backend/internal/http/middleware"
)

type RouterConfig struct {
	HealthHandler *httpH.HealthHandler
	UploadHandler *httpH.UploadHandler
	WSHandler     *httpH.WSHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.UploadHandler != nil {
			api.POST("/upload", cfg.UploadHandler.Upload)
		}
	}

	if cfg.WSHandler != nil {
		r.GET("/ws", cfg.WSHandler.Connect)
	}

	return r
}
