package app

import (
	"github.com/gin-gonic/gin"

	httpR "github.com/yungbote/personachat-backend/internal/http"
	httpH "github.com/yungbote/personachat-backend/internal/http/handlers"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/realtime"
	"github.com/yungbote/personachat-backend/internal/session"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Upload *httpH.UploadHandler
	WS     *httpH.WSHandler
}

func wireHandlers(log *logger.Logger, cfg Config, svcs Services, registry *session.Registry, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Upload: httpH.NewUploadHandler(log, registry, svcs.Primer, cfg.MaxUploadBytes),
		WS:     httpH.NewWSHandler(log, svcs.Gateway, hub),
	}
}

func wireRouter(handlers Handlers) *gin.Engine {
	return httpR.NewRouter(httpR.RouterConfig{
		HealthHandler: handlers.Health,
		UploadHandler: handlers.Upload,
		WSHandler:     handlers.WS,
	})
}
