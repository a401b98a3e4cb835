package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/realtime"
	"github.com/yungbote/personachat-backend/internal/session"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Router   *gin.Engine
	Registry *session.Registry
	Hub      *realtime.Hub
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	registry := session.NewRegistry(log)
	hub := realtime.NewHub(log, registry.Evict)

	serviceset := wireServices(log, cfg, clients, registry, hub)
	handlerset := wireHandlers(log, cfg, serviceset, registry, hub)
	router := wireRouter(handlerset)

	return &App{
		Log:      log,
		Cfg:      cfg,
		Router:   router,
		Registry: registry,
		Hub:      hub,
		Services: serviceset,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
