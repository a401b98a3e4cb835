package app

import (
	"github.com/yungbote/personachat-backend/internal/modules/persona"
	"github.com/yungbote/personachat-backend/internal/modules/persona/steps"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/realtime"
	"github.com/yungbote/personachat-backend/internal/services"
	"github.com/yungbote/personachat-backend/internal/session"
	"github.com/yungbote/personachat-backend/internal/vector"
)

type Services struct {
	Pipeline *persona.Pipeline
	Primer   *services.PrimerService
	Gateway  *services.GatewayService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, registry *session.Registry, hub *realtime.Hub) Services {
	log.Info("Wiring services...")

	pipeline := persona.New(steps.Deps{
		Log:  log,
		Chat: clients.Chat,
		NewIndex: func() (vector.Store, error) {
			return vector.NewMemoryStore(log, clients.Embed)
		},
		Notify:          &services.HubNotifier{Hub: hub},
		BatchSize:       cfg.IndexBatchSize,
		Concurrency:     cfg.IndexConcurrency,
		InterBatchDelay: cfg.IndexInterBatchDelay,
		RetryAttempts:   cfg.IndexRetryAttempts,
		RetryBackoff:    cfg.IndexRetryBackoff,
	})

	primer := services.NewPrimerService(log, pipeline, hub)
	gateway := services.NewGatewayService(log, registry, pipeline, hub)

	return Services{
		Pipeline: pipeline,
		Primer:   primer,
		Gateway:  gateway,
	}
}
