package app

import (
	"fmt"

	"github.com/yungbote/personachat-backend/internal/clients/groq"
	"github.com/yungbote/personachat-backend/internal/clients/mistral"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
)

type Clients struct {
	Chat  groq.Client
	Embed mistral.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	chat, err := groq.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init groq client: %w", err)
	}
	embed, err := mistral.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init mistral client: %w", err)
	}

	return Clients{Chat: chat, Embed: embed}, nil
}
