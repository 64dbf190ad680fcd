package repository

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/models"
	"github.com/mohammad-safakhou/scout/repository/inmemory"
	"github.com/mohammad-safakhou/scout/repository/redischat"
)

// ChatRepository stores conversation history keyed by chat id. Implementations
// make no durability or eviction promises; data may vanish on restart.
type ChatRepository interface {
	Get(ctx context.Context, id string) ([]models.ChatMessage, error)
	Append(ctx context.Context, id string, msg models.ChatMessage) error
	List(ctx context.Context) ([]string, error)
}

type Backend string

const (
	InMemoryBackend Backend = "inmemory"
	RedisBackend    Backend = "redis"
)

// NewChatRepository builds a repository for the configured backend.
func NewChatRepository(ctx context.Context, cfg config.StorageConfig) (ChatRepository, error) {
	switch Backend(cfg.Backend) {
	case InMemoryBackend, "":
		return inmemory.NewChatStore(), nil
	case RedisBackend:
		client, err := redischat.Conn(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
		if err != nil {
			return nil, err
		}
		return redischat.NewChatStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
