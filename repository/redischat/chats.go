package redischat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/scout/models"
)

const chatKeyPrefix = "chat:"

// ChatStore implements the chat repository on Redis. Each chat is one key
// holding the JSON-encoded message list.
type ChatStore struct {
	client *redis.Client
}

func NewChatStore(client *redis.Client) *ChatStore {
	return &ChatStore{client: client}
}

func (s *ChatStore) Get(ctx context.Context, id string) ([]models.ChatMessage, error) {
	val, err := s.client.Get(ctx, chatKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrChatNotFound
		}
		return nil, err
	}

	var msgs []models.ChatMessage
	if err := json.Unmarshal([]byte(val), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *ChatStore) Append(ctx context.Context, id string, msg models.ChatMessage) error {
	key := chatKeyPrefix + id

	msgs, err := s.Get(ctx, id)
	if err != nil && !errors.Is(err, models.ErrChatNotFound) {
		return err
	}
	msgs = append(msgs, msg)

	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *ChatStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, chatKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(chatKeyPrefix):])
	}
	return ids, nil
}
