package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/mohammad-safakhou/scout/models"
)

// ChatStore keeps conversations in process memory. Volatile by design.
type ChatStore struct {
	chats map[string][]models.ChatMessage
	mu    sync.RWMutex
}

func NewChatStore() *ChatStore {
	return &ChatStore{chats: make(map[string][]models.ChatMessage)}
}

func (s *ChatStore) Get(ctx context.Context, id string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.chats[id]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *ChatStore) Append(ctx context.Context, id string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[id] = append(s.chats[id], msg)
	return nil
}

func (s *ChatStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
