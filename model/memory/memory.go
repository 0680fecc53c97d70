// Package memory keeps entitlements and rule books in process memory.
// Everything is lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/nexusdev/groupguard/model"
)

type Store struct {
	mu           sync.RWMutex
	entitlements map[model.ChatID]model.Entitlement
	rules        map[model.ChatID][]string
}

func New() *Store {
	return &Store{
		entitlements: make(map[model.ChatID]model.Entitlement),
		rules:        make(map[model.ChatID][]string),
	}
}

func (s *Store) GetEntitlement(_ context.Context, chat model.ChatID) (model.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entitlements[chat]
	if !ok {
		return model.Entitlement{}, model.ErrNotFound
	}
	return e, nil
}

func (s *Store) SaveEntitlement(_ context.Context, e model.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entitlements[e.ChatID] = e
	return nil
}

func (s *Store) AppendRule(_ context.Context, chat model.ChatID, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules[chat] = append(s.rules[chat], text)
	return len(s.rules[chat]), nil
}

func (s *Store) RemoveRule(_ context.Context, chat model.ChatID, position int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.rules[chat]
	if position < 1 || position > len(list) {
		return "", model.ErrOutOfRange
	}

	removed := list[position-1]
	s.rules[chat] = slices.Delete(list, position-1, position)
	return removed, nil
}

func (s *Store) ListRules(_ context.Context, chat model.ChatID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.rules[chat]), nil
}
