package transport

import (
	"sync"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

// DefaultHistorySize bounds the messages remembered per chat. Neither
// network lets a bot page through older history.
const DefaultHistorySize = 100

// History remembers the most recent messages seen in each chat.
type History struct {
	mu    sync.Mutex
	size  int
	chats map[model.ChatID][]plugin.MessageRef
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:  size,
		chats: make(map[model.ChatID][]plugin.MessageRef),
	}
}

func (h *History) Add(msg plugin.MessageRef) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := append(h.chats[msg.Chat], msg)
	if len(msgs) > h.size {
		msgs = append([]plugin.MessageRef(nil), msgs[len(msgs)-h.size:]...)
	}
	h.chats[msg.Chat] = msgs
}

// Forget drops a message, e.g. after it was deleted.
func (h *History) Forget(msg plugin.MessageRef) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := h.chats[msg.Chat]
	for i, m := range msgs {
		if m.ID == msg.ID {
			h.chats[msg.Chat] = append(msgs[:i:i], msgs[i+1:]...)
			return
		}
	}
}

// Recent returns up to limit messages of chat, newest first.
func (h *History) Recent(chat model.ChatID, limit int) []plugin.MessageRef {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := h.chats[chat]
	if limit <= 0 || limit > len(msgs) {
		limit = len(msgs)
	}

	out := make([]plugin.MessageRef, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out
}

// Clear forgets everything about chat.
func (h *History) Clear(chat model.ChatID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.chats, chat)
}
