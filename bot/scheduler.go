package bot

import (
	"sync"
	"time"

	"github.com/nexusdev/groupguard/model"
)

// Scheduler holds at most one delayed task per chat.
type Scheduler struct {
	mu      sync.Mutex
	pending map[model.ChatID]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[model.ChatID]*time.Timer)}
}

// Schedule runs fn after delay on its own goroutine. While a task is
// still pending for chat the new one is dropped and the pending one keeps
// its deadline; scheduled reports whether fn was queued.
func (s *Scheduler) Schedule(chat model.ChatID, delay time.Duration, fn func()) (scheduled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[chat]; ok {
		scheduledLeavesTotal.WithLabelValues("kept").Inc()
		return false
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.pending[chat] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.pending, chat)
		s.mu.Unlock()

		scheduledLeavesTotal.WithLabelValues("fired").Inc()
		fn()
	})
	s.pending[chat] = timer
	scheduledLeavesTotal.WithLabelValues("scheduled").Inc()

	return true
}

// Cancel drops the pending task for chat and reports whether there was one.
func (s *Scheduler) Cancel(chat model.ChatID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.pending[chat]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.pending, chat)
	scheduledLeavesTotal.WithLabelValues("cancelled").Inc()
	return true
}

func (s *Scheduler) Pending(chat model.ChatID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[chat]
	return ok
}

// Stop drops every pending task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chat, t := range s.pending {
		t.Stop()
		delete(s.pending, chat)
	}
}
