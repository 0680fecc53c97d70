package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

var errFake = errors.New("fake transport failure")

type sentMessage struct {
	chat     model.ChatID
	replyTo  string
	text     string
	mentions []model.Identity
	buttons  []plugin.Button
}

type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	deleted  []plugin.MessageRef
	left     []model.ChatID
	recent   map[model.ChatID][]plugin.MessageRef
	contacts map[model.Identity]string

	// deleteBudget fails every delete once exhausted; negative means unlimited
	deleteBudget int
	failLeave    bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		recent:       make(map[model.ChatID][]plugin.MessageRef),
		contacts:     make(map[model.Identity]string),
		deleteBudget: -1,
	}
}

func (f *fakeTransport) ResolveIdentity(_ context.Context, id model.Identity) (plugin.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return plugin.Contact{ID: id, Name: f.contacts[id]}, nil
}

func (f *fakeTransport) ListRecentMessages(_ context.Context, chat model.ChatID, limit int) ([]plugin.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.recent[chat]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakeTransport) NormalizeTarget(raw string) string {
	if strings.Contains(raw, "@") {
		return raw
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

func (f *fakeTransport) SendReply(_ context.Context, to plugin.MessageRef, text string, mentions []model.Identity, buttons []plugin.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chat: to.Chat, replyTo: to.ID, text: text, mentions: mentions, buttons: buttons})
	return nil
}

func (f *fakeTransport) SendToChat(_ context.Context, chat model.ChatID, text string, mentions []model.Identity, buttons []plugin.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chat: chat, text: text, mentions: mentions, buttons: buttons})
	return nil
}

func (f *fakeTransport) DeleteMessage(_ context.Context, msg plugin.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteBudget == 0 {
		return errFake
	}
	if f.deleteBudget > 0 {
		f.deleteBudget--
	}
	f.deleted = append(f.deleted, msg)
	return nil
}

func (f *fakeTransport) LeaveChat(_ context.Context, chat model.ChatID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLeave {
		return errFake
	}
	f.left = append(f.left, chat)
	return nil
}

func (f *fakeTransport) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func (f *fakeTransport) Left() []model.ChatID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ChatID(nil), f.left...)
}

func (f *fakeTransport) Deleted() []plugin.MessageRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]plugin.MessageRef(nil), f.deleted...)
}

// clock is an adjustable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(now time.Time) *clock {
	return &clock{now: now}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
