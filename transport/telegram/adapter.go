package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/transport"
)

var log = logger.New("telegram")

const rosterTTL = 5 * time.Minute

// EventSink receives the events converted from Telegram updates.
type EventSink interface {
	Submit(ctx context.Context, ev plugin.Event) error
}

type Adapter struct {
	bot     *gotgbot.Bot
	self    model.Identity
	history *transport.History
	rosters *transport.Cache[int64, roster]

	mu        sync.RWMutex
	names     map[model.Identity]string
	usernames map[string]model.Identity
	seen      map[model.ChatID]map[model.Identity]struct{}

	ctx  context.Context
	sink EventSink
}

func New(token string) (*Adapter, error) {
	b, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newAdapter(b), nil
}

func newAdapter(b *gotgbot.Bot) *Adapter {
	a := &Adapter{
		bot:       b,
		self:      identity(b.Id),
		history:   transport.NewHistory(transport.DefaultHistorySize),
		rosters:   transport.NewCache[int64, roster](rosterTTL),
		names:     make(map[model.Identity]string),
		usernames: make(map[string]model.Identity),
		seen:      make(map[model.ChatID]map[model.Identity]struct{}),
		ctx:       context.Background(),
	}
	a.rememberUser(b.User)
	return a
}

// Self is the identity of the bot account.
func (a *Adapter) Self() model.Identity {
	return a.self
}

// Run polls for updates and hands them to sink until ctx is done.
func (a *Adapter) Run(ctx context.Context, sink EventSink) error {
	if sink == nil {
		return errors.New("event sink is nil")
	}
	a.ctx = ctx
	a.sink = sink

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Processor: a,
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Err(err).Msg("Error while processing update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	err := updater.StartPolling(a.bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
			},
			AllowedUpdates: []string{"message", "callback_query"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	log.Info().Msgf("Logged in as @%s (%d)", a.bot.Username, a.bot.Id)

	<-ctx.Done()
	return updater.Stop()
}

func (a *Adapter) ProcessUpdate(_ *ext.Dispatcher, b *gotgbot.Bot, ctx *ext.Context) error {
	events := a.convert(ctx)
	for _, ev := range events {
		if err := a.sink.Submit(a.ctx, ev); err != nil {
			return err
		}
	}

	if ctx.CallbackQuery != nil {
		_, err := ctx.CallbackQuery.Answer(b, nil)
		return err
	}
	return nil
}

func (a *Adapter) rememberUser(u gotgbot.User) {
	id := identity(u.Id)
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)

	a.mu.Lock()
	defer a.mu.Unlock()
	if name != "" {
		a.names[id] = name
	}
	if u.Username != "" {
		a.usernames[strings.ToLower(u.Username)] = id
	}
}

func (a *Adapter) rememberMember(chat model.ChatID, id model.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	members, ok := a.seen[chat]
	if !ok {
		members = make(map[model.Identity]struct{})
		a.seen[chat] = members
	}
	members[id] = struct{}{}
}

func (a *Adapter) forgetMember(chat model.ChatID, id model.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.seen[chat], id)
}

func (a *Adapter) displayName(id model.Identity) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if name, ok := a.names[id]; ok {
		return name
	}
	return id.String()
}

func (a *Adapter) lookupUsername(username string) (model.Identity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.usernames[strings.ToLower(strings.TrimPrefix(username, "@"))]
	return id, ok
}

func (a *Adapter) ResolveIdentity(_ context.Context, id model.Identity) (plugin.Contact, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return plugin.Contact{ID: id, Name: a.names[id]}, nil
}

func (a *Adapter) ListRecentMessages(_ context.Context, chat model.ChatID, limit int) ([]plugin.MessageRef, error) {
	return a.history.Recent(chat, limit), nil
}

// NormalizeTarget accepts numeric chat ids and @usernames seen before.
func (a *Adapter) NormalizeTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		id, _ := a.lookupUsername(raw)
		return id.String()
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return ""
	}
	return raw
}

func identity(id int64) model.Identity {
	return model.Identity(strconv.FormatInt(id, 10))
}

func chatID(id int64) model.ChatID {
	return model.ChatID(strconv.FormatInt(id, 10))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram id %q: %w", s, err)
	}
	return id, nil
}
