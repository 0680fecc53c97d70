package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/transport"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
)

var log = logger.New("whatsapp")

const groupTTL = 5 * time.Minute

var legacyGroupPattern = regexp.MustCompile(`^\d{5,}-\d{9,}$`)

// EventSink receives the events converted from WhatsApp events.
type EventSink interface {
	Submit(ctx context.Context, ev plugin.Event) error
}

type Adapter struct {
	client *whatsmeow.Client

	// network calls, replaced in tests
	selfJID   func() types.JID
	groupInfo func(ctx context.Context, jid types.JID) (*types.GroupInfo, error)
	contact   func(ctx context.Context, jid types.JID) (types.ContactInfo, error)

	history *transport.History
	groups  *transport.Cache[types.JID, *types.GroupInfo]

	mu      sync.RWMutex
	names   map[model.Identity]string
	buttons map[string]string

	ctx  context.Context
	sink EventSink
}

// New opens the device store at dbPath and prepares a client. A new
// device is paired by QR code on the first Run.
func New(ctx context.Context, dbPath string) (*Adapter, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir: %w", err)
		}
	}

	dbLog := waLog.Zerolog(log.With().Str("module", "store").Logger())
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", dbPath), dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	if device == nil {
		device = container.NewDevice()
	}

	client := whatsmeow.NewClient(device, waLog.Zerolog(log.With().Str("module", "client").Logger()))
	client.EnableAutoReconnect = true

	return newAdapter(client), nil
}

func newAdapter(client *whatsmeow.Client) *Adapter {
	a := &Adapter{
		client:  client,
		history: transport.NewHistory(transport.DefaultHistorySize),
		groups:  transport.NewCache[types.JID, *types.GroupInfo](groupTTL),
		names:   make(map[model.Identity]string),
		buttons: make(map[string]string),
		ctx:     context.Background(),
	}

	if client != nil {
		a.selfJID = func() types.JID {
			if client.Store.ID == nil {
				return types.EmptyJID
			}
			return client.Store.ID.ToNonAD()
		}
		a.groupInfo = client.GetGroupInfo
		a.contact = func(ctx context.Context, jid types.JID) (types.ContactInfo, error) {
			return client.Store.Contacts.GetContact(ctx, jid)
		}
	}
	return a
}

// Run connects, logging in by QR code when the device is new, and hands
// events to sink until ctx is done.
func (a *Adapter) Run(ctx context.Context, sink EventSink) error {
	if sink == nil {
		return errors.New("event sink is nil")
	}
	a.ctx = ctx
	a.sink = sink

	handlerID := a.client.AddEventHandler(a.handleEvent)
	defer a.client.RemoveEventHandler(handlerID)

	if a.client.Store.ID == nil {
		qrChan, err := a.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := a.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					log.Info().Str("code", evt.Code).Msg("Scan this QR code with WhatsApp to log in")
					continue
				}
				log.Info().Str("event", evt.Event).Msg("Login event")
			}
		}()
	} else if err := a.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	<-ctx.Done()
	a.client.Disconnect()
	return nil
}

func (a *Adapter) self() model.Identity {
	if a.selfJID == nil {
		return ""
	}
	jid := a.selfJID()
	if jid.IsEmpty() {
		return ""
	}
	return identity(jid)
}

func (a *Adapter) rememberName(id model.Identity, name string) {
	if name == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names[id] = name
}

func (a *Adapter) ResolveIdentity(ctx context.Context, id model.Identity) (plugin.Contact, error) {
	a.mu.RLock()
	name, ok := a.names[id]
	a.mu.RUnlock()
	if ok {
		return plugin.Contact{ID: id, Name: name}, nil
	}

	jid, err := types.ParseJID(id.String())
	if err != nil {
		return plugin.Contact{ID: id}, err
	}
	if a.contact == nil {
		return plugin.Contact{ID: id}, nil
	}

	info, err := a.contact(ctx, jid)
	if err != nil {
		return plugin.Contact{ID: id}, err
	}
	name = info.FullName
	if name == "" {
		name = info.PushName
	}
	a.rememberName(id, name)
	return plugin.Contact{ID: id, Name: name}, nil
}

func (a *Adapter) ListRecentMessages(_ context.Context, chat model.ChatID, limit int) ([]plugin.MessageRef, error) {
	return a.history.Recent(chat, limit), nil
}

// NormalizeTarget turns a phone number or group id into a JID. Group ids
// are either creator-timestamp pairs or at least 18 digits long.
func (a *Adapter) NormalizeTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "@") {
		user, server, _ := strings.Cut(strings.TrimPrefix(raw, "@"), "@")
		switch server {
		case "":
			raw = user
		case "c.us":
			return types.NewJID(user, types.DefaultUserServer).String()
		default:
			jid, err := types.ParseJID(user + "@" + server)
			if err != nil {
				return ""
			}
			return jid.String()
		}
	}

	compact := strings.NewReplacer(" ", "", "+", "").Replace(raw)
	if legacyGroupPattern.MatchString(compact) {
		return types.NewJID(compact, types.GroupServer).String()
	}

	var sb strings.Builder
	for _, r := range compact {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	user := sb.String()
	if user == "" {
		return ""
	}

	if len(user) >= 18 {
		return types.NewJID(user, types.GroupServer).String()
	}
	return types.NewJID(user, types.DefaultUserServer).String()
}

func identity(jid types.JID) model.Identity {
	return model.Identity(jid.ToNonAD().String())
}

func chatID(jid types.JID) model.ChatID {
	return model.ChatID(jid.ToNonAD().String())
}
