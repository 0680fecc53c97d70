package telegram

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

const (
	chatTypeGroup      = "group"
	chatTypeSupergroup = "supergroup"

	statusCreator       = "creator"
	statusAdministrator = "administrator"

	entityMention     = "mention"
	entityTextMention = "text_mention"
)

func (a *Adapter) convert(ctx *ext.Context) []plugin.Event {
	if ctx.CallbackQuery != nil {
		return a.onCallback(ctx.CallbackQuery)
	}
	if ctx.Message == nil {
		return nil
	}
	return a.onMessage(ctx.Message)
}

func (a *Adapter) onMessage(msg *gotgbot.Message) []plugin.Event {
	chat := chatID(msg.Chat.Id)

	if msg.From != nil {
		a.rememberUser(*msg.From)
		a.rememberMember(chat, identity(msg.From.Id))
	}

	switch {
	case len(msg.NewChatMembers) > 0:
		a.rosters.Invalidate(msg.Chat.Id)
		info := a.chatInfo(msg.Chat)
		events := make([]plugin.Event, 0, len(msg.NewChatMembers))
		for _, u := range msg.NewChatMembers {
			a.rememberUser(u)
			a.rememberMember(chat, identity(u.Id))
			events = append(events, plugin.JoinEvent{Chat: info, Self: a.self, Member: identity(u.Id)})
		}
		return events

	case msg.LeftChatMember != nil:
		member := identity(msg.LeftChatMember.Id)
		a.forgetMember(chat, member)
		if member == a.self {
			a.history.Clear(chat)
			a.rosters.Invalidate(msg.Chat.Id)
			return nil
		}
		a.rosters.Invalidate(msg.Chat.Id)
		return []plugin.Event{plugin.LeaveEvent{Chat: a.chatInfo(msg.Chat), Self: a.self, Member: member}}
	}

	ref := plugin.MessageRef{
		ID:   strconv.FormatInt(msg.MessageId, 10),
		Chat: chat,
	}
	if msg.From != nil {
		ref.Sender = identity(msg.From.Id)
	}
	a.history.Add(ref)

	body, entities := msg.Text, msg.Entities
	if body == "" {
		body, entities = msg.Caption, msg.CaptionEntities
	}
	if body == "" || msg.From == nil {
		return nil
	}

	return []plugin.Event{plugin.MessageEvent{
		Chat:       a.chatInfo(msg.Chat),
		Sender:     ref.Sender,
		SenderName: strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		Self:       a.self,
		Message:    ref,
		Body:       body,
		Mentions:   a.mentions(body, entities),
		FromSelf:   ref.Sender == a.self,
	}}
}

func (a *Adapter) onCallback(cq *gotgbot.CallbackQuery) []plugin.Event {
	if cq.Message == nil || cq.Data == "" {
		return nil
	}
	a.rememberUser(cq.From)

	chat := cq.Message.GetChat()
	return []plugin.Event{plugin.ButtonEvent{
		Chat:   a.chatInfo(chat),
		Sender: identity(cq.From.Id),
		Self:   a.self,
		Message: plugin.MessageRef{
			ID:   strconv.FormatInt(cq.Message.GetMessageId(), 10),
			Chat: chatID(chat.Id),
		},
		ButtonID: cq.Data,
	}}
}

// mentions resolves mention entities. Entity offsets count UTF-16 code units.
func (a *Adapter) mentions(text string, entities []gotgbot.MessageEntity) []model.Identity {
	var out []model.Identity
	units := utf16.Encode([]rune(text))

	for _, e := range entities {
		switch e.Type {
		case entityTextMention:
			if e.User != nil {
				a.rememberUser(*e.User)
				out = append(out, identity(e.User.Id))
			}
		case entityMention:
			start, end := int(e.Offset), int(e.Offset+e.Length)
			if start < 0 || end > len(units) || start >= end {
				continue
			}
			username := string(utf16.Decode(units[start:end]))
			if id, ok := a.lookupUsername(username); ok {
				out = append(out, id)
			}
		}
	}
	return out
}

func (a *Adapter) chatInfo(chat gotgbot.Chat) plugin.ChatInfo {
	info := plugin.ChatInfo{
		ID:      chatID(chat.Id),
		Name:    chatName(chat),
		IsGroup: chat.Type == chatTypeGroup || chat.Type == chatTypeSupergroup,
	}
	if !info.IsGroup {
		return info
	}

	r, ok := a.rosters.Get(chat.Id)
	if !ok {
		var err error
		r, err = a.fetchRoster(chat.Id)
		if err != nil {
			log.Err(err).Int64("chat_id", chat.Id).Msg("Failed to fetch chat administrators")
			return info
		}
		a.rosters.Put(chat.Id, r)
	}

	info.Participants = append(info.Participants, r.admins...)
	info.MemberCount = r.count

	a.mu.RLock()
	defer a.mu.RUnlock()
	for id := range a.seen[info.ID] {
		if !r.isAdmin(id) {
			info.Participants = append(info.Participants, plugin.Participant{ID: id, Name: a.names[id]})
		}
	}
	return info
}

func (a *Adapter) fetchRoster(chatId int64) (roster, error) {
	members, err := a.bot.GetChatAdministrators(chatId, nil)
	if err != nil {
		return roster{}, err
	}
	count, err := a.bot.GetChatMemberCount(chatId, nil)
	if err != nil {
		return roster{}, err
	}

	admins := participantsFromMembers(members)
	for _, m := range members {
		a.rememberUser(m.GetUser())
	}
	return roster{admins: admins, count: int(count)}, nil
}

func participantsFromMembers(members []gotgbot.ChatMember) []plugin.Participant {
	participants := make([]plugin.Participant, 0, len(members))
	for _, m := range members {
		u := m.GetUser()
		p := plugin.Participant{
			ID:   identity(u.Id),
			Name: strings.TrimSpace(u.FirstName + " " + u.LastName),
		}
		switch m.GetStatus() {
		case statusCreator:
			p.IsSuperAdmin = true
		case statusAdministrator:
			p.IsAdmin = true
		}
		participants = append(participants, p)
	}
	return participants
}

func chatName(chat gotgbot.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return strings.TrimSpace(chat.FirstName + " " + chat.LastName)
}
