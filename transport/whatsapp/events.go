package whatsapp

import (
	"context"
	"strings"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

func (a *Adapter) handleEvent(evt any) {
	for _, ev := range a.convert(a.ctx, evt) {
		if err := a.sink.Submit(a.ctx, ev); err != nil {
			log.Err(err).Msg("Failed to submit event")
			return
		}
	}
}

func (a *Adapter) convert(ctx context.Context, evt any) []plugin.Event {
	switch v := evt.(type) {
	case *events.Connected:
		log.Info().Str("self", a.self().String()).Msg("Connected to WhatsApp")
	case *events.LoggedOut:
		log.Warn().Msg("Logged out, the device has to be paired again")
	case *events.Message:
		return a.onMessage(ctx, v)
	case *events.GroupInfo:
		return a.onGroupInfo(ctx, v)
	case *events.JoinedGroup:
		return a.onJoinedGroup(v)
	}
	return nil
}

func (a *Adapter) onMessage(ctx context.Context, v *events.Message) []plugin.Event {
	if v.Info.Chat.Server == types.BroadcastServer {
		return nil
	}

	chat := chatID(v.Info.Chat)
	sender := identity(v.Info.Sender)
	a.rememberName(sender, v.Info.PushName)

	ref := plugin.MessageRef{ID: v.Info.ID, Chat: chat, Sender: sender}
	a.history.Add(ref)

	info, err := a.chatInfo(ctx, v.Info.Chat, v.Info.IsGroup, v.Info.PushName)
	if err != nil {
		log.Err(err).Str("chat_id", chat.String()).Msg("Failed to get group info")
	}

	if buttonID := selectedButton(v.Message); buttonID != "" {
		return []plugin.Event{plugin.ButtonEvent{
			Chat:     info,
			Sender:   sender,
			Self:     a.self(),
			Message:  ref,
			ButtonID: buttonID,
		}}
	}

	body := messageText(v.Message)
	if body == "" {
		return nil
	}

	if buttonID, ok := a.buttonForLabel(body); ok {
		return []plugin.Event{plugin.ButtonEvent{
			Chat:     info,
			Sender:   sender,
			Self:     a.self(),
			Message:  ref,
			ButtonID: buttonID,
		}}
	}

	return []plugin.Event{plugin.MessageEvent{
		Chat:       info,
		Sender:     sender,
		SenderName: v.Info.PushName,
		Self:       a.self(),
		Message:    ref,
		Body:       body,
		Mentions:   mentionedIdentities(v.Message),
		FromSelf:   v.Info.IsFromMe,
	}}
}

func (a *Adapter) onGroupInfo(ctx context.Context, v *events.GroupInfo) []plugin.Event {
	if len(v.Join) == 0 && len(v.Leave) == 0 {
		if v.Name != nil || len(v.Promote) > 0 || len(v.Demote) > 0 {
			a.groups.Invalidate(v.JID)
		}
		return nil
	}

	a.groups.Invalidate(v.JID)
	self := a.self()

	var out []plugin.Event
	if len(v.Join) > 0 {
		info, err := a.chatInfo(ctx, v.JID, true, "")
		if err != nil {
			log.Err(err).Str("chat_id", v.JID.String()).Msg("Failed to get group info")
		}
		for _, jid := range v.Join {
			out = append(out, plugin.JoinEvent{Chat: info, Self: self, Member: identity(jid)})
		}
	}

	for _, jid := range v.Leave {
		member := identity(jid)
		if member == self {
			a.history.Clear(chatID(v.JID))
			continue
		}
		info, _ := a.groups.Get(v.JID)
		out = append(out, plugin.LeaveEvent{Chat: groupChatInfo(v.JID, info), Self: self, Member: member})
	}
	return out
}

// onJoinedGroup reports the bot itself being added to a group.
func (a *Adapter) onJoinedGroup(v *events.JoinedGroup) []plugin.Event {
	info := v.GroupInfo
	a.groups.Put(info.JID, &info)
	self := a.self()
	return []plugin.Event{plugin.JoinEvent{Chat: groupChatInfo(info.JID, &info), Self: self, Member: self}}
}

func (a *Adapter) chatInfo(ctx context.Context, jid types.JID, isGroup bool, pushName string) (plugin.ChatInfo, error) {
	if !isGroup {
		return plugin.ChatInfo{ID: chatID(jid), Name: pushName}, nil
	}

	info, ok := a.groups.Get(jid)
	if !ok && a.groupInfo != nil {
		var err error
		info, err = a.groupInfo(ctx, jid)
		if err != nil {
			return groupChatInfo(jid, nil), err
		}
		a.groups.Put(jid, info)
	}

	chat := groupChatInfo(jid, info)
	if info != nil {
		for _, p := range info.Participants {
			a.rememberName(identity(p.JID), p.DisplayName)
		}
	}
	return chat, nil
}

func groupChatInfo(jid types.JID, info *types.GroupInfo) plugin.ChatInfo {
	chat := plugin.ChatInfo{ID: chatID(jid), IsGroup: true}
	if info == nil {
		return chat
	}

	chat.Name = info.GroupName.Name
	chat.CreatedAt = info.GroupCreated
	chat.Participants = make([]plugin.Participant, 0, len(info.Participants))
	for _, p := range info.Participants {
		chat.Participants = append(chat.Participants, plugin.Participant{
			ID:           identity(p.JID),
			Name:         p.DisplayName,
			IsAdmin:      p.IsAdmin,
			IsSuperAdmin: p.IsSuperAdmin,
		})
	}
	return chat
}

func messageText(msg *waE2E.Message) string {
	switch {
	case msg.GetConversation() != "":
		return msg.GetConversation()
	case msg.GetExtendedTextMessage().GetText() != "":
		return msg.GetExtendedTextMessage().GetText()
	case msg.GetImageMessage().GetCaption() != "":
		return msg.GetImageMessage().GetCaption()
	case msg.GetVideoMessage().GetCaption() != "":
		return msg.GetVideoMessage().GetCaption()
	case msg.GetDocumentMessage().GetCaption() != "":
		return msg.GetDocumentMessage().GetCaption()
	}
	return ""
}

func selectedButton(msg *waE2E.Message) string {
	if id := msg.GetButtonsResponseMessage().GetSelectedButtonID(); id != "" {
		return id
	}
	return msg.GetTemplateButtonReplyMessage().GetSelectedID()
}

func mentionedIdentities(msg *waE2E.Message) []model.Identity {
	var jids []string
	switch {
	case msg.GetExtendedTextMessage() != nil:
		jids = msg.GetExtendedTextMessage().GetContextInfo().GetMentionedJID()
	case msg.GetImageMessage() != nil:
		jids = msg.GetImageMessage().GetContextInfo().GetMentionedJID()
	case msg.GetVideoMessage() != nil:
		jids = msg.GetVideoMessage().GetContextInfo().GetMentionedJID()
	}

	var out []model.Identity
	for _, s := range jids {
		jid, err := types.ParseJID(s)
		if err != nil {
			continue
		}
		out = append(out, identity(jid))
	}
	return out
}

func (a *Adapter) rememberButtons(buttons []plugin.Button) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range buttons {
		a.buttons[strings.ToLower(b.Label)] = b.ID
	}
}

// buttonForLabel maps a typed button label back to its button. WhatsApp
// accounts without business API access cannot send real buttons.
func (a *Adapter) buttonForLabel(body string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.buttons[strings.ToLower(strings.TrimSpace(body))]
	return id, ok
}
