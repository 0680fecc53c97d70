package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

// render replaces identity mention tokens with the @number form WhatsApp
// links, and lists the buttons as labels to type back.
func render(text string, mentions []model.Identity, buttons []plugin.Button) (string, []string) {
	jids := make([]string, 0, len(mentions))
	for _, id := range mentions {
		jid, err := types.ParseJID(id.String())
		if err != nil {
			continue
		}
		text = strings.ReplaceAll(text, utils.Mention(id), "@"+jid.User)
		jids = append(jids, jid.String())
	}

	if len(buttons) > 0 {
		labels := make([]string, 0, len(buttons))
		for _, b := range buttons {
			labels = append(labels, fmt.Sprintf("*%s*", b.Label))
		}
		text += "\n\nKetik " + strings.Join(labels, " atau ") + "."
	}
	return text, jids
}

func textMessage(text string, mentions []string, quoted *plugin.MessageRef) *waE2E.Message {
	var contextInfo *waE2E.ContextInfo
	if len(mentions) > 0 || quoted != nil {
		contextInfo = &waE2E.ContextInfo{MentionedJID: mentions}
	}
	if quoted != nil {
		contextInfo.StanzaID = proto.String(quoted.ID)
		if quoted.Sender != "" {
			contextInfo.Participant = proto.String(quoted.Sender.String())
		}
		contextInfo.QuotedMessage = &waE2E.Message{Conversation: proto.String("")}
	}

	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text:        proto.String(text),
			ContextInfo: contextInfo,
		},
	}
}

func (a *Adapter) send(ctx context.Context, chat model.ChatID, msg *waE2E.Message) error {
	jid, err := types.ParseJID(chat.String())
	if err != nil {
		return fmt.Errorf("invalid chat %q: %w", chat, err)
	}

	resp, err := a.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return err
	}
	a.history.Add(plugin.MessageRef{ID: resp.ID, Chat: chat, Sender: a.self()})
	return nil
}

func (a *Adapter) SendReply(ctx context.Context, to plugin.MessageRef, text string, mentions []model.Identity, buttons []plugin.Button) error {
	body, jids := render(text, mentions, buttons)
	a.rememberButtons(buttons)
	return a.send(ctx, to.Chat, textMessage(body, jids, &to))
}

func (a *Adapter) SendToChat(ctx context.Context, chat model.ChatID, text string, mentions []model.Identity, buttons []plugin.Button) error {
	body, jids := render(text, mentions, buttons)
	a.rememberButtons(buttons)
	return a.send(ctx, chat, textMessage(body, jids, nil))
}

// DeleteMessage revokes msg for everyone. Messages of other members can
// only be revoked while the bot is a group admin.
func (a *Adapter) DeleteMessage(ctx context.Context, msg plugin.MessageRef) error {
	chat, err := types.ParseJID(msg.Chat.String())
	if err != nil {
		return fmt.Errorf("invalid chat %q: %w", msg.Chat, err)
	}

	sender := types.EmptyJID
	if msg.Sender != "" && msg.Sender != a.self() {
		sender, err = types.ParseJID(msg.Sender.String())
		if err != nil {
			return fmt.Errorf("invalid sender %q: %w", msg.Sender, err)
		}
	}

	if _, err := a.client.SendMessage(ctx, chat, a.client.BuildRevoke(chat, sender, msg.ID)); err != nil {
		return err
	}
	a.history.Forget(msg)
	return nil
}

func (a *Adapter) LeaveChat(ctx context.Context, chat model.ChatID) error {
	jid, err := types.ParseJID(chat.String())
	if err != nil {
		return fmt.Errorf("invalid chat %q: %w", chat, err)
	}

	if err := a.client.LeaveGroup(ctx, jid); err != nil {
		return err
	}
	a.groups.Invalidate(jid)
	a.history.Clear(chat)
	return nil
}
