package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
)

var (
	boldPattern    = regexp.MustCompile(`\*([^*\n]+)\*`)
	codePattern    = regexp.MustCompile("`([^`\n]+)`")
	mentionPattern = regexp.MustCompile(`@(-?\d+)`)
)

// render turns the WhatsApp flavoured markup of the bot texts into
// Telegram HTML and links the mentioned users.
func (a *Adapter) render(text string, mentions []model.Identity) string {
	out := utils.Escape(text)
	out = codePattern.ReplaceAllString(out, "<code>$1</code>")
	out = boldPattern.ReplaceAllString(out, "<b>$1</b>")

	if len(mentions) == 0 {
		return out
	}

	mentioned := make(map[model.Identity]bool, len(mentions))
	for _, id := range mentions {
		mentioned[id] = true
	}

	return mentionPattern.ReplaceAllStringFunc(out, func(token string) string {
		id := model.Identity(token[1:])
		if !mentioned[id] {
			return token
		}
		return fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, id, utils.Escape(a.displayName(id)))
	})
}

func sendOptions(buttons []plugin.Button) *gotgbot.SendMessageOpts {
	opts := &gotgbot.SendMessageOpts{
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
		ParseMode: gotgbot.ParseModeHTML,
	}
	if len(buttons) > 0 {
		opts.ReplyMarkup = keyboard(buttons)
	}
	return opts
}

// keyboard puts every button on its own row.
func keyboard(buttons []plugin.Button) gotgbot.InlineKeyboardMarkup {
	rows := make([][]gotgbot.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []gotgbot.InlineKeyboardButton{{
			Text:         b.Label,
			CallbackData: b.ID,
		}})
	}
	return gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (a *Adapter) SendReply(_ context.Context, to plugin.MessageRef, text string, mentions []model.Identity, buttons []plugin.Button) error {
	chatId, err := parseID(to.Chat.String())
	if err != nil {
		return err
	}

	opts := sendOptions(buttons)
	if msgId, err := strconv.ParseInt(to.ID, 10, 64); err == nil {
		opts.ReplyParameters = &gotgbot.ReplyParameters{
			MessageId:                msgId,
			AllowSendingWithoutReply: true,
		}
	}

	sent, err := a.bot.SendMessage(chatId, a.render(text, mentions), opts)
	if err != nil {
		return err
	}
	a.recordSent(sent)
	return nil
}

func (a *Adapter) SendToChat(_ context.Context, chat model.ChatID, text string, mentions []model.Identity, buttons []plugin.Button) error {
	chatId, err := parseID(chat.String())
	if err != nil {
		return err
	}

	sent, err := a.bot.SendMessage(chatId, a.render(text, mentions), sendOptions(buttons))
	if err != nil {
		return err
	}
	a.recordSent(sent)
	return nil
}

func (a *Adapter) DeleteMessage(_ context.Context, msg plugin.MessageRef) error {
	chatId, err := parseID(msg.Chat.String())
	if err != nil {
		return err
	}
	msgId, err := parseID(msg.ID)
	if err != nil {
		return err
	}

	if _, err := a.bot.DeleteMessage(chatId, msgId, nil); err != nil {
		return err
	}
	a.history.Forget(msg)
	return nil
}

func (a *Adapter) LeaveChat(_ context.Context, chat model.ChatID) error {
	chatId, err := parseID(chat.String())
	if err != nil {
		return err
	}

	if _, err := a.bot.LeaveChat(chatId, nil); err != nil {
		return err
	}
	a.history.Clear(chat)
	a.rosters.Invalidate(chatId)
	return nil
}

func (a *Adapter) recordSent(msg *gotgbot.Message) {
	if msg == nil {
		return
	}
	a.history.Add(plugin.MessageRef{
		ID:     strconv.FormatInt(msg.MessageId, 10),
		Chat:   chatID(msg.Chat.Id),
		Sender: a.self,
	})
}
