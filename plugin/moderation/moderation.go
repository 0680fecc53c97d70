package moderation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
)

var log = logger.New("moderation")

const (
	textDeniedAdminOnly = "❌ *Akses Ditolak:* Perintah ini hanya untuk Admin grup."
	textDeniedClearChat = "❌ *Akses Ditolak:* Perintah ini hanya untuk Admin grup, dan Bot harus menjadi Admin."
	textClearChatDone   = "✅ *Berhasil:* %d pesan terakhir telah dihapus oleh Admin/Bot."
	textClearChatFailed = "❌ *Gagal:* Bot mungkin tidak memiliki hak admin untuk menghapus pesan anggota lain atau terjadi kesalahan API."
	textTagAllDefault   = "Pesan dari Admin/Owner grup."
)

type (
	Plugin struct {
		keywords         []string
		clearChatDefault int
		clearChatMax     int
	}

	Options struct {
		Keywords         []string
		ClearChatDefault int
		ClearChatMax     int
	}
)

func New(opts Options) *Plugin {
	p := &Plugin{
		keywords:         opts.Keywords,
		clearChatDefault: opts.ClearChatDefault,
		clearChatMax:     opts.ClearChatMax,
	}
	if p.clearChatMax <= 0 {
		p.clearChatMax = 20
	}
	if p.clearChatDefault <= 0 || p.clearChatDefault > p.clearChatMax {
		p.clearChatDefault = min(5, p.clearChatMax)
	}
	return p
}

func (*Plugin) Name() string {
	return "moderation"
}

func (p *Plugin) Handlers() []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     "listspam",
			HandlerFunc: p.onListSpam,
			MinTier:     model.TierChatAdmin,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     "mute",
			HandlerFunc: p.onMute,
			MinTier:     model.TierChatAdmin,
			GroupOnly:   true,
			DeniedText:  textDeniedAdminOnly,
		},
		&plugin.CommandHandler{
			Trigger:     "unmute",
			HandlerFunc: p.onMute,
			MinTier:     model.TierChatAdmin,
			GroupOnly:   true,
			DeniedText:  textDeniedAdminOnly,
		},
		&plugin.CommandHandler{
			Trigger:     "tagall",
			HandlerFunc: p.onTagAll,
			MinTier:     model.TierChatAdmin,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:         "clearchat",
			HandlerFunc:     p.onClearChat,
			MinTier:         model.TierChatAdmin,
			RequireBotAdmin: true,
			GroupOnly:       true,
			DeniedText:      textDeniedClearChat,
		},
	}
}

func (p *Plugin) onListSpam(_ context.Context, c *plugin.Context) ([]plugin.Action, error) {
	var sb strings.Builder
	sb.WriteString("*⚙️ Daftar Kata Kunci Anti-Spam:* \n\n")
	for _, keyword := range p.keywords {
		sb.WriteString(fmt.Sprintf("- %s\n", keyword))
	}
	sb.WriteString("\nSetiap pesan yang mengandung kata kunci di atas akan dihapus.")

	return []plugin.Action{c.Reply(sb.String())}, nil
}

// onMute only acknowledges. Nothing is enforced on the transport.
func (p *Plugin) onMute(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	var target model.Identity
	if len(c.Mentions) > 0 {
		target = c.Mentions[0]
	} else if fields := c.Fields(); len(fields) > 0 {
		target = model.Identity(c.Lookup.NormalizeTarget(fields[0]))
	}

	if target == "" {
		return []plugin.Action{
			c.Reply(fmt.Sprintf("❌ *Gagal:* Format salah. Gunakan: *%s* [mention user] atau [nomor user]", c.Command)),
		}, nil
	}

	contact, err := c.Lookup.ResolveIdentity(ctx, target)
	if err != nil {
		log.Debug().Err(err).Str("identity", target.String()).Msg("Could not resolve identity")
		contact = plugin.Contact{ID: target}
	}

	log.Info().
		Str("chat_id", c.Chat.ID.String()).
		Str("command", c.Command).
		Str("target", target.String()).
		Str("target_name", contact.Name).
		Msg("Simulated mute change")

	if c.Command == "unmute" {
		return []plugin.Action{
			c.Reply(fmt.Sprintf("*🔊 UNMUTE:* %s diaktifkan kembali. (Simulasi)", utils.Mention(target)), target),
		}, nil
	}
	return []plugin.Action{
		c.Reply(fmt.Sprintf("*🔇 MUTE:* %s dibisukan. Pesan Anda hanya dapat dilihat oleh admin/owner. (Simulasi)", utils.Mention(target)), target),
	}, nil
}

func (p *Plugin) onTagAll(_ context.Context, c *plugin.Context) ([]plugin.Action, error) {
	text := c.Args
	if text == "" {
		text = textTagAllDefault
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*📢 PEMBERITAHUAN DARI ADMIN/OWNER! 📢*\n\n%s\n\n", text))

	mentions := make([]model.Identity, 0, len(c.Chat.Participants))
	for _, participant := range c.Chat.Participants {
		mentions = append(mentions, participant.ID)
		sb.WriteString(utils.Mention(participant.ID))
		sb.WriteString(" ")
	}

	return []plugin.Action{c.Send(strings.TrimSpace(sb.String()), mentions...)}, nil
}

func (p *Plugin) onClearChat(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	count := p.clearChatDefault
	if fields := c.Fields(); len(fields) > 0 {
		// anything that is not a non-zero number falls back to the default
		if n, err := strconv.Atoi(fields[0]); err == nil && n != 0 {
			count = n
		}
	}

	if count < 1 || count > p.clearChatMax {
		return []plugin.Action{
			c.Reply(fmt.Sprintf("❌ *Gagal:* Jumlah pesan harus antara 1 sampai %d.", p.clearChatMax)),
		}, nil
	}

	recent, err := c.Lookup.ListRecentMessages(ctx, c.Chat.ID, count+1)
	if err != nil {
		log.Err(err).Str("chat_id", c.Chat.ID.String()).Msg("Failed to list recent messages")
		return []plugin.Action{c.Reply(textClearChatFailed)}, nil
	}

	targets := make([]plugin.MessageRef, 0, count)
	for _, msg := range recent {
		if msg.ID == c.Message.ID {
			continue
		}
		if len(targets) == count {
			break
		}
		targets = append(targets, msg)
	}

	return []plugin.Action{
		plugin.Purge(c.Chat.ID, targets, textClearChatDone, textClearChatFailed),
	}, nil
}
