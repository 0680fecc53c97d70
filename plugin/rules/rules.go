package rules

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

var log = logger.New("rules")

type (
	Plugin struct {
		ruleService model.RuleService
	}
)

func New(service model.RuleService) *Plugin {
	return &Plugin{
		ruleService: service,
	}
}

func (*Plugin) Name() string {
	return "rules"
}

func (p *Plugin) Handlers() []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     "rules",
			HandlerFunc: p.onRules,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     "addrule",
			HandlerFunc: p.onAddRule,
			MinTier:     model.TierChatAdmin,
			GroupOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     "delrule",
			HandlerFunc: p.onDelRule,
			MinTier:     model.TierChatAdmin,
			GroupOnly:   true,
		},
		&plugin.ButtonHandler{
			Trigger:     plugin.ButtonRules,
			HandlerFunc: p.onRules,
			GroupOnly:   true,
		},
	}
}

func (p *Plugin) onRules(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	rules, err := p.ruleService.List(ctx, c.Chat.ID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*📜 PERATURAN GRUP %s 📜*\n\n", c.Chat.Name))

	if len(rules) == 0 {
		sb.WriteString("Belum ada peraturan yang ditetapkan. Admin/Owner dapat menambahkannya menggunakan perintah *addrule*.")
	}

	for _, rule := range rules {
		sb.WriteString(fmt.Sprintf("%d. %s\n", rule.Position, rule.Text))
	}

	return []plugin.Action{c.Reply(strings.TrimSuffix(sb.String(), "\n"))}, nil
}

func (p *Plugin) onAddRule(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	position, err := p.ruleService.Append(ctx, c.Chat.ID, c.Args)
	if errors.Is(err, model.ErrEmptyRule) {
		return []plugin.Action{c.Reply("❌ *Gagal:* Format salah. Gunakan: *addrule [teks peraturan]*")}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("chat_id", c.Chat.ID.String()).
		Int("position", position).
		Msg("Rule added")

	return []plugin.Action{
		c.Reply(fmt.Sprintf("*✅ Berhasil:* Peraturan baru nomor %d \"%s\" telah ditambahkan.", position, c.Args)),
	}, nil
}

func (p *Plugin) onDelRule(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	fields := c.Fields()

	var position int
	if len(fields) > 0 {
		position, _ = strconv.Atoi(fields[0])
	}

	removed, err := p.ruleService.RemoveAt(ctx, c.Chat.ID, position)
	switch {
	case errors.Is(err, model.ErrEmpty):
		return []plugin.Action{c.Reply("❌ *Gagal:* Tidak ada peraturan untuk dihapus.")}, nil
	case errors.Is(err, model.ErrOutOfRange) && len(fields) == 0:
		return []plugin.Action{c.Reply("❌ *Gagal:* Format salah. Gunakan: *delrule [nomor]*")}, nil
	case errors.Is(err, model.ErrOutOfRange):
		return []plugin.Action{c.Reply("❌ *Gagal:* Nomor peraturan tidak valid.")}, nil
	case err != nil:
		return nil, err
	}

	log.Info().
		Str("chat_id", c.Chat.ID.String()).
		Int("position", position).
		Msg("Rule removed")

	return []plugin.Action{
		c.Reply(fmt.Sprintf("*✅ Berhasil:* Peraturan nomor %d (\"%s\") telah dihapus.", position, removed)),
	}, nil
}
