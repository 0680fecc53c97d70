package premium

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
)

var log = logger.New("premium")

const (
	textAddPremUsage   = "❌ *Gagal:* Format salah. Contoh: *addprem 6281234567890 30 day*"
	textCheckPremUsage = "❌ *Gagal:* Format salah. Contoh: *checkprem 6281234567890*"
	textInvalidPeriod  = "❌ *Gagal:* Durasi tidak valid. Gunakan angka positif dengan satuan day, month atau year (contoh: *30 day*), atau durasi ISO 8601 (contoh: *P1M*)."
)

type (
	Plugin struct {
		premiumService     model.EntitlementService
		location           *time.Location
		cancelLeaveOnGrant bool
	}

	Options struct {
		Location *time.Location
		// CancelLeaveOnGrant drops a pending delayed leave of the granted chat
		CancelLeaveOnGrant bool
	}
)

func New(service model.EntitlementService, opts Options) *Plugin {
	location := opts.Location
	if location == nil {
		location = time.UTC
	}
	return &Plugin{
		premiumService:     service,
		location:           location,
		cancelLeaveOnGrant: opts.CancelLeaveOnGrant,
	}
}

func (*Plugin) Name() string {
	return "premium"
}

func (p *Plugin) Handlers() []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     "addprem",
			HandlerFunc: p.onAddPrem,
			MinTier:     model.TierBotOwner,
		},
		&plugin.CommandHandler{
			Trigger:     "checkprem",
			HandlerFunc: p.onCheckPrem,
			MinTier:     model.TierBotOwner,
		},
	}
}

// parsePeriod accepts "<amount> <unit>" or a single ISO 8601 duration.
func parsePeriod(args []string) (model.Period, error) {
	switch len(args) {
	case 1:
		if _, err := strconv.Atoi(args[0]); err == nil {
			// an amount without its unit
			return model.Period{}, model.ErrMissingArguments
		}
		return model.ParsePeriod(args[0])
	case 2:
		amount, err := model.ParseAmount(args[0])
		if err != nil {
			return model.Period{}, err
		}
		unit, err := model.ParseDurationUnit(args[1])
		if err != nil {
			return model.Period{}, err
		}
		return model.NewPeriod(amount, unit)
	default:
		return model.Period{}, model.ErrMissingArguments
	}
}

func (p *Plugin) onAddPrem(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	fields := c.Fields()
	if len(fields) < 2 {
		return []plugin.Action{c.Reply(textAddPremUsage)}, nil
	}

	target := c.Lookup.NormalizeTarget(fields[0])
	if target == "" {
		return []plugin.Action{c.Reply(textAddPremUsage)}, nil
	}

	period, err := parsePeriod(fields[1:])
	if errors.Is(err, model.ErrMissingArguments) {
		return []plugin.Action{c.Reply(textAddPremUsage)}, nil
	}
	if err != nil {
		log.Debug().Err(err).Strs("args", fields).Msg("Invalid premium period")
		return []plugin.Action{c.Reply(textInvalidPeriod)}, nil
	}

	chat := model.ChatID(target)
	expiresAt, err := p.premiumService.GrantPeriod(ctx, chat, period, c.Sender)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("chat_id", target).
		Str("period", period.String()).
		Time("expires_at", expiresAt).
		Str("granted_by", c.Sender.String()).
		Msg("Premium granted")

	var sb strings.Builder
	sb.WriteString("*✅ PREMIUM BERHASIL DITAMBAHKAN!*\n")
	sb.WriteString(fmt.Sprintf("Grup/User: %s\n", target))
	sb.WriteString(fmt.Sprintf("Kedaluwarsa: %s", utils.FormatDate(expiresAt, p.location)))

	actions := []plugin.Action{c.Reply(sb.String())}
	if p.cancelLeaveOnGrant {
		actions = append(actions, plugin.CancelScheduled(chat))
	}
	return actions, nil
}

func (p *Plugin) onCheckPrem(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	fields := c.Fields()
	if len(fields) < 1 {
		return []plugin.Action{c.Reply(textCheckPremUsage)}, nil
	}

	target := c.Lookup.NormalizeTarget(fields[0])
	if target == "" {
		return []plugin.Action{c.Reply(textCheckPremUsage)}, nil
	}

	status, err := p.premiumService.Status(ctx, model.ChatID(target))
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if status.Active {
		sb.WriteString("*✅ STATUS PREMIUM AKTIF*\n")
	} else {
		sb.WriteString("*❌ STATUS PREMIUM NON-AKTIF/KEDALUWARSA*\n")
	}
	sb.WriteString(fmt.Sprintf("Grup/User ID: %s", target))
	if status.ExpiresAt != nil {
		sb.WriteString(fmt.Sprintf("\nKedaluwarsa: %s", utils.FormatDate(*status.ExpiresAt, p.location)))
	}

	return []plugin.Action{c.Reply(sb.String())}, nil
}
