package groupinfo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
)

const textUnknown = "Tidak Diketahui"

type Plugin struct {
	premiumService model.EntitlementService
	location       *time.Location
}

func New(service model.EntitlementService, location *time.Location) *Plugin {
	if location == nil {
		location = time.UTC
	}
	return &Plugin{
		premiumService: service,
		location:       location,
	}
}

func (*Plugin) Name() string {
	return "groupinfo"
}

func (p *Plugin) Handlers() []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     "groupinfo",
			HandlerFunc: p.onGroupInfo,
			GroupOnly:   true,
		},
		&plugin.ButtonHandler{
			Trigger:     plugin.ButtonAdmin,
			HandlerFunc: p.onContactAdmin,
			GroupOnly:   true,
		},
	}
}

func (p *Plugin) onGroupInfo(ctx context.Context, c *plugin.Context) ([]plugin.Action, error) {
	status, err := p.premiumService.Status(ctx, c.Chat.ID)
	if err != nil {
		return nil, err
	}

	created := textUnknown
	if !c.Chat.CreatedAt.IsZero() {
		created = utils.FormatShortDate(c.Chat.CreatedAt, p.location)
	}

	var mentions []model.Identity
	owner := textUnknown
	if creator, ok := c.Chat.Creator(); ok {
		owner = utils.Mention(creator.ID)
		mentions = append(mentions, creator.ID)
	}

	premium := "❌ NON-AKTIF"
	if status.Active {
		premium = "✅ AKTIF"
		if status.ExpiresAt != nil {
			premium += fmt.Sprintf(" (s.d. %s)", utils.FormatShortDate(*status.ExpiresAt, p.location))
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*📊 INFORMASI GRUP %s*\n\n", c.Chat.Name))
	sb.WriteString(fmt.Sprintf("*ID Grup:* %s\n", c.Chat.ID))
	sb.WriteString(fmt.Sprintf("*Dibuat:* %s\n", created))
	sb.WriteString(fmt.Sprintf("*Total Anggota:* %s\n", utils.FormatThousand(c.Chat.Size())))
	sb.WriteString(fmt.Sprintf("*Total Admin:* %d\n", len(c.Chat.Admins())))
	sb.WriteString(fmt.Sprintf("*Owner Grup:* %s\n", owner))
	sb.WriteString(fmt.Sprintf("*Akses Premium:* %s", premium))

	return []plugin.Action{c.Reply(sb.String(), mentions...)}, nil
}

func (p *Plugin) onContactAdmin(_ context.Context, c *plugin.Context) ([]plugin.Action, error) {
	admins := c.Chat.Admins()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*👮 ADMIN GRUP %s*\n\n", c.Chat.Name))

	if len(admins) == 0 {
		sb.WriteString("Daftar admin tidak tersedia.")
		return []plugin.Action{c.Reply(sb.String())}, nil
	}

	mentions := make([]model.Identity, 0, len(admins))
	for i, admin := range admins {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, utils.Mention(admin.ID)))
		mentions = append(mentions, admin.ID)
	}
	sb.WriteString("\nSilakan hubungi salah satu admin di atas.")

	return []plugin.Action{c.Reply(sb.String(), mentions...)}, nil
}
