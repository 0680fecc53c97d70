package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
)

type Plugin struct {
	botName string
	owner   model.Identity
}

func New(botName string, owner model.Identity) *Plugin {
	return &Plugin{
		botName: botName,
		owner:   owner,
	}
}

func (*Plugin) Name() string {
	return "help"
}

func (p *Plugin) Handlers() []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     "help",
			HandlerFunc: p.onHelp,
		},
		&plugin.CommandHandler{
			Trigger:     "bantuan",
			HandlerFunc: p.onHelp,
		},
	}
}

func (p *Plugin) onHelp(_ context.Context, c *plugin.Context) ([]plugin.Action, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*📜 Daftar Perintah Bot %s 📜*\n", p.botName))
	sb.WriteString("(Tidak perlu menggunakan prefix apa pun)\n\n")

	sb.WriteString("*Perintah Umum:*\n")
	sb.WriteString("1. *rules* - Menampilkan semua peraturan grup.\n")
	sb.WriteString("2. *groupinfo* - Menampilkan informasi detail grup.\n\n")

	sb.WriteString("*Perintah Admin/Owner Grup (Memerlukan Premium Aktif):*\n")
	sb.WriteString("1. *addrule [teks peraturan]* - Menambahkan peraturan baru.\n")
	sb.WriteString("2. *delrule [nomor]* - Menghapus peraturan.\n")
	sb.WriteString("3. *listspam* - Menampilkan daftar kata kunci anti-spam.\n")
	sb.WriteString("4. *tagall [pesan]* - Menandai semua anggota grup.\n")
	sb.WriteString("5. *clearchat [jumlah]* - Menghapus sejumlah pesan terakhir (maks 20).\n")
	sb.WriteString("6. *mute/unmute* - (Simulasi) Untuk bisukan/aktifkan anggota.\n\n")

	sb.WriteString(fmt.Sprintf("*Perintah Owner Bot (%s):*\n", utils.Mention(p.owner)))
	sb.WriteString("1. *addprem [nomor_grup] [durasi] [satuan]* - Contoh: *addprem 6281234567890 30 day*\n")
	sb.WriteString("2. *checkprem [nomor_grup]* - Cek status premium.")

	return []plugin.Action{c.Reply(sb.String(), p.owner)}, nil
}
