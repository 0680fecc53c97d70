package bot

import (
	"fmt"
	"strings"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/utils"
)

const (
	textErrorOccurred = "❌ Terjadi kesalahan."
	textGroupOnly     = "❌ *Gagal:* Perintah ini hanya dapat digunakan di dalam grup."
	textDeniedOwner   = "❌ *Akses Ditolak:* Perintah ini hanya dapat dijalankan oleh Owner Bot."
	textDeniedAdmin   = "❌ *Akses Ditolak:* Perintah ini hanya untuk Admin/Owner grup."
	textDeniedBot     = "❌ *Akses Ditolak:* Bot harus menjadi Admin untuk menjalankan perintah ini."
	textDeleteFailed  = "❌ *Gagal:* Pesan tidak dapat dihapus. Pastikan bot memiliki hak admin."
)

func deniedText(required model.Tier) string {
	if required == model.TierBotOwner {
		return textDeniedOwner
	}
	return textDeniedAdmin
}

func (p *Processor) expiredText(chatName string, owner model.Identity) string {
	var sb strings.Builder
	sb.WriteString("*❗ AKSES PREMIUM KEDALUWARSA ❗*\n\n")
	sb.WriteString(fmt.Sprintf("Layanan bot di grup *%s* telah berakhir.\n", chatName))
	sb.WriteString(fmt.Sprintf("Bot akan keluar dalam %s.\n\n", utils.HumanizeDelay(p.leaveDelay)))
	sb.WriteString(fmt.Sprintf("Silakan hubungi Owner Bot (%s) untuk memperpanjang akses.", utils.Mention(owner)))
	return sb.String()
}

func (p *Processor) rejectedText(chatName string) string {
	var sb strings.Builder
	sb.WriteString("*❌ AKSES DITOLAK ❌*\n\n")
	sb.WriteString(fmt.Sprintf("Terima kasih telah mengundang *%s*.\n", p.botName))
	sb.WriteString(fmt.Sprintf("Bot ini memerlukan akses premium untuk berfungsi. Karena grup *%s* tidak terdaftar sebagai premium, bot akan keluar secara otomatis.\n\n", chatName))
	sb.WriteString(fmt.Sprintf("Silakan hubungi Owner Bot (%s) untuk pembelian akses premium.", utils.Mention(p.owner)))
	return sb.String()
}

func (p *Processor) activatedText(chatName string, status model.EntitlementStatus) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*✅ %s AKTIF ✅*\n\n", p.botName))
	sb.WriteString(fmt.Sprintf("Terima kasih telah mengundang bot ke grup *%s*.\n", chatName))
	if status.ExpiresAt != nil {
		sb.WriteString(fmt.Sprintf("Akses Premium grup ini berlaku hingga *%s*.\n", utils.FormatDate(*status.ExpiresAt, p.location)))
	}
	sb.WriteString("\nKetik *help* untuk melihat daftar perintah.")
	return sb.String()
}

func (p *Processor) welcomeText(chatName string, member model.Identity, ruleCount int, status model.EntitlementStatus) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*🎉 SELAMAT DATANG DI GRUP %s! (PREMIUM) 🎉*\n\n", chatName))
	sb.WriteString(fmt.Sprintf("Halo %s!\n\n", utils.Mention(member)))
	sb.WriteString("Kami senang Anda bergabung. Mohon kerjasamanya agar grup ini tetap kondusif dan bermanfaat.\n\n")
	sb.WriteString(fmt.Sprintf("Saat ini, terdapat *%d* peraturan yang berlaku di grup ini.\n", ruleCount))
	if status.Active && status.ExpiresAt != nil {
		sb.WriteString(fmt.Sprintf("Akses Premium grup ini akan berakhir pada: *%s*\n", utils.FormatShortDate(*status.ExpiresAt, p.location)))
	}
	sb.WriteString("\n*Baca Peraturan Grup sekarang!*")
	return sb.String()
}

func farewellText(chatName string, member model.Identity) string {
	var sb strings.Builder
	sb.WriteString("*👋 SAMPAI JUMPA! 👋*\n\n")
	sb.WriteString(fmt.Sprintf("%s telah meninggalkan grup *%s*.\n", utils.Mention(member), chatName))
	sb.WriteString("Semoga sukses selalu!")
	return sb.String()
}

func spamText(sender model.Identity) string {
	var sb strings.Builder
	sb.WriteString("*🛑 ANTI-SPAM AKTIF 🛑*\n\n")
	sb.WriteString(fmt.Sprintf("Pesan dari %s telah dihapus karena terdeteksi mengandung promosi/link yang tidak diizinkan.\n", utils.Mention(sender)))
	sb.WriteString("Harap patuhi peraturan grup.")
	return sb.String()
}

// spamNoDeleteText is used when the bot lacks the rights to delete.
func spamNoDeleteText(sender model.Identity) string {
	var sb strings.Builder
	sb.WriteString("*🛑 ANTI-SPAM AKTIF 🛑*\n\n")
	sb.WriteString(fmt.Sprintf("Pesan dari %s mengandung promosi/link yang tidak diizinkan.\n", utils.Mention(sender)))
	sb.WriteString("Harap patuhi peraturan grup.")
	return sb.String()
}
