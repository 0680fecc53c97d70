package bot

import (
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

// Evaluate computes the authorization context of one event.
func Evaluate(chat plugin.ChatInfo, sender, self, owner model.Identity) plugin.Decision {
	d := plugin.Decision{Tier: model.TierMember}

	switch {
	case sender != "" && sender == owner:
		d.Tier = model.TierBotOwner
	case chat.IsGroup && chat.IsAdmin(sender):
		d.Tier = model.TierChatAdmin
	}

	if chat.IsGroup {
		d.BotIsAdmin = chat.IsAdmin(self)
	}
	return d
}

func RequireTier(have, required model.Tier) bool {
	return have.AtLeast(required)
}
