package telegram

import (
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

// roster is what the chat info of a Telegram group is built from. Bots
// cannot list ordinary members, so only administrators and a count are
// fetched.
type roster struct {
	admins []plugin.Participant
	count  int
}

func (r roster) isAdmin(id model.Identity) bool {
	for _, p := range r.admins {
		if p.ID == id {
			return true
		}
	}
	return false
}
