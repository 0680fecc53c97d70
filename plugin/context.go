package plugin

import (
	"strings"

	"github.com/nexusdev/groupguard/model"
)

// Decision is the authorization context of one event, computed once
// before any handler runs.
type Decision struct {
	Tier       model.Tier
	BotIsAdmin bool
}

type Context struct {
	Chat     ChatInfo
	Sender   model.Identity
	Self     model.Identity
	Message  MessageRef
	Mentions []model.Identity

	// Command is empty for button taps
	Command string
	Args    string

	Decision Decision
	Lookup   Lookup
}

// Fields splits Args on whitespace.
func (c *Context) Fields() []string {
	return strings.Fields(c.Args)
}

func (c *Context) Reply(text string, mentions ...model.Identity) Action {
	return Reply(c.Message, text, mentions...)
}

func (c *Context) Send(text string, mentions ...model.Identity) Action {
	return Send(c.Chat.ID, text, mentions...)
}
