package plugin

import (
	"context"

	"github.com/nexusdev/groupguard/model"
)

type (
	Plugin interface {
		Name() string

		// Handlers are matched against classified commands and button taps
		Handlers() []Handler
	}

	Handler interface {
		Command() string
		Run(ctx context.Context, c *Context) ([]Action, error)
	}

	HandlerFunc func(ctx context.Context, c *Context) ([]Action, error)

	CommandHandler struct {
		// Trigger is a command name from the vocabulary, e.g. "addrule"
		Trigger     string
		HandlerFunc HandlerFunc
		MinTier     model.Tier
		// RequireBotAdmin also demands admin rights for the bot itself
		RequireBotAdmin bool
		GroupOnly       bool
		// DeniedText overrides the default refusal for this command
		DeniedText string
	}

	// ButtonHandler reacts to a tap on a button sent with an action.
	ButtonHandler struct {
		Trigger     string
		HandlerFunc HandlerFunc
		GroupOnly   bool
	}
)

func (h *CommandHandler) Command() string {
	return h.Trigger
}

func (h *CommandHandler) Run(ctx context.Context, c *Context) ([]Action, error) {
	return h.HandlerFunc(ctx, c)
}

func (h *ButtonHandler) Command() string {
	return h.Trigger
}

func (h *ButtonHandler) Run(ctx context.Context, c *Context) ([]Action, error) {
	return h.HandlerFunc(ctx, c)
}
