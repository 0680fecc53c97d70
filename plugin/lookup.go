package plugin

import (
	"context"

	"github.com/nexusdev/groupguard/model"
)

type (
	Contact struct {
		ID   model.Identity
		Name string
	}

	// Lookup is the read side of a transport that handlers may query
	// while building their actions.
	Lookup interface {
		ResolveIdentity(ctx context.Context, id model.Identity) (Contact, error)
		// ListRecentMessages returns up to limit messages, newest first.
		ListRecentMessages(ctx context.Context, chat model.ChatID, limit int) ([]MessageRef, error)
		// NormalizeTarget turns user input like a phone number into the
		// transport's identifier format.
		NormalizeTarget(raw string) string
	}
)
