package model

import (
	"context"
	"time"
)

type (
	// Entitlement is the premium record of a chat. A chat is entitled
	// while ExpiresAt lies in the future.
	Entitlement struct {
		ChatID    ChatID    `db:"chat_id"`
		ExpiresAt time.Time `db:"expires_at"`
		GrantedBy Identity  `db:"granted_by"`
	}

	EntitlementStatus struct {
		Active bool
		// ExpiresAt is nil when the chat was never granted access.
		// An expired record keeps its expiry.
		ExpiresAt *time.Time
		GrantedBy Identity
	}

	EntitlementRepository interface {
		// GetEntitlement returns ErrNotFound when the chat has no record.
		GetEntitlement(ctx context.Context, chat ChatID) (Entitlement, error)
		SaveEntitlement(ctx context.Context, e Entitlement) error
	}

	EntitlementService interface {
		Grant(ctx context.Context, chat ChatID, amount int, unit DurationUnit, grantedBy Identity) (time.Time, error)
		GrantPeriod(ctx context.Context, chat ChatID, period Period, grantedBy Identity) (time.Time, error)
		Status(ctx context.Context, chat ChatID) (EntitlementStatus, error)
		// OwnerOf returns the identity that last granted access to chat,
		// falling back to the bot owner.
		OwnerOf(ctx context.Context, chat ChatID) (Identity, error)
	}
)
