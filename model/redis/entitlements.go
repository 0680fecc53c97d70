package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/nexusdev/groupguard/model"
	goredis "github.com/redis/go-redis/v9"
)

type EntitlementRepo struct {
	client *goredis.Client
	prefix string
}

func NewEntitlementRepo(client *goredis.Client, prefix string) *EntitlementRepo {
	return &EntitlementRepo{client: client, prefix: prefix}
}

func (r *EntitlementRepo) GetEntitlement(ctx context.Context, chat model.ChatID) (model.Entitlement, error) {
	values, err := r.client.HGetAll(ctx, r.key(chat)).Result()
	if err != nil {
		return model.Entitlement{}, fmt.Errorf("get entitlement: %w", err)
	}
	if len(values) == 0 {
		return model.Entitlement{}, model.ErrNotFound
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, values["expires_at"])
	if err != nil {
		return model.Entitlement{}, fmt.Errorf("parse expires_at: %w", err)
	}

	return model.Entitlement{
		ChatID:    chat,
		ExpiresAt: expiresAt,
		GrantedBy: model.Identity(values["granted_by"]),
	}, nil
}

func (r *EntitlementRepo) SaveEntitlement(ctx context.Context, e model.Entitlement) error {
	err := r.client.HSet(ctx, r.key(e.ChatID),
		"expires_at", e.ExpiresAt.UTC().Format(time.RFC3339Nano),
		"granted_by", e.GrantedBy.String(),
	).Err()
	if err != nil {
		return fmt.Errorf("save entitlement: %w", err)
	}
	return nil
}

func (r *EntitlementRepo) key(chat model.ChatID) string {
	return fmt.Sprintf("%s:entitlement:%s", r.prefix, chat)
}
