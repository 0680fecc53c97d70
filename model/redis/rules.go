package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexusdev/groupguard/model"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

type RuleRepo struct {
	client *goredis.Client
	prefix string
}

func NewRuleRepo(client *goredis.Client, prefix string) *RuleRepo {
	return &RuleRepo{client: client, prefix: prefix}
}

func (r *RuleRepo) AppendRule(ctx context.Context, chat model.ChatID, text string) (int, error) {
	n, err := r.client.RPush(ctx, r.key(chat), text).Result()
	if err != nil {
		return 0, fmt.Errorf("append rule: %w", err)
	}
	return int(n), nil
}

func (r *RuleRepo) RemoveRule(ctx context.Context, chat model.ChatID, position int) (string, error) {
	if position < 1 {
		return "", model.ErrOutOfRange
	}

	key := r.key(chat)
	index := int64(position - 1)
	// unique per call, so LREM drops only the marked slot
	marker := "\x00removed:" + xid.New().String()
	var text string

	err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
		var err error
		text, err = tx.LIndex(ctx, key, index).Result()
		if errors.Is(err, goredis.Nil) {
			return model.ErrOutOfRange
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.LSet(ctx, key, index, marker)
			pipe.LRem(ctx, key, 1, marker)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, model.ErrOutOfRange) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("remove rule: %w", err)
	}
	return text, nil
}

func (r *RuleRepo) ListRules(ctx context.Context, chat model.ChatID) ([]string, error) {
	rules, err := r.client.LRange(ctx, r.key(chat), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

func (r *RuleRepo) key(chat model.ChatID) string {
	return fmt.Sprintf("%s:rules:%s", r.prefix, chat)
}
