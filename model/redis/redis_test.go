package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nexusdev/groupguard/model"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestEntitlementRepo(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniRedisClient(t)
	repo := NewEntitlementRepo(client, "test")

	_, err := repo.GetEntitlement(ctx, "g1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	expiry := time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveEntitlement(ctx, model.Entitlement{ChatID: "g1", ExpiresAt: expiry, GrantedBy: "owner"}))
	assert.Equal(t, "owner", mr.HGet("test:entitlement:g1", "granted_by"))

	e, err := repo.GetEntitlement(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, expiry.Equal(e.ExpiresAt))
	assert.Equal(t, model.Identity("owner"), e.GrantedBy)
}

func TestRuleRepo(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniRedisClient(t)
	repo := NewRuleRepo(client, "test")

	for i, text := range []string{"A", "B", "C", "B"} {
		pos, err := repo.AppendRule(ctx, "g1", text)
		require.NoError(t, err)
		assert.Equal(t, i+1, pos)
	}

	text, err := repo.RemoveRule(ctx, "g1", 4)
	require.NoError(t, err)
	assert.Equal(t, "B", text)

	text, err = repo.RemoveRule(ctx, "g1", 2)
	require.NoError(t, err)
	assert.Equal(t, "B", text)

	rules, err := repo.ListRules(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, rules)

	_, err = repo.RemoveRule(ctx, "g1", 3)
	assert.ErrorIs(t, err, model.ErrOutOfRange)
	_, err = repo.RemoveRule(ctx, "g1", 0)
	assert.ErrorIs(t, err, model.ErrOutOfRange)
}

func TestRuleRepoRemovesByPosition(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniRedisClient(t)
	repo := NewRuleRepo(client, "test")

	for _, text := range []string{"\x00removed\x00", "B", "\x00removed\x00"} {
		_, err := repo.AppendRule(ctx, "g1", text)
		require.NoError(t, err)
	}

	text, err := repo.RemoveRule(ctx, "g1", 2)
	require.NoError(t, err)
	assert.Equal(t, "B", text)

	rules, err := repo.ListRules(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"\x00removed\x00", "\x00removed\x00"}, rules)
}
