package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nexusdev/groupguard/config"
	"github.com/nexusdev/groupguard/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStores_Memory(t *testing.T) {
	st, err := openStores(context.Background(), config.Config{Store: config.StoreMemory})
	require.NoError(t, err)
	defer st.close()

	ctx := context.Background()
	n, err := st.rules.AppendRule(ctx, "g1", "Dilarang spam")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = st.entitlements.GetEntitlement(ctx, "g1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOpenStores_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	st, err := openStores(context.Background(), config.Config{
		Store:       config.StoreRedis,
		RedisURL:    "redis://" + mr.Addr(),
		RedisPrefix: "test",
	})
	require.NoError(t, err)
	defer st.close()

	ctx := context.Background()
	e := model.Entitlement{ChatID: "g1", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), GrantedBy: "owner"}
	require.NoError(t, st.entitlements.SaveEntitlement(ctx, e))

	got, err := st.entitlements.GetEntitlement(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.Identity("owner"), got.GrantedBy)
	assert.True(t, got.ExpiresAt.Equal(e.ExpiresAt))
}

func TestOpenStores_RedisUnreachable(t *testing.T) {
	_, err := openStores(context.Background(), config.Config{
		Store:    config.StoreRedis,
		RedisURL: "redis://127.0.0.1:1",
	})
	assert.Error(t, err)
}
