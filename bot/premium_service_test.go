package bot

import (
	"context"
	"testing"
	"time"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/model/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPremiumService(now time.Time) (*premiumService, *clock) {
	clk := newClock(now)
	service := NewPremiumService(memory.New(), "owner")
	service.now = clk.Now
	return service, clk
}

func TestGrantThenStatus(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		amount int
		unit   model.DurationUnit
		want   time.Time
	}{
		{1, model.UnitDay, time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)},
		{30, model.UnitDay, time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)},
		{1, model.UnitMonth, time.Date(2025, time.February, 28, 9, 0, 0, 0, time.UTC)},
		{13, model.UnitMonth, time.Date(2026, time.February, 28, 9, 0, 0, 0, time.UTC)},
		{1, model.UnitYear, time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		service, _ := newTestPremiumService(start)

		expiresAt, err := service.Grant(ctx, "g1", tt.amount, tt.unit, "owner")
		require.NoError(t, err)
		assert.Equal(t, tt.want, expiresAt)

		status, err := service.Status(ctx, "g1")
		require.NoError(t, err)
		assert.True(t, status.Active)
		require.NotNil(t, status.ExpiresAt)
		assert.Equal(t, tt.want, *status.ExpiresAt)
	}
}

func TestGrantRejectsInvalidDuration(t *testing.T) {
	service, _ := newTestPremiumService(time.Now())

	_, err := service.Grant(context.Background(), "g1", 0, model.UnitDay, "owner")
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	_, err = service.Grant(context.Background(), "g1", 1, model.DurationUnit("week"), "owner")
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	status, err := service.Status(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, status.Active)
}

func TestStatusWithoutGrant(t *testing.T) {
	service, _ := newTestPremiumService(time.Now())

	for range 3 {
		status, err := service.Status(context.Background(), "never")
		require.NoError(t, err)
		assert.False(t, status.Active)
		assert.Nil(t, status.ExpiresAt)
	}
}

func TestExpiredRecordIsKept(t *testing.T) {
	ctx := context.Background()
	service, clk := newTestPremiumService(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))

	expiresAt, err := service.Grant(ctx, "g1", 30, model.UnitDay, "owner")
	require.NoError(t, err)

	clk.Advance(31 * 24 * time.Hour)

	status, err := service.Status(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, status.Active)
	require.NotNil(t, status.ExpiresAt)
	assert.Equal(t, expiresAt, *status.ExpiresAt)
}

func TestGrantOverwrites(t *testing.T) {
	ctx := context.Background()
	service, clk := newTestPremiumService(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.Grant(ctx, "g1", 1, model.UnitYear, "owner")
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)
	expiresAt, err := service.Grant(ctx, "g1", 1, model.UnitDay, "reseller")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC), expiresAt)

	owner, err := service.OwnerOf(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.Identity("reseller"), owner)
}

func TestOwnerOfFallsBack(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestPremiumService(time.Now())

	owner, err := service.OwnerOf(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.Identity("owner"), owner)

	_, err = service.GrantPeriod(ctx, "g2", model.Period{Days: 1}, "")
	require.NoError(t, err)
	owner, err = service.OwnerOf(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, model.Identity("owner"), owner)
}
