package bot

import (
	"context"
	"testing"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/model/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleBookRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := NewRuleService(memory.New())

	for i, text := range []string{"A", "B", "C"} {
		pos, err := service.Append(ctx, "g1", text)
		require.NoError(t, err)
		assert.Equal(t, i+1, pos)
	}

	pos, err := service.Append(ctx, "g1", "  Be kind  ")
	require.NoError(t, err)

	rules, err := service.List(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.Rule{Position: pos, Text: "Be kind"}, rules[pos-1])

	removed, err := service.RemoveAt(ctx, "g1", 2)
	require.NoError(t, err)
	assert.Equal(t, "B", removed)

	rules, err = service.List(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []model.Rule{
		{Position: 1, Text: "A"},
		{Position: 2, Text: "C"},
		{Position: 3, Text: "Be kind"},
	}, rules)
}

func TestRuleBookErrors(t *testing.T) {
	ctx := context.Background()
	service := NewRuleService(memory.New())

	_, err := service.Append(ctx, "g1", "   ")
	assert.ErrorIs(t, err, model.ErrEmptyRule)

	_, err = service.RemoveAt(ctx, "g1", 1)
	assert.ErrorIs(t, err, model.ErrEmpty)

	_, err = service.Append(ctx, "g1", "A")
	require.NoError(t, err)

	for _, pos := range []int{0, -1, 2} {
		_, err = service.RemoveAt(ctx, "g1", pos)
		assert.ErrorIs(t, err, model.ErrOutOfRange, pos)
	}

	count, err := service.Count(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRuleListEmpty(t *testing.T) {
	rules, err := NewRuleService(memory.New()).List(context.Background(), "g1")
	require.NoError(t, err)
	assert.Empty(t, rules)
}
