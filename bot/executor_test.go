package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(chat string, n int) []plugin.MessageRef {
	msgs := make([]plugin.MessageRef, 0, n)
	for i := range n {
		msgs = append(msgs, plugin.MessageRef{ID: fmt.Sprintf("m%d", i), Chat: model.ChatID(chat)})
	}
	return msgs
}

func TestPurgeReportsActualCount(t *testing.T) {
	transport := newFakeTransport()
	transport.deleteBudget = 7
	e := NewExecutor(transport, NewScheduler())
	before := testutil.ToFloat64(transportFailuresTotal.WithLabelValues("purge"))

	e.Execute(context.Background(), []plugin.Action{
		plugin.Purge("g1", refs("g1", 10), "%d deleted", "could not delete"),
	})

	assert.Len(t, transport.Deleted(), 7)
	sent := transport.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "7 deleted", sent[0].text)
	assert.Equal(t, "could not delete", sent[1].text)
	assert.Equal(t, before+1, testutil.ToFloat64(transportFailuresTotal.WithLabelValues("purge")))
}

func TestPurgeNothingDeleted(t *testing.T) {
	transport := newFakeTransport()
	transport.deleteBudget = 0
	e := NewExecutor(transport, NewScheduler())

	e.Execute(context.Background(), []plugin.Action{
		plugin.Purge("g1", refs("g1", 3), "%d deleted", "could not delete"),
	})

	sent := transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "could not delete", sent[0].text)
}

func TestDeleteFailureIsSoft(t *testing.T) {
	transport := newFakeTransport()
	transport.deleteBudget = 0
	e := NewExecutor(transport, NewScheduler())
	msg := plugin.MessageRef{ID: "m1", Chat: "g1", Sender: "spammer"}

	e.Execute(context.Background(), []plugin.Action{
		plugin.Delete(msg, "could not delete"),
		plugin.Send("g1", "warning", "spammer"),
	})

	sent := transport.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "could not delete", sent[0].text)
	assert.Equal(t, "warning", sent[1].text)
}

func TestScheduledLeave(t *testing.T) {
	transport := newFakeTransport()
	scheduler := NewScheduler()
	e := NewExecutor(transport, scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	e.Execute(ctx, []plugin.Action{plugin.Schedule(10*time.Millisecond, plugin.Leave("g1"))})
	cancel()

	assert.Empty(t, transport.Left())
	require.Eventually(t, func() bool { return len(transport.Left()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestCancelScheduledLeave(t *testing.T) {
	transport := newFakeTransport()
	scheduler := NewScheduler()
	e := NewExecutor(transport, scheduler)

	e.Execute(context.Background(), []plugin.Action{
		plugin.Schedule(20*time.Millisecond, plugin.Leave("g1")),
		plugin.CancelScheduled("g1"),
	})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, transport.Left())
}

func TestReplyCarriesButtons(t *testing.T) {
	transport := newFakeTransport()
	e := NewExecutor(transport, NewScheduler())
	msg := plugin.MessageRef{ID: "m1", Chat: "g1"}

	e.Execute(context.Background(), []plugin.Action{
		plugin.Reply(msg, "hi").WithButtons(plugin.Button{ID: plugin.ButtonRules, Label: "Rules"}),
	})

	sent := transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "m1", sent[0].replyTo)
	assert.Equal(t, []plugin.Button{{ID: plugin.ButtonRules, Label: "Rules"}}, sent[0].buttons)
}
