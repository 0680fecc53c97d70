package whatsapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

var (
	botJID    = types.NewJID("6280000000000", types.DefaultUserServer)
	budiJID   = types.NewJID("6281111111111", types.DefaultUserServer)
	adminJID  = types.NewJID("6282222222222", types.DefaultUserServer)
	groupJID  = types.NewJID("120363000000000001", types.GroupServer)
	createdAt = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
)

func newTestAdapter(t *testing.T) (*Adapter, *int) {
	t.Helper()
	fetches := 0
	a := newAdapter(nil)
	a.selfJID = func() types.JID { return botJID }
	a.groupInfo = func(_ context.Context, jid types.JID) (*types.GroupInfo, error) {
		fetches++
		if jid != groupJID {
			return nil, errors.New("not a participant")
		}
		return &types.GroupInfo{
			JID:          groupJID,
			GroupName:    types.GroupName{Name: "Nexus"},
			GroupCreated: createdAt,
			Participants: []types.GroupParticipant{
				{JID: adminJID, IsSuperAdmin: true, DisplayName: "Ani"},
				{JID: budiJID},
				{JID: botJID, IsAdmin: true},
			},
		}, nil
	}
	return a, &fetches
}

func groupMessage(id string, msg *waE2E.Message) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: groupJID, Sender: budiJID, IsGroup: true},
			ID:            id,
			PushName:      "Budi",
		},
		Message: msg,
	}
}

func TestNormalizeTarget(t *testing.T) {
	a, _ := newTestAdapter(t)

	tests := map[string]string{
		"6281234567890":                "6281234567890@s.whatsapp.net",
		"+62 812-3456-7890":            "6281234567890@s.whatsapp.net",
		"@6281234567890":               "6281234567890@s.whatsapp.net",
		"6281234567890@c.us":           "6281234567890@s.whatsapp.net",
		"6281234567890-1600000000":     "6281234567890-1600000000@g.us",
		"120363000000000001":           "120363000000000001@g.us",
		"120363000000000001@g.us":      "120363000000000001@g.us",
		"6281234567890@s.whatsapp.net": "6281234567890@s.whatsapp.net",
		"grup":                         "",
		"":                             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, a.NormalizeTarget(in), in)
	}
}

func TestRender(t *testing.T) {
	text, jids := render("Halo @"+budiJID.String()+"!", []model.Identity{identity(budiJID)}, []plugin.Button{
		{ID: plugin.ButtonRules, Label: "Baca Peraturan Grup"},
		{ID: plugin.ButtonAdmin, Label: "Hubungi Admin"},
	})

	assert.Equal(t, "Halo @6281111111111!\n\nKetik *Baca Peraturan Grup* atau *Hubungi Admin*.", text)
	assert.Equal(t, []string{"6281111111111@s.whatsapp.net"}, jids)
}

func TestTextMessageQuotes(t *testing.T) {
	msg := textMessage("hi", nil, &plugin.MessageRef{ID: "ABC", Chat: "g", Sender: identity(budiJID)})

	ctxInfo := msg.GetExtendedTextMessage().GetContextInfo()
	assert.Equal(t, "ABC", ctxInfo.GetStanzaID())
	assert.Equal(t, budiJID.String(), ctxInfo.GetParticipant())
	assert.Nil(t, textMessage("hi", nil, nil).GetExtendedTextMessage().GetContextInfo())
}

func TestGroupMessageBecomesEvent(t *testing.T) {
	a, fetches := newTestAdapter(t)

	got := a.convert(context.Background(), groupMessage("M1", &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text: proto.String("mute @6282222222222"),
			ContextInfo: &waE2E.ContextInfo{
				MentionedJID: []string{adminJID.String()},
			},
		},
	}))

	require.Len(t, got, 1)
	ev, ok := got[0].(plugin.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, "mute @6282222222222", ev.Body)
	assert.Equal(t, identity(budiJID), ev.Sender)
	assert.Equal(t, identity(botJID), ev.Self)
	assert.Equal(t, []model.Identity{identity(adminJID)}, ev.Mentions)
	assert.Equal(t, "Nexus", ev.Chat.Name)
	assert.Equal(t, createdAt, ev.Chat.CreatedAt)
	assert.True(t, ev.Chat.IsAdmin(identity(botJID)))
	assert.Len(t, ev.Chat.Participants, 3)

	a.convert(context.Background(), groupMessage("M2", &waE2E.Message{Conversation: proto.String("halo")}))
	assert.Equal(t, 1, *fetches)

	recent, err := a.ListRecentMessages(context.Background(), chatID(groupJID), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "M2", recent[0].ID)

	contact, err := a.ResolveIdentity(context.Background(), identity(adminJID))
	require.NoError(t, err)
	assert.Equal(t, "Ani", contact.Name)
}

func TestMediaWithoutCaptionIsOnlyRemembered(t *testing.T) {
	a, _ := newTestAdapter(t)

	got := a.convert(context.Background(), groupMessage("M3", &waE2E.Message{ImageMessage: &waE2E.ImageMessage{}}))

	assert.Empty(t, got)
	recent, _ := a.ListRecentMessages(context.Background(), chatID(groupJID), 10)
	assert.Len(t, recent, 1)
}

func TestTypedButtonLabelBecomesButtonEvent(t *testing.T) {
	a, _ := newTestAdapter(t)
	a.rememberButtons([]plugin.Button{{ID: plugin.ButtonRules, Label: "Baca Peraturan Grup"}})

	got := a.convert(context.Background(), groupMessage("M4", &waE2E.Message{Conversation: proto.String(" baca peraturan grup ")}))

	require.Len(t, got, 1)
	ev, ok := got[0].(plugin.ButtonEvent)
	require.True(t, ok)
	assert.Equal(t, plugin.ButtonRules, ev.ButtonID)
	assert.Equal(t, "M4", ev.Message.ID)
}

func TestButtonResponseBecomesButtonEvent(t *testing.T) {
	a, _ := newTestAdapter(t)

	got := a.convert(context.Background(), groupMessage("M5", &waE2E.Message{
		ButtonsResponseMessage: &waE2E.ButtonsResponseMessage{SelectedButtonID: proto.String(plugin.ButtonAdmin)},
	}))

	require.Len(t, got, 1)
	assert.Equal(t, plugin.ButtonAdmin, got[0].(plugin.ButtonEvent).ButtonID)
}

func TestGroupParticipantChanges(t *testing.T) {
	a, _ := newTestAdapter(t)
	newcomer := types.NewJID("6283333333333", types.DefaultUserServer)

	got := a.convert(context.Background(), &events.GroupInfo{JID: groupJID, Join: []types.JID{newcomer}})
	require.Len(t, got, 1)
	join, ok := got[0].(plugin.JoinEvent)
	require.True(t, ok)
	assert.Equal(t, identity(newcomer), join.Member)
	assert.Equal(t, "Nexus", join.Chat.Name)

	got = a.convert(context.Background(), &events.GroupInfo{JID: groupJID, Leave: []types.JID{budiJID, botJID}})
	require.Len(t, got, 1)
	leave, ok := got[0].(plugin.LeaveEvent)
	require.True(t, ok)
	assert.Equal(t, identity(budiJID), leave.Member)
	assert.True(t, leave.Chat.IsGroup)
}

func TestBotAddedToGroup(t *testing.T) {
	a, fetches := newTestAdapter(t)

	got := a.convert(context.Background(), &events.JoinedGroup{GroupInfo: types.GroupInfo{
		JID:       groupJID,
		GroupName: types.GroupName{Name: "Baru"},
	}})

	require.Len(t, got, 1)
	join, ok := got[0].(plugin.JoinEvent)
	require.True(t, ok)
	assert.Equal(t, identity(botJID), join.Member)
	assert.Equal(t, join.Self, join.Member)
	assert.Equal(t, "Baru", join.Chat.Name)
	assert.Zero(t, *fetches)
}
