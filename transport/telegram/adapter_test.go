package telegram

import (
	"context"
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groupId int64 = -100123

func newTestAdapter() *Adapter {
	a := newAdapter(&gotgbot.Bot{User: gotgbot.User{Id: 42, FirstName: "Guard", Username: "guardbot", IsBot: true}})
	a.rosters.Put(groupId, roster{
		admins: []plugin.Participant{
			{ID: "1", Name: "Ann", IsSuperAdmin: true},
			{ID: "42", Name: "Guard", IsAdmin: true},
		},
		count: 10,
	})
	return a
}

func groupChat() gotgbot.Chat {
	return gotgbot.Chat{Id: groupId, Type: "supergroup", Title: "Nexus"}
}

func TestRender(t *testing.T) {
	a := newTestAdapter()
	a.rememberUser(gotgbot.User{Id: 7, FirstName: "Budi", LastName: "<S>"})

	got := a.render("*Halo* @7 dan @8\n(`abc`)", []model.Identity{"7"})

	assert.Equal(t, `<b>Halo</b> <a href="tg://user?id=7">Budi &lt;S&gt;</a> dan @8`+"\n(<code>abc</code>)", got)
	assert.Equal(t, "a &lt; b", a.render("a < b", nil))
}

func TestKeyboard(t *testing.T) {
	kb := keyboard([]plugin.Button{
		{ID: plugin.ButtonRules, Label: "Baca Peraturan Grup"},
		{ID: plugin.ButtonAdmin, Label: "Hubungi Admin"},
	})

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "Baca Peraturan Grup", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, plugin.ButtonAdmin, kb.InlineKeyboard[1][0].CallbackData)
	assert.Nil(t, sendOptions(nil).ReplyMarkup)
}

func TestNormalizeTarget(t *testing.T) {
	a := newTestAdapter()
	a.rememberUser(gotgbot.User{Id: 7, FirstName: "Budi", Username: "Budi_99"})

	assert.Equal(t, "-100123", a.NormalizeTarget(" -100123 "))
	assert.Equal(t, "7", a.NormalizeTarget("@budi_99"))
	assert.Equal(t, "", a.NormalizeTarget("@nobody"))
	assert.Equal(t, "", a.NormalizeTarget("grup"))
}

func TestTextMessageBecomesEvent(t *testing.T) {
	a := newTestAdapter()
	a.rememberUser(gotgbot.User{Id: 9, FirstName: "Cici", Username: "cici"})

	events := a.onMessage(&gotgbot.Message{
		MessageId: 55,
		Chat:      groupChat(),
		From:      &gotgbot.User{Id: 7, FirstName: "Budi"},
		Text:      "mute 👋 @cici",
		Entities: []gotgbot.MessageEntity{
			{Type: "mention", Offset: 8, Length: 5},
		},
	})

	require.Len(t, events, 1)
	ev, ok := events[0].(plugin.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, model.Identity("7"), ev.Sender)
	assert.Equal(t, "Budi", ev.SenderName)
	assert.Equal(t, model.Identity("42"), ev.Self)
	assert.Equal(t, plugin.MessageRef{ID: "55", Chat: "-100123", Sender: "7"}, ev.Message)
	assert.Equal(t, []model.Identity{"9"}, ev.Mentions)
	assert.True(t, ev.Chat.IsGroup)
	assert.Equal(t, "Nexus", ev.Chat.Name)
	assert.Equal(t, 10, ev.Chat.MemberCount)
	assert.True(t, ev.Chat.IsAdmin("42"))
	assert.Contains(t, ev.Chat.Participants, plugin.Participant{ID: "7", Name: "Budi"})

	recent, err := a.ListRecentMessages(context.Background(), "-100123", 5)
	require.NoError(t, err)
	assert.Equal(t, []plugin.MessageRef{ev.Message}, recent)
}

func TestServiceMessages(t *testing.T) {
	a := newTestAdapter()

	events := a.onMessage(&gotgbot.Message{
		MessageId:      56,
		Chat:           gotgbot.Chat{Id: 5, Type: "private", FirstName: "Budi"},
		From:           &gotgbot.User{Id: 5, FirstName: "Budi"},
		NewChatMembers: []gotgbot.User{{Id: 8, FirstName: "Dodi"}},
	})
	require.Len(t, events, 1)
	join, ok := events[0].(plugin.JoinEvent)
	require.True(t, ok)
	assert.Equal(t, model.Identity("8"), join.Member)
	assert.False(t, join.Chat.IsGroup)

	events = a.onMessage(&gotgbot.Message{
		MessageId:      57,
		Chat:           gotgbot.Chat{Id: 5, Type: "private"},
		LeftChatMember: &gotgbot.User{Id: 8},
	})
	require.Len(t, events, 1)
	assert.IsType(t, plugin.LeaveEvent{}, events[0])

	events = a.onMessage(&gotgbot.Message{
		MessageId:      58,
		Chat:           gotgbot.Chat{Id: 5, Type: "private"},
		LeftChatMember: &gotgbot.User{Id: 42},
	})
	assert.Empty(t, events)
}

func TestCallbackBecomesButtonEvent(t *testing.T) {
	a := newTestAdapter()

	events := a.onCallback(&gotgbot.CallbackQuery{
		Id:   "cb",
		From: gotgbot.User{Id: 7, FirstName: "Budi"},
		Data: plugin.ButtonRules,
		Message: &gotgbot.Message{
			MessageId: 99,
			Chat:      groupChat(),
		},
	})

	require.Len(t, events, 1)
	ev, ok := events[0].(plugin.ButtonEvent)
	require.True(t, ok)
	assert.Equal(t, plugin.ButtonRules, ev.ButtonID)
	assert.Equal(t, model.Identity("7"), ev.Sender)
	assert.Equal(t, plugin.MessageRef{ID: "99", Chat: "-100123"}, ev.Message)

	assert.Empty(t, a.onCallback(&gotgbot.CallbackQuery{From: gotgbot.User{Id: 7}, Data: plugin.ButtonRules}))
}

func TestParticipantsFromMembers(t *testing.T) {
	participants := participantsFromMembers([]gotgbot.ChatMember{
		&gotgbot.ChatMemberOwner{User: gotgbot.User{Id: 1, FirstName: "Ann"}},
		&gotgbot.ChatMemberAdministrator{User: gotgbot.User{Id: 2, FirstName: "Bob", LastName: "B"}},
	})

	assert.Equal(t, []plugin.Participant{
		{ID: "1", Name: "Ann", IsSuperAdmin: true},
		{ID: "2", Name: "Bob B", IsAdmin: true},
	}, participants)
}
