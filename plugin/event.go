package plugin

import (
	"time"

	"github.com/nexusdev/groupguard/model"
)

type (
	Participant struct {
		ID           model.Identity
		Name         string
		IsAdmin      bool
		IsSuperAdmin bool
	}

	// ChatInfo is the snapshot a transport attaches to every event.
	ChatInfo struct {
		ID      model.ChatID
		Name    string
		IsGroup bool
		// CreatedAt is zero when the transport does not know it
		CreatedAt time.Time
		// Participants holds at least every admin of a group
		Participants []Participant
		// MemberCount overrides len(Participants) when the roster is partial
		MemberCount int
	}

	// MessageRef points at a message that can be replied to or deleted.
	MessageRef struct {
		ID     string
		Chat   model.ChatID
		Sender model.Identity
	}

	Event interface {
		EventChat() ChatInfo
	}

	MessageEvent struct {
		Chat       ChatInfo
		Sender     model.Identity
		SenderName string
		Self       model.Identity
		Message    MessageRef
		Body       string
		Mentions   []model.Identity
		FromSelf   bool
	}

	JoinEvent struct {
		Chat   ChatInfo
		Self   model.Identity
		Member model.Identity
	}

	LeaveEvent struct {
		Chat   ChatInfo
		Self   model.Identity
		Member model.Identity
	}

	ButtonEvent struct {
		Chat     ChatInfo
		Sender   model.Identity
		Self     model.Identity
		Message  MessageRef
		ButtonID string
	}
)

func (e MessageEvent) EventChat() ChatInfo { return e.Chat }
func (e JoinEvent) EventChat() ChatInfo    { return e.Chat }
func (e LeaveEvent) EventChat() ChatInfo   { return e.Chat }
func (e ButtonEvent) EventChat() ChatInfo  { return e.Chat }

// Admins returns the participants flagged as admin, in roster order.
func (c ChatInfo) Admins() []Participant {
	var admins []Participant
	for _, p := range c.Participants {
		if p.IsAdmin || p.IsSuperAdmin {
			admins = append(admins, p)
		}
	}
	return admins
}

func (c ChatInfo) IsAdmin(id model.Identity) bool {
	for _, p := range c.Participants {
		if p.ID == id {
			return p.IsAdmin || p.IsSuperAdmin
		}
	}
	return false
}

// Creator returns the super admin of the chat, if the transport knows one.
func (c ChatInfo) Creator() (Participant, bool) {
	for _, p := range c.Participants {
		if p.IsSuperAdmin {
			return p, true
		}
	}
	return Participant{}, false
}

func (c ChatInfo) Size() int {
	if c.MemberCount > 0 {
		return c.MemberCount
	}
	return len(c.Participants)
}
