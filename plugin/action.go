package plugin

import (
	"time"

	"github.com/nexusdev/groupguard/model"
)

const (
	ButtonRules = "RULES_BUTTON"
	ButtonAdmin = "ADMIN_BUTTON"
)

type ActionKind int

const (
	ActionReply ActionKind = iota
	ActionSend
	ActionDelete
	ActionPurge
	ActionLeave
	ActionSchedule
	ActionCancelScheduled
)

func (k ActionKind) String() string {
	switch k {
	case ActionReply:
		return "reply"
	case ActionSend:
		return "send"
	case ActionDelete:
		return "delete"
	case ActionPurge:
		return "purge"
	case ActionLeave:
		return "leave"
	case ActionSchedule:
		return "schedule"
	case ActionCancelScheduled:
		return "cancel_scheduled"
	default:
		return "unknown"
	}
}

type (
	Button struct {
		ID    string
		Label string
	}

	// Action is an effect the engine asks a transport to perform.
	// Text may contain "@<identity>" tokens for every entry in Mentions;
	// transports render them natively.
	Action struct {
		Kind     ActionKind
		Chat     model.ChatID
		Target   MessageRef
		Messages []MessageRef
		Text     string
		Mentions []model.Identity
		Buttons  []Button
		// FailureNotice is posted to Chat when a delete or purge fails
		FailureNotice string
		Delay         time.Duration
		Then          *Action
	}
)

func Reply(to MessageRef, text string, mentions ...model.Identity) Action {
	return Action{Kind: ActionReply, Chat: to.Chat, Target: to, Text: text, Mentions: mentions}
}

func Send(chat model.ChatID, text string, mentions ...model.Identity) Action {
	return Action{Kind: ActionSend, Chat: chat, Text: text, Mentions: mentions}
}

func Delete(msg MessageRef, failureNotice string) Action {
	return Action{Kind: ActionDelete, Chat: msg.Chat, Target: msg, FailureNotice: failureNotice}
}

// Purge deletes msgs one after another. summary is a format string that
// receives the number of messages actually deleted.
func Purge(chat model.ChatID, msgs []MessageRef, summary, failureNotice string) Action {
	return Action{Kind: ActionPurge, Chat: chat, Messages: msgs, Text: summary, FailureNotice: failureNotice}
}

func Leave(chat model.ChatID) Action {
	return Action{Kind: ActionLeave, Chat: chat}
}

// Schedule runs then after delay. A newer schedule for the same chat
// replaces a pending one.
func Schedule(delay time.Duration, then Action) Action {
	return Action{Kind: ActionSchedule, Chat: then.Chat, Delay: delay, Then: &then}
}

func CancelScheduled(chat model.ChatID) Action {
	return Action{Kind: ActionCancelScheduled, Chat: chat}
}

func (a Action) WithButtons(buttons ...Button) Action {
	a.Buttons = buttons
	return a
}
