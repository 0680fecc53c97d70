package bot

import (
	"context"
	"fmt"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
)

// Transport performs actions against a chat network.
type Transport interface {
	plugin.Lookup
	SendReply(ctx context.Context, to plugin.MessageRef, text string, mentions []model.Identity, buttons []plugin.Button) error
	SendToChat(ctx context.Context, chat model.ChatID, text string, mentions []model.Identity, buttons []plugin.Button) error
	DeleteMessage(ctx context.Context, msg plugin.MessageRef) error
	LeaveChat(ctx context.Context, chat model.ChatID) error
}

// Executor hands actions to the transport. Failures are logged and never
// stop the remaining actions of a sequence.
type Executor struct {
	transport Transport
	scheduler *Scheduler
}

func NewExecutor(transport Transport, scheduler *Scheduler) *Executor {
	return &Executor{
		transport: transport,
		scheduler: scheduler,
	}
}

func (e *Executor) Execute(ctx context.Context, actions []plugin.Action) {
	for _, a := range actions {
		e.execute(ctx, a)
	}
}

func (e *Executor) execute(ctx context.Context, a plugin.Action) {
	var err error

	switch a.Kind {
	case plugin.ActionReply:
		err = e.transport.SendReply(ctx, a.Target, a.Text, a.Mentions, a.Buttons)
	case plugin.ActionSend:
		err = e.transport.SendToChat(ctx, a.Chat, a.Text, a.Mentions, a.Buttons)
	case plugin.ActionDelete:
		if err := e.transport.DeleteMessage(ctx, a.Target); err != nil {
			e.fail(a, err)
			if a.FailureNotice != "" {
				e.notify(ctx, a.Chat, a.FailureNotice)
			}
		}
		return
	case plugin.ActionPurge:
		e.purge(ctx, a)
		return
	case plugin.ActionLeave:
		err = e.transport.LeaveChat(ctx, a.Chat)
		if err == nil {
			log.Info().Str("chat_id", a.Chat.String()).Msg("Left chat")
		}
	case plugin.ActionSchedule:
		if a.Then == nil {
			log.Warn().Str("chat_id", a.Chat.String()).Msg("Scheduled action without payload")
			return
		}
		then := *a.Then
		detached := context.WithoutCancel(ctx)
		scheduled := e.scheduler.Schedule(a.Chat, a.Delay, func() {
			e.execute(detached, then)
		})
		log.Debug().
			Str("chat_id", a.Chat.String()).
			Stringer("action", then.Kind).
			Dur("delay", a.Delay).
			Bool("scheduled", scheduled).
			Msg("Scheduled action")
	case plugin.ActionCancelScheduled:
		if e.scheduler.Cancel(a.Chat) {
			log.Info().Str("chat_id", a.Chat.String()).Msg("Cancelled scheduled leave")
		}
	default:
		log.Warn().Stringer("action", a.Kind).Msg("Unknown action")
	}

	if err != nil {
		e.fail(a, err)
	}
}

func (e *Executor) purge(ctx context.Context, a plugin.Action) {
	deleted := 0
	var failure error
	for _, msg := range a.Messages {
		if err := e.transport.DeleteMessage(ctx, msg); err != nil {
			failure = err
			break
		}
		deleted++
	}

	if failure != nil {
		e.fail(a, failure)
	}

	if a.Text != "" && (deleted > 0 || failure == nil) {
		e.notify(ctx, a.Chat, fmt.Sprintf(a.Text, deleted))
	}
	if failure != nil && a.FailureNotice != "" {
		e.notify(ctx, a.Chat, a.FailureNotice)
	}
}

func (e *Executor) notify(ctx context.Context, chat model.ChatID, text string) {
	if err := e.transport.SendToChat(ctx, chat, text, nil, nil); err != nil {
		e.fail(plugin.Send(chat, text), err)
	}
}

func (e *Executor) fail(a plugin.Action, err error) {
	transportFailuresTotal.WithLabelValues(a.Kind.String()).Inc()
	log.Err(fmt.Errorf("%w: %w", model.ErrTransportFailure, err)).
		Str("chat_id", a.Chat.String()).
		Stringer("action", a.Kind).
		Msg("Action failed")
}
