package bot

import (
	"context"
	"time"

	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/plugin"
)

var log = logger.New("bot")

// Bot serializes events from any number of transports and processes them
// one at a time.
type Bot struct {
	processor *Processor
	executor  *Executor
	events    chan plugin.Event
}

func New(processor *Processor, executor *Executor) *Bot {
	return &Bot{
		processor: processor,
		executor:  executor,
		events:    make(chan plugin.Event, 64),
	}
}

// Submit queues ev. It blocks while the queue is full.
func (b *Bot) Submit(ctx context.Context, ev plugin.Event) error {
	select {
	case b.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes queued events until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	log.Info().Msg("Processing events")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-b.events:
			b.Handle(ctx, ev)
		}
	}
}

func (b *Bot) Handle(ctx context.Context, ev plugin.Event) {
	start := time.Now()
	actions := b.processor.Process(ctx, ev)
	b.executor.Execute(ctx, actions)
	eventDuration.Observe(time.Since(start).Seconds())
}
