package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/utils"
	"github.com/rs/xid"
)

type ProcessorOpts struct {
	BotName    string
	Owner      model.Identity
	Vocabulary []string
	Keywords   []string
	LeaveDelay time.Duration
	Location   *time.Location

	Premium model.EntitlementService
	Rules   model.RuleService
	Lookup  plugin.Lookup
	Plugins []plugin.Plugin
}

// Processor turns one inbound event into the actions it causes. It never
// talks to a transport except through Lookup.
type Processor struct {
	botName    string
	owner      model.Identity
	leaveDelay time.Duration
	location   *time.Location

	classifier *Classifier
	filter     *ContentFilter
	premium    model.EntitlementService
	rules      model.RuleService
	lookup     plugin.Lookup
	manager    *managerService
}

func NewProcessor(opts ProcessorOpts) (*Processor, error) {
	if opts.Premium == nil || opts.Rules == nil || opts.Lookup == nil {
		return nil, errors.New("processor needs premium, rules and lookup")
	}
	if opts.Owner == "" {
		return nil, errors.New("bot owner is not set")
	}

	classifier := NewClassifier(opts.Vocabulary)
	manager, err := NewManagerService(classifier.Vocabulary(), opts.Plugins)
	if err != nil {
		return nil, err
	}

	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	return &Processor{
		botName:    opts.BotName,
		owner:      opts.Owner,
		leaveDelay: opts.LeaveDelay,
		location:   location,
		classifier: classifier,
		filter:     NewContentFilter(opts.Keywords),
		premium:    opts.Premium,
		rules:      opts.Rules,
		lookup:     opts.Lookup,
		manager:    manager,
	}, nil
}

func (p *Processor) Process(ctx context.Context, event plugin.Event) []plugin.Action {
	switch ev := event.(type) {
	case plugin.MessageEvent:
		eventsTotal.WithLabelValues("message").Inc()
		return p.onMessage(ctx, ev)
	case plugin.JoinEvent:
		eventsTotal.WithLabelValues("join").Inc()
		return p.onJoin(ctx, ev)
	case plugin.LeaveEvent:
		eventsTotal.WithLabelValues("leave").Inc()
		return p.onLeave(ctx, ev)
	case plugin.ButtonEvent:
		eventsTotal.WithLabelValues("button").Inc()
		return p.onButton(ctx, ev)
	default:
		log.Warn().Str("type", fmt.Sprintf("%T", event)).Msg("Unknown event type")
		return nil
	}
}

func (p *Processor) onMessage(ctx context.Context, ev plugin.MessageEvent) []plugin.Action {
	if ev.FromSelf || (ev.Self != "" && ev.Sender == ev.Self) {
		return nil
	}

	classification := p.classifier.Classify(ev.Body)
	decision := Evaluate(ev.Chat, ev.Sender, ev.Self, p.owner)

	if !classification.Matched {
		return p.filterContent(ctx, ev, decision)
	}

	if ev.Chat.IsGroup && decision.Tier != model.TierBotOwner {
		status, err := p.premium.Status(ctx, ev.Chat.ID)
		if err != nil {
			return p.failure(ev.Message, "engine", classification.Command, err)
		}
		if !status.Active {
			commandsTotal.WithLabelValues(classification.Command, "gated").Inc()
			return p.expiredGate(ctx, ev.Chat)
		}
	}

	return p.onCommand(ctx, ev, classification, decision)
}

func (p *Processor) expiredGate(ctx context.Context, chat plugin.ChatInfo) []plugin.Action {
	owner, err := p.premium.OwnerOf(ctx, chat.ID)
	if err != nil {
		log.Err(err).Str("chat_id", chat.ID.String()).Msg("Failed to look up entitlement owner")
	}

	log.Info().
		Str("chat_id", chat.ID.String()).
		Str("chat", chat.Name).
		Dur("delay", p.leaveDelay).
		Msg("Premium expired, leaving chat")

	return []plugin.Action{
		plugin.Send(chat.ID, p.expiredText(chat.Name, owner), owner),
		plugin.Schedule(p.leaveDelay, plugin.Leave(chat.ID)),
	}
}

func (p *Processor) filterContent(ctx context.Context, ev plugin.MessageEvent, decision plugin.Decision) []plugin.Action {
	if !ev.Chat.IsGroup || decision.Tier.AtLeast(model.TierChatAdmin) {
		return nil
	}
	if !p.filter.IsDisallowed(ev.Body) {
		return nil
	}

	status, err := p.premium.Status(ctx, ev.Chat.ID)
	if err != nil {
		log.Err(err).Str("chat_id", ev.Chat.ID.String()).Msg("Failed to read entitlement, skipping content filter")
		return nil
	}
	if !status.Active {
		return nil
	}

	spamBlockedTotal.Inc()
	log.Info().
		Str("chat_id", ev.Chat.ID.String()).
		Str("chat", ev.Chat.Name).
		Str("sender", ev.Sender.String()).
		Str("sender_name", ev.SenderName).
		Bool("bot_is_admin", decision.BotIsAdmin).
		Msg("Blocked spam")

	if !decision.BotIsAdmin {
		return []plugin.Action{
			plugin.Reply(ev.Message, spamNoDeleteText(ev.Sender), ev.Sender),
		}
	}

	return []plugin.Action{
		plugin.Delete(ev.Message, textDeleteFailed),
		plugin.Send(ev.Chat.ID, spamText(ev.Sender), ev.Sender),
	}
}

func (p *Processor) onCommand(ctx context.Context, ev plugin.MessageEvent, classification Classification, decision plugin.Decision) []plugin.Action {
	cmd, ok := p.manager.Command(classification.Command)
	if !ok {
		return nil
	}
	h := cmd.handler

	if h.GroupOnly && !ev.Chat.IsGroup {
		commandsTotal.WithLabelValues(classification.Command, "group_only").Inc()
		return []plugin.Action{plugin.Reply(ev.Message, textGroupOnly)}
	}

	if !RequireTier(decision.Tier, h.MinTier) || (h.RequireBotAdmin && !decision.BotIsAdmin) {
		commandsTotal.WithLabelValues(classification.Command, "denied").Inc()
		log.Debug().
			Str("command", classification.Command).
			Str("sender", ev.Sender.String()).
			Stringer("tier", decision.Tier).
			Bool("bot_is_admin", decision.BotIsAdmin).
			Err(model.ErrAuthorizationDenied).
			Send()
		return []plugin.Action{plugin.Reply(ev.Message, p.denial(h, decision))}
	}

	log.Info().
		Str("plugin", cmd.plugin).
		Str("command", classification.Command).
		Str("chat_id", ev.Chat.ID.String()).
		Str("sender", ev.Sender.String()).
		Msg("Matched command")

	c := &plugin.Context{
		Chat:     ev.Chat,
		Sender:   ev.Sender,
		Self:     ev.Self,
		Message:  ev.Message,
		Mentions: ev.Mentions,
		Command:  classification.Command,
		Args:     classification.Args,
		Decision: decision,
		Lookup:   p.lookup,
	}
	return p.run(ctx, cmd.plugin, classification.Command, h, c)
}

func (p *Processor) denial(h *plugin.CommandHandler, decision plugin.Decision) string {
	if h.DeniedText != "" {
		return h.DeniedText
	}
	if !RequireTier(decision.Tier, h.MinTier) {
		return deniedText(h.MinTier)
	}
	return textDeniedBot
}

func (p *Processor) onButton(ctx context.Context, ev plugin.ButtonEvent) []plugin.Action {
	btn, ok := p.manager.Button(ev.ButtonID)
	if !ok {
		log.Debug().Str("button", ev.ButtonID).Msg("No handler for button")
		return nil
	}
	if btn.handler.GroupOnly && !ev.Chat.IsGroup {
		return nil
	}

	c := &plugin.Context{
		Chat:     ev.Chat,
		Sender:   ev.Sender,
		Self:     ev.Self,
		Message:  ev.Message,
		Decision: Evaluate(ev.Chat, ev.Sender, ev.Self, p.owner),
		Lookup:   p.lookup,
	}
	return p.run(ctx, btn.plugin, "button:"+ev.ButtonID, btn.handler, c)
}

func (p *Processor) run(ctx context.Context, pluginName, label string, h plugin.Handler, c *plugin.Context) (actions []plugin.Action) {
	defer func() {
		if r := recover(); r != nil {
			guid := xid.New().String()
			log.Err(errors.New("panic")).
				Str("guid", guid).
				Str("chat_id", c.Chat.ID.String()).
				Str("user_id", c.Sender.String()).
				Str("command", label).
				Str("component", pluginName).
				Msgf("%s", r)
			commandsTotal.WithLabelValues(label, "panic").Inc()
			actions = []plugin.Action{c.Reply(textErrorOccurred + utils.EmbedGUID(guid))}
		}
	}()

	result, err := h.Run(ctx, c)
	if err != nil {
		return p.failure(c.Message, pluginName, label, err)
	}

	commandsTotal.WithLabelValues(label, "ok").Inc()
	return result
}

func (p *Processor) failure(msg plugin.MessageRef, component, label string, err error) []plugin.Action {
	guid := xid.New().String()
	log.Err(err).
		Str("guid", guid).
		Str("chat_id", msg.Chat.String()).
		Str("user_id", msg.Sender.String()).
		Str("command", label).
		Str("component", component).
		Send()
	commandsTotal.WithLabelValues(label, "error").Inc()
	return []plugin.Action{plugin.Reply(msg, textErrorOccurred+utils.EmbedGUID(guid))}
}

func (p *Processor) onJoin(ctx context.Context, ev plugin.JoinEvent) []plugin.Action {
	if !ev.Chat.IsGroup {
		return nil
	}

	status, err := p.premium.Status(ctx, ev.Chat.ID)
	if err != nil {
		log.Err(err).Str("chat_id", ev.Chat.ID.String()).Msg("Failed to read entitlement on join")
		return nil
	}

	if ev.Self != "" && ev.Member == ev.Self {
		if !status.Active {
			log.Info().
				Str("chat_id", ev.Chat.ID.String()).
				Str("chat", ev.Chat.Name).
				Msg("Added to chat without premium, leaving")
			return []plugin.Action{
				plugin.Send(ev.Chat.ID, p.rejectedText(ev.Chat.Name), p.owner),
				plugin.Leave(ev.Chat.ID),
			}
		}
		log.Info().Str("chat_id", ev.Chat.ID.String()).Str("chat", ev.Chat.Name).Msg("Added to premium chat")
		return []plugin.Action{plugin.Send(ev.Chat.ID, p.activatedText(ev.Chat.Name, status))}
	}

	count, err := p.rules.Count(ctx, ev.Chat.ID)
	if err != nil {
		log.Err(err).Str("chat_id", ev.Chat.ID.String()).Msg("Failed to count rules")
	}

	log.Info().
		Str("chat_id", ev.Chat.ID.String()).
		Str("chat", ev.Chat.Name).
		Str("member", p.displayName(ctx, ev.Member)).
		Msg("[JOIN]")

	welcome := plugin.Send(ev.Chat.ID, p.welcomeText(ev.Chat.Name, ev.Member, count, status), ev.Member).
		WithButtons(
			plugin.Button{ID: plugin.ButtonRules, Label: "Baca Peraturan Grup"},
			plugin.Button{ID: plugin.ButtonAdmin, Label: "Hubungi Admin"},
		)
	return []plugin.Action{welcome}
}

func (p *Processor) onLeave(ctx context.Context, ev plugin.LeaveEvent) []plugin.Action {
	if !ev.Chat.IsGroup || (ev.Self != "" && ev.Member == ev.Self) {
		return nil
	}

	log.Info().
		Str("chat_id", ev.Chat.ID.String()).
		Str("chat", ev.Chat.Name).
		Str("member", p.displayName(ctx, ev.Member)).
		Msg("[LEAVE]")

	return []plugin.Action{plugin.Send(ev.Chat.ID, farewellText(ev.Chat.Name, ev.Member), ev.Member)}
}

func (p *Processor) displayName(ctx context.Context, id model.Identity) string {
	contact, err := p.lookup.ResolveIdentity(ctx, id)
	if err != nil || contact.Name == "" {
		return id.String()
	}
	return contact.Name
}
