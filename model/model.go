package model

type (
	// ChatID addresses a group or a direct conversation. Its format belongs
	// to the transport that produced it.
	ChatID string

	// Identity addresses a participant, the bot owner or the bot itself.
	Identity string
)

func (c ChatID) String() string {
	return string(c)
}

func (i Identity) String() string {
	return string(i)
}

// Tier is the privilege level of a sender relative to one chat.
// Higher tiers include everything lower tiers may do.
type Tier int

const (
	TierMember Tier = iota
	TierChatAdmin
	TierBotOwner
)

func (t Tier) String() string {
	switch t {
	case TierMember:
		return "member"
	case TierChatAdmin:
		return "chat_admin"
	case TierBotOwner:
		return "bot_owner"
	default:
		return "unknown"
	}
}

// AtLeast reports whether t satisfies the required tier.
func (t Tier) AtLeast(required Tier) bool {
	return t >= required
}
