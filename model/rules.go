package model

import "context"

type (
	// Rule is one numbered entry of a chat's rule book. Positions start at 1.
	Rule struct {
		Position int
		Text     string
	}

	RuleRepository interface {
		AppendRule(ctx context.Context, chat ChatID, text string) (int, error)
		// RemoveRule deletes the rule at the 1-based position and returns its
		// text. Returns ErrOutOfRange when no rule lives at that position.
		RemoveRule(ctx context.Context, chat ChatID, position int) (string, error)
		ListRules(ctx context.Context, chat ChatID) ([]string, error)
	}

	RuleService interface {
		Append(ctx context.Context, chat ChatID, text string) (int, error)
		RemoveAt(ctx context.Context, chat ChatID, position int) (string, error)
		List(ctx context.Context, chat ChatID) ([]Rule, error)
		Count(ctx context.Context, chat ChatID) (int, error)
	}
)
