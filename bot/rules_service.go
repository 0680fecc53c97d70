package bot

import (
	"context"
	"strings"

	"github.com/nexusdev/groupguard/model"
)

type ruleService struct {
	repo model.RuleRepository
}

func NewRuleService(repo model.RuleRepository) *ruleService {
	return &ruleService{repo: repo}
}

func (service *ruleService) Append(ctx context.Context, chat model.ChatID, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, model.ErrEmptyRule
	}
	return service.repo.AppendRule(ctx, chat, text)
}

func (service *ruleService) RemoveAt(ctx context.Context, chat model.ChatID, position int) (string, error) {
	count, err := service.Count(ctx, chat)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", model.ErrEmpty
	}
	if position < 1 || position > count {
		return "", model.ErrOutOfRange
	}
	return service.repo.RemoveRule(ctx, chat, position)
}

func (service *ruleService) List(ctx context.Context, chat model.ChatID) ([]model.Rule, error) {
	texts, err := service.repo.ListRules(ctx, chat)
	if err != nil {
		return nil, err
	}

	rules := make([]model.Rule, 0, len(texts))
	for i, text := range texts {
		rules = append(rules, model.Rule{Position: i + 1, Text: text})
	}
	return rules, nil
}

func (service *ruleService) Count(ctx context.Context, chat model.ChatID) (int, error) {
	texts, err := service.repo.ListRules(ctx, chat)
	if err != nil {
		return 0, err
	}
	return len(texts), nil
}
