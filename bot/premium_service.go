package bot

import (
	"context"
	"errors"
	"time"

	"github.com/nexusdev/groupguard/model"
)

type premiumService struct {
	repo  model.EntitlementRepository
	owner model.Identity
	now   func() time.Time
}

func NewPremiumService(repo model.EntitlementRepository, owner model.Identity) *premiumService {
	return &premiumService{
		repo:  repo,
		owner: owner,
		now:   time.Now,
	}
}

func (service *premiumService) Grant(ctx context.Context, chat model.ChatID, amount int, unit model.DurationUnit, grantedBy model.Identity) (time.Time, error) {
	period, err := model.NewPeriod(amount, unit)
	if err != nil {
		return time.Time{}, err
	}
	return service.GrantPeriod(ctx, chat, period, grantedBy)
}

// GrantPeriod overwrites any previous record. The new expiry counts from
// now, not from the old expiry.
func (service *premiumService) GrantPeriod(ctx context.Context, chat model.ChatID, period model.Period, grantedBy model.Identity) (time.Time, error) {
	if period.IsZero() {
		return time.Time{}, model.ErrInvalidDuration
	}

	expiresAt := period.AddTo(service.now())
	err := service.repo.SaveEntitlement(ctx, model.Entitlement{
		ChatID:    chat,
		ExpiresAt: expiresAt,
		GrantedBy: grantedBy,
	})
	if err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

func (service *premiumService) Status(ctx context.Context, chat model.ChatID) (model.EntitlementStatus, error) {
	e, err := service.repo.GetEntitlement(ctx, chat)
	if errors.Is(err, model.ErrNotFound) {
		return model.EntitlementStatus{}, nil
	}
	if err != nil {
		return model.EntitlementStatus{}, err
	}

	expiresAt := e.ExpiresAt
	return model.EntitlementStatus{
		Active:    expiresAt.After(service.now()),
		ExpiresAt: &expiresAt,
		GrantedBy: e.GrantedBy,
	}, nil
}

func (service *premiumService) OwnerOf(ctx context.Context, chat model.ChatID) (model.Identity, error) {
	e, err := service.repo.GetEntitlement(ctx, chat)
	if errors.Is(err, model.ErrNotFound) {
		return service.owner, nil
	}
	if err != nil {
		return service.owner, err
	}
	if e.GrantedBy == "" {
		return service.owner, nil
	}
	return e.GrantedBy, nil
}
