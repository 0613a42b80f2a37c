package usecase

import (
	"context"
	"strings"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
)

type QuotaView struct {
	UserID             string           `json:"userId"`
	Email              string           `json:"email"`
	FreeMinutes        int              `json:"freeMinutes"`
	MinutesPurchased   int              `json:"minutesPurchased"`
	MinutesUsed        int              `json:"minutesUsed"`
	RemainingMinutes   int              `json:"remainingMinutes"`
	SubscriptionStatus string           `json:"subscriptionStatus"`
	RecentUsage        []model.UsageLog `json:"recentUsage"`
}

type IUserUsecase interface {
	EnsureUser(ctx context.Context, externalID, email string) (*model.User, error)
	Quota(ctx context.Context, user *model.User) (*QuotaView, error)
}

type UserUsecase struct {
	users       repository.IUser
	usage       repository.IUsage
	freeMinutes int
}

func NewUserUsecase(users repository.IUser, usage repository.IUsage, freeMinutes int) IUserUsecase {
	return &UserUsecase{users: users, usage: usage, freeMinutes: freeMinutes}
}

func (u *UserUsecase) EnsureUser(ctx context.Context, externalID, email string) (*model.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperror.New(apperror.KindUnauthorized, "token has no subject")
	}
	user, err := u.users.EnsureUser(ctx, externalID, strings.TrimSpace(email))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load user", err)
	}
	return user, nil
}

// Quota re-reads the user so counters reflect writes made earlier in the request.
func (u *UserUsecase) Quota(ctx context.Context, user *model.User) (*QuotaView, error) {
	fresh, err := u.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load user", err)
	}
	recent, err := u.usage.ListUsage(ctx, user.ID, 20)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load usage", err)
	}
	if recent == nil {
		recent = []model.UsageLog{}
	}
	return &QuotaView{
		UserID:             fresh.ExternalID,
		Email:              fresh.Email,
		FreeMinutes:        u.freeMinutes,
		MinutesPurchased:   fresh.MinutesPurchased,
		MinutesUsed:        fresh.MinutesUsed,
		RemainingMinutes:   fresh.RemainingMinutes(u.freeMinutes),
		SubscriptionStatus: fresh.SubscriptionStatus,
		RecentUsage:        recent,
	}, nil
}
