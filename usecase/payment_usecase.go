package usecase

import (
	"context"
	"errors"
	"fmt"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/events"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/metrics"
)

const (
	MinCheckoutMinutes = 10
	MaxCheckoutMinutes = 10000
)

type WebhookResult struct {
	EventID string `json:"eventId"`
	Type    string `json:"type"`
	Applied bool   `json:"applied"`
}

type IPaymentUsecase interface {
	CreateCheckout(ctx context.Context, user *model.User, minutes int) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
}

type PaymentUsecase struct {
	gateway  repository.IPaymentGateway
	payments repository.IPaymentEvent
	users    repository.IUser
	notifier *events.Notifier
	metrics  *metrics.Metrics
	baseURL  string
}

func NewPaymentUsecase(
	gateway repository.IPaymentGateway,
	payments repository.IPaymentEvent,
	users repository.IUser,
	notifier *events.Notifier,
	m *metrics.Metrics,
	baseURL string,
) IPaymentUsecase {
	return &PaymentUsecase{gateway: gateway, payments: payments, users: users, notifier: notifier, metrics: m, baseURL: baseURL}
}

func (u *PaymentUsecase) CreateCheckout(ctx context.Context, user *model.User, minutes int) (string, error) {
	if minutes < MinCheckoutMinutes || minutes > MaxCheckoutMinutes {
		return "", apperror.New(apperror.KindValidation, fmt.Sprintf("minutes must be between %d and %d", MinCheckoutMinutes, MaxCheckoutMinutes))
	}
	url, err := u.gateway.CreateCheckout(ctx, repository.CheckoutRequest{
		UserExternalID: user.ExternalID,
		Email:          user.Email,
		Minutes:        minutes,
		SuccessURL:     u.baseURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      u.baseURL + "/billing/cancel",
	})
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return "", err
		}
		return "", apperror.Wrap(apperror.KindUpstream, "could not start checkout", err)
	}
	return url, nil
}

// HandleWebhook verifies the signature before anything else. Redelivered
// events are acknowledged without being applied again.
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := u.gateway.ParseWebhook(payload, signature)
	if err != nil {
		u.metrics.WebhookEvent("unknown", "rejected")
		logger.GetLogger().WithField("error", err).Warn("rejected payment webhook")
		return nil, apperror.Wrap(apperror.KindValidation, "invalid webhook payload or signature", err)
	}

	result := &WebhookResult{EventID: event.ID, Type: event.Type}
	switch {
	case event.Credit != nil:
		applied, err := u.payments.ApplyCredit(ctx, *event.Credit)
		if err != nil {
			u.metrics.WebhookEvent(event.Type, "error")
			return nil, apperror.Wrap(apperror.KindInternal, "failed to apply credit", err)
		}
		result.Applied = applied
		if applied {
			u.notifier.Notify(ctx, model.EventCreditApplied, details{
				"userId":  event.Credit.UserExternalID,
				"minutes": event.Credit.Minutes,
				"eventId": event.ID,
			})
		}

	case event.Status != "":
		err := u.users.SetSubscriptionStatus(ctx, event.CustomerID, event.UserID, event.Status)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			u.metrics.WebhookEvent(event.Type, "error")
			return nil, apperror.Wrap(apperror.KindInternal, "failed to update subscription", err)
		}
		if errors.Is(err, repository.ErrNotFound) {
			logger.GetLogger().WithField("customerId", event.CustomerID).Warn("subscription event for unknown customer")
		}
		result.Applied, err = u.payments.MarkProcessed(ctx, event.ID, event.Type)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to record event", err)
		}

	default:
		if _, err := u.payments.MarkProcessed(ctx, event.ID, event.Type); err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "failed to record event", err)
		}
	}

	outcome := "ignored"
	if event.Credit != nil || event.Status != "" {
		outcome = "applied"
		if !result.Applied {
			outcome = "replayed"
		}
	}
	u.metrics.WebhookEvent(event.Type, outcome)
	logger.GetLogger().WithField("eventId", event.ID).WithField("type", event.Type).WithField("outcome", outcome).Info("payment webhook handled")
	return result, nil
}
