package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventAsyncPaymentPaid    = "checkout.session.async_payment_succeeded"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"

	metadataUserID  = "userId"
	metadataMinutes = "minutesPurchased"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	priceID       string
}

// NewStripeGateway expects priceID to be a per-minute price.
func NewStripeGateway(secretKey, webhookSecret, priceID string) repository.IPaymentGateway {
	var api *client.API
	if secretKey != "" {
		api = client.New(secretKey, nil)
	}
	return &StripeGateway{api: api, webhookSecret: webhookSecret, priceID: priceID}
}

func (g *StripeGateway) CreateCheckout(ctx context.Context, req repository.CheckoutRequest) (string, error) {
	if g.api == nil || g.priceID == "" {
		return "", apperror.New(apperror.KindUpstream, "payments are not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.UserExternalID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(g.priceID),
			Quantity: stripe.Int64(int64(req.Minutes)),
		}},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, req.UserExternalID)
	params.AddMetadata(metadataMinutes, strconv.Itoa(req.Minutes))

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", apperror.Wrap(apperror.KindUpstream, "could not create checkout session", err)
	}
	return session.URL, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*repository.WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("%w: no webhook secret configured", ErrInvalidSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &repository.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch out.Type {
	case EventCheckoutCompleted, EventAsyncPaymentPaid:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		entry := logger.GetLogger().WithField("eventId", event.ID).WithField("session", session.ID)
		// Delayed payment methods complete the session unpaid and follow up
		// with async_payment_succeeded.
		if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
			entry.WithField("paymentStatus", session.PaymentStatus).Info("Checkout session not paid yet, nothing credited")
			return out, nil
		}
		credit, err := creditFromSession(event.ID, out.Type, &session)
		if err != nil {
			entry.WithField("error", err).Warn("Checkout session cannot be credited, acknowledging")
			return out, nil
		}
		out.Credit = credit
		out.UserID = credit.UserExternalID
		out.CustomerID = credit.CustomerID

	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		out.UserID = sub.Metadata[metadataUserID]
		out.Status = subscriptionStatus(out.Type, sub.Status)
	}
	return out, nil
}

func creditFromSession(eventID, eventType string, session *stripe.CheckoutSession) (*model.Credit, error) {
	userID := session.Metadata[metadataUserID]
	if userID == "" {
		userID = session.ClientReferenceID
	}
	if userID == "" {
		return nil, errors.New("checkout session carries no user reference")
	}
	minutes, err := strconv.Atoi(session.Metadata[metadataMinutes])
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("checkout session has invalid %s metadata %q", metadataMinutes, session.Metadata[metadataMinutes])
	}

	credit := &model.Credit{
		EventID:        eventID,
		EventType:      eventType,
		UserExternalID: userID,
		Minutes:        minutes,
	}
	if session.Customer != nil {
		credit.CustomerID = session.Customer.ID
	}
	return credit, nil
}

func subscriptionStatus(eventType string, status stripe.SubscriptionStatus) string {
	if eventType == EventSubscriptionDeleted {
		return model.SubscriptionCanceled
	}
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return model.SubscriptionActive
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusIncompleteExpired:
		return model.SubscriptionCanceled
	default:
		return string(status)
	}
}
