package repository

import (
	"context"

	"video-digest/domain/model"
)

// WebhookEvent is a verified provider event reduced to what the service acts on.
type WebhookEvent struct {
	ID         string
	Type       string
	Credit     *model.Credit
	CustomerID string
	UserID     string
	Status     string
}

type CheckoutRequest struct {
	UserExternalID string
	Email          string
	Minutes        int
	SuccessURL     string
	CancelURL      string
}

type IPaymentGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
	// ParseWebhook verifies the signature before decoding anything.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
