package repository

import (
	"context"

	"video-digest/domain/model"
)

type IPaymentEvent interface {
	// ApplyCredit records the event and credits the user in one transaction.
	// It returns false without crediting when the event id was already processed.
	ApplyCredit(ctx context.Context, credit model.Credit) (bool, error)
	// MarkProcessed records an event that carries no credit; false on replay.
	MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error)
}
