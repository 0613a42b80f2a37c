package persistence

import (
	"context"
	"fmt"

	"video-digest/domain/model"
	"video-digest/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentEventRepository struct{ db *gorm.DB }

func NewPaymentEventRepository(db *gorm.DB) repository.IPaymentEvent {
	return &PaymentEventRepository{db: db}
}

// ApplyCredit inserts the event row first; a conflict means the provider
// redelivered an event we already credited.
func (r *PaymentEventRepository) ApplyCredit(ctx context.Context, credit model.Credit) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := model.PaymentEvent{
			EventID:         credit.EventID,
			Type:            credit.EventType,
			UserExternalID:  credit.UserExternalID,
			MinutesCredited: credit.Minutes,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&event)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		updates := map[string]interface{}{
			"minutes_purchased": gorm.Expr("minutes_purchased + ?", credit.Minutes),
		}
		if credit.CustomerID != "" {
			updates["payment_customer_id"] = credit.CustomerID
		}
		res = tx.Model(&model.User{}).Where("external_id = ?", credit.UserExternalID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Paid before ever calling the API; start the account with the credit.
			user := model.User{
				ExternalID:         credit.UserExternalID,
				MinutesPurchased:   credit.Minutes,
				SubscriptionStatus: model.SubscriptionNone,
				PaymentCustomerID:  credit.CustomerID,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("apply credit %s: %w", credit.EventID, err)
	}
	return applied, nil
}

func (r *PaymentEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.PaymentEvent{EventID: eventID, Type: eventType})
	if res.Error != nil {
		return false, fmt.Errorf("mark event %s: %w", eventID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
