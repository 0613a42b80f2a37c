package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-digest/domain/model"
)

const testSecret = "whsec_test"

// sign builds a Stripe-Signature header for payload.
func sign(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"client_reference_id": "user_abc",
			"customer": "cus_9",
			"payment_status": "paid",
			"metadata": {"userId": "user_abc", "minutesPurchased": "300"}
		}}
	}`)

	gateway := NewStripeGateway("", testSecret, "")
	event, err := gateway.ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, "evt_123", event.ID)
	require.NotNil(t, event.Credit)
	assert.Equal(t, model.Credit{
		EventID:        "evt_123",
		EventType:      EventCheckoutCompleted,
		UserExternalID: "user_abc",
		Minutes:        300,
		CustomerID:     "cus_9",
	}, *event.Credit)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "object": "event", "type": "checkout.session.completed", "data": {"object": {}}}`)

	_, err := NewStripeGateway("", testSecret, "").ParseWebhook(payload, sign(payload, "whsec_other", time.Now()))
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	_, err = NewStripeGateway("", "", "").ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestParseWebhook_SubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_sub",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_1", "object": "subscription", "customer": "cus_9", "status": "active", "metadata": {}}}
	}`)

	event, err := NewStripeGateway("", testSecret, "").ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Nil(t, event.Credit)
	assert.Equal(t, "cus_9", event.CustomerID)
	assert.Equal(t, model.SubscriptionCanceled, event.Status)
}

func TestParseWebhook_MissingMinutesIsAcknowledged(t *testing.T) {
	payload := []byte(`{
		"id": "evt_bad",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "object": "checkout.session", "client_reference_id": "user_abc", "payment_status": "paid", "metadata": {}}}
	}`)

	event, err := NewStripeGateway("", testSecret, "").ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_bad", event.ID)
	assert.Nil(t, event.Credit)
}

func TestParseWebhook_UnpaidSessionWaitsForAsyncPayment(t *testing.T) {
	session := `{"id": "cs_2", "object": "checkout.session", "customer": "cus_9", "payment_status": "%s", "metadata": {"userId": "user_abc", "minutesPurchased": "120"}}`
	gateway := NewStripeGateway("", testSecret, "")

	completed := []byte(fmt.Sprintf(`{"id": "evt_done", "object": "event", "type": "checkout.session.completed", "data": {"object": `+session+`}}`, "unpaid"))
	event, err := gateway.ParseWebhook(completed, sign(completed, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Nil(t, event.Credit)

	paid := []byte(fmt.Sprintf(`{"id": "evt_paid", "object": "event", "type": "checkout.session.async_payment_succeeded", "data": {"object": `+session+`}}`, "paid"))
	event, err = gateway.ParseWebhook(paid, sign(paid, testSecret, time.Now()))
	require.NoError(t, err)
	require.NotNil(t, event.Credit)
	assert.Equal(t, 120, event.Credit.Minutes)
	assert.Equal(t, EventAsyncPaymentPaid, event.Credit.EventType)
	assert.Equal(t, "evt_paid", event.Credit.EventID)
}
