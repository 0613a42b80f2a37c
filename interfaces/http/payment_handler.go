package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/dto"
	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

const maxWebhookBytes = 64 << 10

type IPaymentHandler interface {
	Checkout(c *gin.Context)
	Webhook(c *gin.Context)
}

type PaymentHandler struct {
	paymentUsecase usecase.IPaymentUsecase
}

func NewPaymentHandler(paymentUsecase usecase.IPaymentUsecase) IPaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// Checkout handles POST /checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Bind(c, err)
		return
	}
	url, err := h.paymentUsecase.CreateCheckout(c.Request.Context(), user, req.Minutes)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, dto.CheckoutRes{URL: url})
}

// Webhook handles POST /webhooks/stripe. The raw body is needed for the
// signature check, so it is read before any decoding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(c, apperror.Wrap(apperror.KindValidation, "webhook body too large or unreadable", err))
		return
	}
	res, err := h.paymentUsecase.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, res)
}
