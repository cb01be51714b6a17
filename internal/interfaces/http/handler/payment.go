package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apporder "github.com/store/backend/internal/application/order"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/infrastructure/logger"
	"github.com/store/backend/internal/interfaces/http/dto"
)

// SignatureHeader is the gateway's webhook signature header
const SignatureHeader = "x-paystack-signature"

// PaymentHandler handles payment verification and gateway webhooks
type PaymentHandler struct {
	BaseHandler
	settlementService *apporder.SettlementService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(settlementService *apporder.SettlementService) *PaymentHandler {
	return &PaymentHandler{settlementService: settlementService}
}

// Verify checks a payment reference against the gateway and settles the
// order accordingly. Called by the storefront after the hosted payment page
// redirects back.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Payment reference is required")
		return
	}

	resp, err := h.settlementService.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Webhook receives asynchronous gateway notifications. A bad signature is
// rejected with 401; every authenticated delivery is acknowledged with
// 200 {success:true} even when settlement fails internally, so the gateway
// does not retry events we have to reconcile ourselves. Failures land in
// the log.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	signature := c.GetHeader(SignatureHeader)
	err = h.settlementService.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidSignature) {
			h.Error(c, http.StatusUnauthorized, shared.ErrInvalidSignature.Code, shared.ErrInvalidSignature.Message)
			return
		}

		logger.GetGinLogger(c).Error("Webhook settlement failed",
			zap.Error(err),
			zap.Int("payload_size", len(payload)),
		)
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}
