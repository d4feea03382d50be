package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/service"
	"go.uber.org/zap"
)

const webhookSignatureHeader = "Stripe-Signature"

// WebhookHandler handles inbound payment processor events
type WebhookHandler struct {
	webhookService service.WebhookService
	logger         *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService service.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// HandleEvent handles a payment webhook delivery
// @Summary Process a payment processor webhook
// @Description Verify the event signature and provision access on confirmed payment
// @Tags webhook
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stripe/webhook [post]
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	signature := c.GetHeader(webhookSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Assinatura ausente."})
		return
	}

	// The raw body is required for signature validation.
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Corpo da requisição inválido."})
		return
	}

	if err := h.webhookService.HandleEvent(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Assinatura inválida."})
			return
		}

		// A non-2xx response makes the processor redeliver the event; the
		// idempotency record keeps the retry safe.
		h.logger.Error("Failed to process webhook event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Falha ao processar webhook."})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
