package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/service"
	"go.uber.org/zap"
)

// CheckoutHandler handles checkout initiation requests
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// CreateSession handles checkout session creation
// @Summary Create a checkout session
// @Description Validate buyer input and return a hosted checkout redirect URL
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Checkout request"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /checkout/session [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Requisição inválida."})
		return
	}

	response, err := h.checkoutService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		if status, _ := errorStatus(err); status == http.StatusInternalServerError {
			h.logger.Error("Failed to create checkout session", zap.Error(err))
		}
		respondError(c, err, "Erro ao criar sessão de checkout.")
		return
	}

	c.JSON(http.StatusOK, response)
}
