package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/service"
	"go.uber.org/zap"
)

// ClaimHandler handles credential claim and password reset requests
type ClaimHandler struct {
	claimService service.ClaimService
	logger       *zap.Logger
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(claimService service.ClaimService, logger *zap.Logger) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
		logger:       logger,
	}
}

// SetPassword handles claim token redemption
// @Summary Set a password with a claim token
// @Description Validate a one-time claim token and apply the new credential
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SetPasswordRequest true "Set password request"
// @Success 200 {object} dto.SetPasswordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/set-password [post]
func (h *ClaimHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Requisição inválida."})
		return
	}

	requestID, err := h.claimService.SetPassword(c.Request.Context(), &req)
	if err != nil {
		status, message := errorStatus(err)
		if status == http.StatusInternalServerError {
			message = "Falha ao definir senha."
			h.logger.Error("Failed to set password",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
		c.JSON(status, dto.ErrorResponse{Error: message, RequestID: requestID})
		return
	}

	c.JSON(http.StatusOK, dto.SetPasswordResponse{OK: true, RequestID: requestID})
}

// ForgotPassword handles password reset requests
// @Summary Request a password reset
// @Description Issue a password reset token and email its claim URL
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *ClaimHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Requisição inválida."})
		return
	}

	if err := h.claimService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if status, _ := errorStatus(err); status == http.StatusInternalServerError {
			h.logger.Error("Failed to process forgot password", zap.Error(err))
		}
		respondError(c, err, "Não foi possível enviar o e-mail.")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{OK: true})
}
