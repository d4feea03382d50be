package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/service"
)

// AuthHandler handles student portal authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles portal login
// @Summary Login student
// @Description Authenticate a student with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Requisição inválida."})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Falha ao autenticar.")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMe handles getting the current student profile
// @Summary Get current student profile
// @Description Get the profile document of the authenticated student
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Não autenticado."})
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), accountID.(string))
	if err != nil {
		respondError(c, err, "Falha ao carregar perfil.")
		return
	}

	c.JSON(http.StatusOK, profile)
}
