package handler

import (
	"errors"
	"net/http"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/service"
	"github.com/gin-gonic/gin"
)

// UserResponse profile envelope
type UserResponse struct {
	User *domain.User `json:"user"`
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondBodyError(c, errBodyTooLarge)
			return false
		}
		common.ErrorResponse(c, http.StatusBadRequest, common.PublicMessage(common.ErrInvalidBody), err)
		return false
	}
	return true
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Creates an account and returns it with a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.CredentialsRequest true "Credentials"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} common.ErrorBody
// @Failure 409 {object} common.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/auth/login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.CredentialsRequest true "Credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh handles POST /api/auth/refresh
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "Refresh token"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} common.ErrorBody
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Profile handles GET /api/auth/profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}
