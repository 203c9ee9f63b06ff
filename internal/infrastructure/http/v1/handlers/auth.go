package handlers

import (
	"github.com/gin-gonic/gin"

	"fifostock/internal/domain/auth"
	"fifostock/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), auth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{
		User:        dto.FromUser(result.User),
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
	})
}

// Register handles POST /api/v1/users. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromUser(user))
}

// List handles GET /api/v1/users. Admin only.
func (h *AuthHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	h.OK(c, dto.ListResponse{Items: out, Count: len(out)})
}
