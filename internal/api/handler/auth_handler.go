package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// TokenRevoker blacklists a token id until it would have expired anyway.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthHandler session endpoints. Tokens are issued by the identity service;
// this service only verifies and revokes them.
type AuthHandler struct {
	userSvc service.UserService
	revoker TokenRevoker
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(userSvc service.UserService, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, revoker: revoker}
}

// Me current caller
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{
		"user_id":       userID,
		"role":          role,
		"instructor_id": GetInstructorID(c),
		"user":          user,
	})
}

// Logout revokes the bearer token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoker == nil {
		response.Error(c, http.StatusServiceUnavailable, 10006, "token revocation is not available")
		return
	}
	jti, exp, ok := tokenExpiry(c)
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return
	}

	ttl := time.Until(exp)
	if ttl <= 0 {
		response.OK(c, nil)
		return
	}
	if err := h.revoker.BlacklistToken(c.Request.Context(), jti, ttl); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
