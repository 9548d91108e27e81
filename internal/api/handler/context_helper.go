package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxUserID       = "user_id"
	CtxRole         = "role"
	CtxInstructorID = "instructor_id"
	CtxTokenJTI     = "token_jti"
	CtxTokenExp     = "token_exp"
)

// MustGetUserID extracts user_id from the Gin context.
// When the JWT middleware did not set it, a 401 is written and ok is false;
// the caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxUserID)
}

// MustGetRole extracts role from the Gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxRole)
}

// GetInstructorID instructor profile of the caller, empty for non-instructors.
func GetInstructorID(c *gin.Context) string {
	return c.GetString(CtxInstructorID)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// tokenExpiry jti and expiry of the bearer token, for revocation.
func tokenExpiry(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(CtxTokenJTI)
	exp, ok := c.Get(CtxTokenExp)
	if jti == "" || !ok {
		return "", time.Time{}, false
	}
	t, ok := exp.(time.Time)
	return jti, t, ok
}
