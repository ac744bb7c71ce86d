package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/models"
)

// Context keys set by VerifyToken.
const (
	UserIDKey      = "userID"
	UserEmailKey   = "userEmail"
	UserDisplayKey = "userDisplayName"
	AuthUserKey    = "authUser"
)

// ErrorResponse mirrors api.ErrorResponse; redefined here to avoid an
// import cycle with internal/api.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier resolves an ID token to the signed-in identity.
type TokenVerifier interface {
	CurrentUser(ctx context.Context, idToken string) (*models.AuthUser, error)
}

// AuthMiddleware provides Gin middleware for ID token authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a non-nil TokenVerifier")
	}
	return &AuthMiddleware{verifier: verifier}
}

// VerifyToken rejects requests without a valid bearer ID token and stores
// the caller's identity in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the ID token from the Authorization header.
		idToken, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		// Verify the token with the identity provider. Expired, malformed
		// and revoked tokens all end up here.
		user, err := m.verifier.CurrentUser(c.Request.Context(), idToken)
		if err != nil {
			// Keep the cause for the request logger, not for the client.
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		// Store user information in context for downstream handlers.
		c.Set(UserIDKey, user.UID)
		c.Set(UserEmailKey, user.Email)
		c.Set(UserDisplayKey, user.DisplayName)
		c.Set(AuthUserKey, user)

		// Continue to the next handler.
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	// Expected format: "Bearer <token>". The scheme is case-insensitive.
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the identity stored by VerifyToken.
func CurrentUser(c *gin.Context) (*models.AuthUser, bool) {
	raw, ok := c.Get(AuthUserKey)
	if !ok {
		return nil, false
	}
	user, ok := raw.(*models.AuthUser)
	return user, ok && user != nil
}
