package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/identity"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/models"
)

// AuthHandler handles sign-up, sign-in and session endpoints.
type AuthHandler struct {
	authService core.AuthService
	// google is nil when Google sign-in is not configured.
	google       *identity.GoogleFederation
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as core.AuthService, google *identity.GoogleFederation, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: as, google: google, secureCookie: secureCookie}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	req.DisplayName = cleanText(req.DisplayName)
	req.Phone = cleanText(req.Phone)
	req.Address = cleanText(req.Address)

	session, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		mapAuthErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	session, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		mapAuthErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GoogleStart handles GET /auth/google/start by redirecting to Google's
// consent screen.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}
	authURL, sealed, err := h.google.Begin()
	if err != nil {
		mapErrorToStatus(c, err, "")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(identity.StateCookieName, sealed, 600, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback handles GET /auth/google/callback and returns the session.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}
	if reason := c.Query("error"); reason != "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Google sign-in was cancelled", Details: reason})
		return
	}
	sealed, err := c.Cookie(identity.StateCookieName)
	if err != nil {
		mapAuthErrorToStatus(c, identity.ErrStateMismatch)
		return
	}
	c.SetCookie(identity.StateCookieName, "", -1, "/", "", h.secureCookie, true)

	idToken, err := h.google.Complete(c.Request.Context(), sealed, c.Query("state"), c.Query("code"))
	if err != nil {
		mapAuthErrorToStatus(c, err)
		return
	}
	session, err := h.authService.SignInWithProvider(c.Request.Context(), identity.GoogleProviderID, idToken)
	if err != nil {
		mapAuthErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me handles GET /auth/me. It answers null instead of 401 when the caller
// is not signed in.
func (h *AuthHandler) Me(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SignOut handles POST /auth/signout and revokes the caller's refresh tokens.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), c.GetString(middleware.UserIDKey)); err != nil {
		mapAuthErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}
