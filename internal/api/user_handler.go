package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/models"
)

const userNotFound = "User profile not found"

// UserHandler handles user-profile related API endpoints.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetCurrentUserProfile handles GET /users/me.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		mapErrorToStatus(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /users/:uid.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		mapErrorToStatus(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUserProfile handles PUT /users/me.
func (h *UserHandler) UpdateCurrentUserProfile(c *gin.Context) {
	var upd models.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	cleanTextPtr(upd.DisplayName)
	cleanTextPtr(upd.Phone)
	cleanTextPtr(upd.Address)

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.GetString(middleware.UserIDKey), upd)
	if err != nil {
		mapErrorToStatus(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadPhoto handles POST /users/me/photo.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	file, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A multipart image upload is required", Details: err.Error()})
		return
	}
	user, err := h.userService.SetPhoto(c.Request.Context(), c.GetString(middleware.UserIDKey), file)
	if err != nil {
		mapErrorToStatus(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: user.PhotoURL, Record: user})
}
