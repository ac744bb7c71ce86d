package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/models"
)

const ngoNotFound = "NGO not found"

// NGOHandler handles NGO registration endpoints.
type NGOHandler struct {
	ngoService core.NGOService
}

// NewNGOHandler creates a new NGOHandler.
func NewNGOHandler(ns core.NGOService) *NGOHandler {
	return &NGOHandler{ngoService: ns}
}

// RegisterNGO handles POST /ngos. The NGO is stored under the caller's UID.
func (h *NGOHandler) RegisterNGO(c *gin.Context) {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not found in context"})
		return
	}
	var req models.CreateNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	req.Name = cleanText(req.Name)
	req.Description = cleanText(req.Description)
	req.Address = cleanText(req.Address)
	req.Phone = cleanText(req.Phone)
	req.Website = cleanText(req.Website)

	ngo, err := h.ngoService.Register(c.Request.Context(), owner, req)
	if err != nil {
		mapErrorToStatus(c, err, ngoNotFound)
		return
	}
	c.JSON(http.StatusCreated, ngo)
}

// ListNGOs handles GET /ngos with an optional ?verified=true|false.
func (h *NGOHandler) ListNGOs(c *gin.Context) {
	var verified *bool
	if raw := c.Query("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "verified must be true or false"})
			return
		}
		verified = &v
	}
	ngos, err := h.ngoService.List(c.Request.Context(), verified)
	if err != nil {
		mapErrorToStatus(c, err, ngoNotFound)
		return
	}
	c.JSON(http.StatusOK, ngos)
}

// GetNGO handles GET /ngos/:id.
func (h *NGOHandler) GetNGO(c *gin.Context) {
	ngo, err := h.ngoService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, err, ngoNotFound)
		return
	}
	c.JSON(http.StatusOK, ngo)
}

// UpdateNGO handles PATCH /ngos/:id.
func (h *NGOHandler) UpdateNGO(c *gin.Context) {
	var upd models.NGOUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	cleanTextPtr(upd.Name)
	cleanTextPtr(upd.Description)
	cleanTextPtr(upd.Address)
	cleanTextPtr(upd.Phone)
	cleanTextPtr(upd.Website)

	ngo, err := h.ngoService.Update(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), upd)
	if err != nil {
		mapErrorToStatus(c, err, ngoNotFound)
		return
	}
	c.JSON(http.StatusOK, ngo)
}

// SetVerification handles PUT /ngos/:id/verification. Admin only.
func (h *NGOHandler) SetVerification(c *gin.Context) {
	var req models.NGOVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	ngo, err := h.ngoService.SetVerified(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), *req.Verified)
	if err != nil {
		mapErrorToStatus(c, err, ngoNotFound)
		return
	}
	c.JSON(http.StatusOK, ngo)
}

// UploadLogo handles POST /ngos/:id/logo.
func (h *NGOHandler) UploadLogo(c *gin.Context) {
	file, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A multipart image upload is required", Details: err.Error()})
		return
	}
	ngo, err := h.ngoService.SetLogo(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), file)
	if err != nil {
		mapErrorToStatus(c, err, ngoNotFound)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: ngo.LogoURL, Record: ngo})
}
