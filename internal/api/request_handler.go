package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/models"
)

const requestNotFound = "Donation request not found"

// RequestHandler handles NGO requests for donations.
type RequestHandler struct {
	requestService core.DonationRequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(rs core.DonationRequestService) *RequestHandler {
	return &RequestHandler{requestService: rs}
}

// CreateRequest handles POST /requests on behalf of the caller's NGO.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req models.CreateDonationRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	req.Message = cleanText(req.Message)

	created, err := h.requestService.Create(c.Request.Context(), c.GetString(middleware.UserIDKey), req)
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListRequests handles GET /requests?donorId=&ngoId=.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	requests, err := h.requestService.List(c.Request.Context(), models.RequestFilter{
		DonorID: c.Query("donorId"),
		NGOID:   c.Query("ngoId"),
	})
	if err != nil {
		mapErrorToStatus(c, err, requestNotFound)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequest handles GET /requests/:id.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	request, err := h.requestService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, err, requestNotFound)
		return
	}
	c.JSON(http.StatusOK, request)
}

// UpdateRequest handles PATCH /requests/:id.
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	var upd models.DonationRequestUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	cleanTextPtr(upd.Message)

	request, err := h.requestService.Update(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), upd)
	if err != nil {
		mapErrorToStatus(c, err, requestNotFound)
		return
	}
	c.JSON(http.StatusOK, request)
}
