package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/models"
)

const donationNotFound = "Donation not found"

var donationStatuses = map[models.DonationStatus]bool{
	models.DonationAvailable: true,
	models.DonationReserved:  true,
	models.DonationPickedUp:  true,
	models.DonationExpired:   true,
}

// DonationHandler handles food donation endpoints.
type DonationHandler struct {
	donationService core.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(ds core.DonationService) *DonationHandler {
	return &DonationHandler{donationService: ds}
}

// CreateDonation handles POST /donations. The caller becomes the donor.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	donor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not found in context"})
		return
	}
	var req models.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	req.Title = cleanText(req.Title)
	req.Description = cleanText(req.Description)
	req.Unit = cleanText(req.Unit)
	req.PickupAddress = cleanText(req.PickupAddress)
	req.ContactPhone = cleanText(req.ContactPhone)
	req.Category = cleanText(req.Category)
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed: title must contain text"})
		return
	}

	donation, err := h.donationService.Create(c.Request.Context(), donor, req)
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.JSON(http.StatusCreated, donation)
}

// ListDonations handles GET /donations. ?donorId= lists one donor's
// donations, otherwise ?status= optionally narrows the listing.
func (h *DonationHandler) ListDonations(c *gin.Context) {
	var (
		donations []*models.FoodDonation
		err       error
	)
	if donorID := c.Query("donorId"); donorID != "" {
		donations, err = h.donationService.ListByDonor(c.Request.Context(), donorID)
	} else {
		status := models.DonationStatus(c.Query("status"))
		if status != "" && !donationStatuses[status] {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown donation status", Details: string(status)})
			return
		}
		donations, err = h.donationService.List(c.Request.Context(), status)
	}
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// GetDonation handles GET /donations/:id.
func (h *DonationHandler) GetDonation(c *gin.Context) {
	donation, err := h.donationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.JSON(http.StatusOK, donation)
}

// UpdateDonation handles PATCH /donations/:id.
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	var upd models.DonationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	cleanTextPtr(upd.Title)
	cleanTextPtr(upd.Description)
	cleanTextPtr(upd.Unit)
	cleanTextPtr(upd.PickupAddress)
	cleanTextPtr(upd.ContactPhone)
	cleanTextPtr(upd.Category)

	donation, err := h.donationService.Update(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), upd)
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.JSON(http.StatusOK, donation)
}

// DeleteDonation handles DELETE /donations/:id. Only the donor may delete.
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	err := h.donationService.Delete(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /donations/:id/image.
func (h *DonationHandler) UploadImage(c *gin.Context) {
	file, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A multipart image upload is required", Details: err.Error()})
		return
	}
	donation, err := h.donationService.AttachImage(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id"), file)
	if err != nil {
		mapErrorToStatus(c, err, donationNotFound)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: donation.ImageURL, Record: donation})
}

// StreamDonations handles GET /donations/stream as server-sent events. Each
// "donations" event carries the full current result set, newest first.
// Slow clients skip intermediate snapshots and only see the latest one.
func (h *DonationHandler) StreamDonations(c *gin.Context) {
	ctx := c.Request.Context()
	updates := make(chan []*models.FoodDonation, 1)
	latest := func(ds []*models.FoodDonation) {
		for {
			select {
			case updates <- ds:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	}

	var sub *db.Subscription
	if donorID := c.Query("donorId"); donorID != "" {
		sub = h.donationService.SubscribeByDonor(ctx, donorID, latest)
	} else {
		sub = h.donationService.Subscribe(ctx, latest)
	}
	defer sub.Unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-sub.Done():
			if err := sub.Err(); err != nil {
				_ = c.Error(err)
				c.SSEvent("error", ErrorResponse{Error: "Donation stream stopped"})
			}
			return false
		case ds := <-updates:
			c.SSEvent("donations", ds)
			return true
		}
	})
}
