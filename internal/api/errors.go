package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/googleapi"

	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/identity"
	"platefull-backend-go/internal/imaging"
)

// mapErrorToStatus writes the response for a service error. notFound is the
// message used when the addressed record does not exist.
func mapErrorToStatus(c *gin.Context, err error, notFound string) {
	var statusCode int
	var errResponse ErrorResponse

	var validationErr *imaging.ValidationError
	var batchErr *core.BatchDeleteError
	switch {
	case errors.Is(err, db.ErrNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: notFound}
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: validationErr.Message}
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	case errors.Is(err, core.ErrNGOProfileRequired):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrNGOProfileRequired.Error()}
	case errors.As(err, &batchErr):
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "Record deleted but some of its images could not be removed", Details: batchErr.Error()}
	default:
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	_ = c.Error(err)
	c.JSON(statusCode, errResponse)
}

// mapAuthErrorToStatus handles identity provider failures. Provider error
// codes such as EMAIL_EXISTS are passed to the client as the details.
func mapAuthErrorToStatus(c *gin.Context, err error) {
	var apiErr *googleapi.Error
	switch {
	case errors.Is(err, identity.ErrEmailExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already in use", Details: err.Error()})
	case errors.Is(err, identity.ErrEmailNotFound), errors.Is(err, identity.ErrInvalidPassword),
		errors.Is(err, identity.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials", Details: err.Error()})
	case errors.Is(err, identity.ErrUnsupportedProvider):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Sign-in provider is not enabled", Details: err.Error()})
	case errors.Is(err, identity.ErrStateMismatch), errors.Is(err, identity.ErrMissingIDToken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Google sign-in could not be completed", Details: err.Error()})
	case errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500:
		c.JSON(apiErr.Code, ErrorResponse{Error: "Authentication failed", Details: apiErr.Message})
	default:
		mapErrorToStatus(c, err, "User not found")
		return
	}
	_ = c.Error(err)
}
