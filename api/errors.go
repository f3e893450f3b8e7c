package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/flightdesk/internal/domain"
)

// respondError maps domain errors onto HTTP statuses in one place so
// every handler stays a thin binding.
func respondError(c *gin.Context, err error) {
	var funds *domain.InsufficientFundsError
	if errors.As(err, &funds) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error": funds.Error(),
			"have":  funds.Have,
			"need":  funds.Need,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn), errors.Is(err, domain.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyLoggedIn), errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrSameDayConflict), errors.Is(err, domain.ErrBookingFailed),
		errors.Is(err, domain.ErrCancellationFailed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNegativeBalance), errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidSearch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSuchItinerary), errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrNoReservations):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStoreConflict):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
