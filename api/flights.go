package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/flightdesk/internal/service/search"
)

type FlightHandler struct {
	service search.SearchUseCase
}

func NewFlightHandler(service search.SearchUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/search", h.search)
}

func (h *FlightHandler) search(c *gin.Context) {
	var q search.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.service.Search(c.Request.Context(), currentSession(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": results})
}
