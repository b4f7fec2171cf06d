package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"divitrack/internal/services"
)

// StatsHandler handles portfolio statistics requests.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles the computation of portfolio statistics
// @Summary     Get portfolio statistics
// @Description Compute aggregate portfolio statistics over the authenticated
// @Description user's records, optionally restricted to a single household
// @Description member by name. Omitting the member parameter (or passing
// @Description "all") aggregates the whole household.
// @Tags        stats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       member query string false "Household member name filter"
// @Success     200 {object} portfolio.Stats "Portfolio statistics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.GetStats(userID, c.Query("member"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
