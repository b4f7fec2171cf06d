package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "divitrack/internal/errors"
	"divitrack/internal/pagination"
	"divitrack/internal/services"
)

// DividendHandler handles dividend receipt requests.
type DividendHandler struct {
	dividendService services.DividendServicer
}

// NewDividendHandler creates a new DividendHandler.
func NewDividendHandler(dividendService services.DividendServicer) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// DividendRequest represents the request payload for creating or updating a
// dividend. Member and symbol are free-form names; they are not required to
// match an existing record.
type DividendRequest struct {
	Member string  `json:"member" binding:"required,not_blank,max=100"`
	Symbol string  `json:"symbol" binding:"required,not_blank,max=20"`
	Amount float64 `json:"amount" binding:"gte=0"`
	Date   string  `json:"date" binding:"required,datetime=2006-01-02"`
}

// DividendResponse represents a dividend in the response.
type DividendResponse struct {
	ID     string  `json:"id"`
	Member string  `json:"member"`
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// CreateDividend handles the creation of a new dividend
// @Summary     Create a dividend
// @Description Record a dividend receipt for the authenticated user
// @Tags        dividends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DividendRequest true "Dividend details"
// @Success     201 {object} DividendResponse "Dividend created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dividends [post]
func (h *DividendHandler) CreateDividend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dividend, err := h.dividendService.CreateDividend(
		userID, req.Member, req.Symbol, req.Amount, req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dividend": dividend})
}

// GetUserDividends handles the retrieval of dividends for a user
// @Summary     Get user dividends
// @Description Get a paginated list of dividends, optionally filtered by symbol name
// @Tags        dividends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       symbol    query string false "Filter by symbol name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Dividend] "Paginated dividends"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dividends [get]
func (h *DividendHandler) GetUserDividends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.dividendService.GetUserDividends(userID, c.Query("symbol"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDividendByID handles the retrieval of a specific dividend
// @Summary     Get dividend by ID
// @Description Get a specific dividend by ID for the authenticated user
// @Tags        dividends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Dividend ID"
// @Success     200 {object} DividendResponse "Dividend details"
// @Failure     400 {object} ErrorResponse "Invalid dividend ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Dividend not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dividends/{id} [get]
func (h *DividendHandler) GetDividendByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dividendID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	dividend, err := h.dividendService.GetDividendByID(userID, dividendID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dividend": dividend})
}

// UpdateDividend handles updating a dividend
// @Summary     Update dividend
// @Description Update an existing dividend for the authenticated user
// @Tags        dividends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Dividend ID"
// @Param       request body DividendRequest true "Updated dividend details"
// @Success     200 {object} DividendResponse "Updated dividend"
// @Failure     400 {object} ErrorResponse "Invalid input or dividend ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Dividend not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dividends/{id} [put]
func (h *DividendHandler) UpdateDividend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dividendID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dividend, err := h.dividendService.UpdateDividend(
		userID, dividendID, req.Member, req.Symbol, req.Amount, req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dividend": dividend})
}

// DeleteDividend handles deleting a dividend
// @Summary     Delete dividend
// @Description Delete a dividend for the authenticated user
// @Tags        dividends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Dividend ID"
// @Success     204 "Dividend deleted"
// @Failure     400 {object} ErrorResponse "Invalid dividend ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Dividend not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dividends/{id} [delete]
func (h *DividendHandler) DeleteDividend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dividendID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.dividendService.DeleteDividend(userID, dividendID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
