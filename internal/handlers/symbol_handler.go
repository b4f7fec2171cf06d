package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "divitrack/internal/errors"
	"divitrack/internal/pagination"
	"divitrack/internal/services"
)

// SymbolHandler handles tracked symbol requests.
type SymbolHandler struct {
	symbolService services.SymbolServicer
}

// NewSymbolHandler creates a new SymbolHandler.
func NewSymbolHandler(symbolService services.SymbolServicer) *SymbolHandler {
	return &SymbolHandler{symbolService: symbolService}
}

// CreateSymbolRequest represents the request payload for creating a symbol.
type CreateSymbolRequest struct {
	Name         string  `json:"name" binding:"required,not_blank,max=20"`
	CurrentPrice float64 `json:"current_price" binding:"gte=0"`
}

// UpdateSymbolPriceRequest represents the request payload for updating a
// symbol's current price.
type UpdateSymbolPriceRequest struct {
	CurrentPrice float64 `json:"current_price" binding:"gte=0"`
}

// SymbolResponse represents a tracked symbol in the response.
type SymbolResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
}

// CreateSymbol handles the creation of a new tracked symbol
// @Summary     Create a symbol
// @Description Create a new tracked symbol for the authenticated user
// @Tags        symbols
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSymbolRequest true "Symbol details"
// @Success     201 {object} SymbolResponse "Symbol created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate symbol name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /symbols [post]
func (h *SymbolHandler) CreateSymbol(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	symbol, err := h.symbolService.CreateSymbol(userID, req.Name, req.CurrentPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"symbol": symbol})
}

// GetUserSymbols handles the retrieval of symbols for a user
// @Summary     Get user symbols
// @Description Get a paginated list of tracked symbols for the authenticated user
// @Tags        symbols
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Symbol] "Paginated symbols"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /symbols [get]
func (h *SymbolHandler) GetUserSymbols(c *gin.Context) {
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

	result, err := h.symbolService.GetUserSymbols(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSymbolByID handles the retrieval of a specific symbol
// @Summary     Get symbol by ID
// @Description Get a specific tracked symbol by ID for the authenticated user
// @Tags        symbols
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Symbol ID"
// @Success     200 {object} SymbolResponse "Symbol details"
// @Failure     400 {object} ErrorResponse "Invalid symbol ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Symbol not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /symbols/{id} [get]
func (h *SymbolHandler) GetSymbolByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbolID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbol, err := h.symbolService.GetSymbolByID(userID, symbolID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol})
}

// UpdateSymbolPrice handles updating a symbol's current price
// @Summary     Update symbol price
// @Description Update the current market price of a tracked symbol
// @Tags        symbols
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Symbol ID"
// @Param       request body UpdateSymbolPriceRequest true "New price"
// @Success     200 {object} SymbolResponse "Updated symbol"
// @Failure     400 {object} ErrorResponse "Invalid input or symbol ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Symbol not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /symbols/{id}/price [put]
func (h *SymbolHandler) UpdateSymbolPrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbolID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSymbolPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	symbol, err := h.symbolService.UpdateSymbolPrice(userID, symbolID, req.CurrentPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol})
}

// DeleteSymbol handles deleting a symbol
// @Summary     Delete symbol
// @Description Delete a tracked symbol. Transactions and dividends naming the
// @Description symbol are kept; they simply stop contributing to statistics.
// @Tags        symbols
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Symbol ID"
// @Success     204 "Symbol deleted"
// @Failure     400 {object} ErrorResponse "Invalid symbol ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Symbol not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /symbols/{id} [delete]
func (h *SymbolHandler) DeleteSymbol(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbolID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.symbolService.DeleteSymbol(userID, symbolID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
