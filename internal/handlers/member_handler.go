package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "divitrack/internal/errors"
	"divitrack/internal/pagination"
	"divitrack/internal/services"
)

// MemberHandler handles household member requests.
type MemberHandler struct {
	memberService services.MemberServicer
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService services.MemberServicer) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMemberRequest represents the request payload for creating a member.
type CreateMemberRequest struct {
	Name string `json:"name" binding:"required,not_blank,max=100"`
}

// MemberResponse represents a household member in the response.
type MemberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateMember handles the creation of a new household member
// @Summary     Create a member
// @Description Create a new household member for the authenticated user
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateMemberRequest true "Member details"
// @Success     201 {object} MemberResponse "Member created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate member name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.memberService.CreateMember(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// GetUserMembers handles the retrieval of members for a user
// @Summary     Get user members
// @Description Get a paginated list of household members for the authenticated user
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Member] "Paginated members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members [get]
func (h *MemberHandler) GetUserMembers(c *gin.Context) {
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

	result, err := h.memberService.GetUserMembers(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMemberByID handles the retrieval of a specific member
// @Summary     Get member by ID
// @Description Get a specific household member by ID for the authenticated user
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Success     200 {object} MemberResponse "Member details"
// @Failure     400 {object} ErrorResponse "Invalid member ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members/{id} [get]
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.memberService.GetMemberByID(userID, memberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// DeleteMember handles deleting a member
// @Summary     Delete member
// @Description Delete a household member. Transactions and dividends naming the
// @Description member are kept as dangling name references and still count in
// @Description household-wide statistics.
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Member ID"
// @Success     204 "Member deleted"
// @Failure     400 {object} ErrorResponse "Invalid member ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.DeleteMember(userID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
