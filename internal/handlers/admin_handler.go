package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finbot/internal/errors"
	"finbot/internal/pagination"
	"finbot/internal/services"
)

// AdminHandler serves operator statistics.
type AdminHandler struct {
	userService services.UserServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService services.UserServicer) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// GetUserStats returns user counts
// @Summary     User statistics
// @Description Active users, users active in the last 7 days and registrations in the last 30 days
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserStats "Statistics"
// @Failure     403 {object} ErrorResponse "Not an administrator"
// @Router      /admin/stats [get]
func (h *AdminHandler) GetUserStats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers lists users with their ledger statistics
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[services.UserDetail] "Users"
// @Failure     403 {object} ErrorResponse "Not an administrator"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	users, err := h.userService.ListDetailed(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
