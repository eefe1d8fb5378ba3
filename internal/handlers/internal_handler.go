package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finbot/internal/errors"
	"finbot/internal/middleware"
	"finbot/internal/models"
	"finbot/internal/services"
)

// InternalHandler serves the chat frontend, authenticated by API key.
type InternalHandler struct {
	messageService services.MessageServicer
	userService    services.UserServicer
	tokens         *middleware.TokenManager
	currency       string
}

// NewInternalHandler creates a new InternalHandler.
func NewInternalHandler(messageService services.MessageServicer, userService services.UserServicer, tokens *middleware.TokenManager, currency string) *InternalHandler {
	return &InternalHandler{
		messageService: messageService,
		userService:    userService,
		tokens:         tokens,
		currency:       currency,
	}
}

// RecordMessageRequest is a chat message forwarded by the frontend.
type RecordMessageRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	Username  string `json:"username" binding:"max=64"`
	FirstName string `json:"first_name" binding:"max=128"`
	Text      string `json:"text" binding:"required,message_text"`
}

// RecordMessageResponse is the outcome of a recorded message.
type RecordMessageResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
	Advice      string              `json:"advice,omitempty"`
	NewUser     bool                `json:"new_user"`
	Reply       string              `json:"reply"`
}

// RecordMessage parses, classifies and records a free-text message
// @Summary     Record a chat message
// @Description Parse a free-text message such as "обед 2500", classify it and store the transaction
// @Tags        internal
// @Accept      json
// @Produce     json
// @Param       request body RecordMessageRequest true "Chat message"
// @Success     201 {object} RecordMessageResponse "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Registration required"
// @Failure     422 {object} ErrorResponse "Message is not a transaction"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/messages [post]
// @Security    APIKey
func (h *InternalHandler) RecordMessage(c *gin.Context) {
	var req RecordMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user := services.UserInfo{UserID: req.UserID, Username: req.Username, FirstName: req.FirstName}
	result, err := h.messageService.HandleText(c.Request.Context(), user, req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RecordMessageResponse{
		Transaction: result.Transaction,
		Balance:     result.Balance,
		Advice:      result.Advice,
		NewUser:     result.NewUser,
		Reply:       recordedReply(result, h.currency),
	})
}

// RegisterUserResponse reports the registered user.
type RegisterUserResponse struct {
	User    *models.User `json:"user"`
	NewUser bool         `json:"new_user"`
}

// RegisterUser applies the access policy to a chat user
// @Summary     Register a chat user
// @Description Admit a chat user, registering them when the access policy allows it
// @Tags        internal
// @Accept      json
// @Produce     json
// @Param       request body services.UserInfo true "Chat user"
// @Success     200 {object} RegisterUserResponse "User admitted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Registration required"
// @Router      /internal/users [post]
// @Security    APIKey
func (h *InternalHandler) RegisterUser(c *gin.Context) {
	var req services.UserInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	created, err := h.messageService.CheckAccess(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RegisterUserResponse{User: user, NewUser: created})
}

// TokenResponse carries a user API token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken issues an API token for a registered user
// @Summary     Issue a user token
// @Description Issue a bearer token the chat frontend uses for the user's read endpoints
// @Tags        internal
// @Produce     json
// @Param       user_id path int true "Chat user ID"
// @Success     200 {object} TokenResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     403 {object} ErrorResponse "Registration required"
// @Router      /internal/users/{user_id}/token [post]
// @Security    APIKey
func (h *InternalHandler) IssueToken(c *gin.Context) {
	userID, err := parseChatUserID(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	registered, err := h.userService.IsRegistered(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !registered {
		respondWithError(c, apperrors.ErrRegistrationRequired)
		return
	}

	token, expiresAt, err := h.tokens.Generate(userID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
