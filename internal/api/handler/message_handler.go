package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusmarket/campus-market/internal/api/metrics"
	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// MessageHandler handles contact messages between users about a listing.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

type sendMessageRequest struct {
	RecipientID    string `json:"recipientId"    validate:"required"`
	ListingID      string `json:"listingId"      validate:"required"`
	Content        string `json:"content"        validate:"required"`
	MeetupLocation string `json:"meetupLocation,omitempty"`
}

type messageResponse struct {
	Message *domain.Message `json:"message"`
}

type messagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

// Send handles POST /messages.
//
// @Summary      Send a message about a listing
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.service.Send(c.Request().Context(), userID, ports.SendMessageInput{
		RecipientID:    req.RecipientID,
		ListingID:      req.ListingID,
		Content:        req.Content,
		MeetupLocation: req.MeetupLocation,
	})
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}

// Conversation handles GET /messages/:listingId/:otherUserId: the caller's
// thread with another user about one listing, oldest first.
//
// @Summary      Get a conversation thread
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        listingId    path  string  true  "Listing id"
// @Param        otherUserId  path  string  true  "Other participant's user id"
// @Success      200  {object}  messagesResponse
// @Failure      401  {object}  errorResponse
// @Router       /messages/{listingId}/{otherUserId} [get]
func (h *MessageHandler) Conversation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	msgs, err := h.service.Conversation(c.Request().Context(), userID, c.Param("otherUserId"), c.Param("listingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messagesResponse{Messages: msgs})
}
