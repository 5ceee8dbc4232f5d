package handler

import (
	"errors"
	"net/http"

	"eventhub/internal/service"
	apperrors "eventhub/pkg/app_errors"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service     service.TicketService
	authService service.AuthService
}

func NewTicketHandler(service service.TicketService, authService service.AuthService) *TicketHandler {
	return &TicketHandler{
		service:     service,
		authService: authService,
	}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("tickets/:uuid", h.GetByTicketID)
	}

	authed := r.Group("/api/v1", RequireAuth(h.authService))
	{
		authed.GET("me/tickets", h.ListMine)
	}
}

func (h *TicketHandler) GetByTicketID(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket uuid"})
		return
	}

	ticket, err := h.service.GetByTicketID(c, ticketID)
	if err != nil {
		h.handleError(c, err, "GetByTicketID")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) ListMine(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	tickets, err := h.service.ListByUser(c, userID)
	if err != nil {
		h.handleError(c, err, "ListMine")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *TicketHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
