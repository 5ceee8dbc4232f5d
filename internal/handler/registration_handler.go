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

type RegistrationHandler struct {
	service     service.RegistrationService
	authService service.AuthService
}

func NewRegistrationHandler(service service.RegistrationService, authService service.AuthService) *RegistrationHandler {
	return &RegistrationHandler{
		service:     service,
		authService: authService,
	}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1", RequireAuth(h.authService))
	{
		router.POST("events/:uuid/register", h.Register)
	}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}

	ticket, err := h.service.Register(c, userID, eventID)
	if err != nil {
		h.handleError(c, err, "Register")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// handleError 把報名失敗的原因映射到可區分的回應：
// 售完、重複報名、活動不存在對前端是三種不同的訊息
func (h *RegistrationHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		log.Warn("Already registered")
		c.JSON(http.StatusConflict, gin.H{"error": "You are already registered for this event"})
	case errors.Is(err, apperrors.ErrSoldOut):
		log.Warn("Sold out")
		c.JSON(http.StatusConflict, gin.H{"error": "Event is sold out"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
