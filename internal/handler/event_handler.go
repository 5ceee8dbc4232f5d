package handler

import (
	"net/http"
	"time"

	"eventhub/internal/model"
	"eventhub/internal/service"
	apperrors "eventhub/pkg/app_errors"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	eventService service.EventService
	queryService service.QueryService
	authService  service.AuthService
}

func NewEventHandler(eventService service.EventService, queryService service.QueryService, authService service.AuthService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		queryService: queryService,
		authService:  authService,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
	}

	authed := r.Group("/api/v1", RequireAuth(h.authService))
	{
		authed.POST("events", h.Create)
		authed.PUT("events/:uuid", h.UpdateByEventID)
		authed.DELETE("events/:uuid", h.DeleteByEventID)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Tagline     *string   `json:"tagline"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date" binding:"required"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Capacity    int       `json:"capacity" binding:"gte=0"`
	IsFree      bool      `json:"is_free"`
	Price       float64   `json:"price" binding:"gte=0"`
}

// UpdateEventRequest 更新活動請求，全部欄位皆可選
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Tagline     *string    `json:"tagline"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
	Time        *string    `json:"time"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	Capacity    *int       `json:"capacity"`
	IsFree      *bool      `json:"is_free"`
	Price       *float64   `json:"price"`
}

func (h *EventHandler) List(c *gin.Context) {
	var filter model.EventFilter
	if err := BindQuery(c, &filter); err != nil {
		return
	}

	events, err := h.queryService.ListEvents(c, filter)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}

	event, err := h.queryService.GetEvent(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event := &model.Event{
		Title:       req.Title,
		Tagline:     req.Tagline,
		Category:    req.Category,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Description: req.Description,
		Image:       req.Image,
		Capacity:    req.Capacity,
		IsFree:      req.IsFree,
		Price:       req.Price,
	}
	created, err := h.eventService.Create(c, userID, event)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
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

	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	params := model.UpdateEventParams{
		Title:       req.Title,
		Tagline:     req.Tagline,
		Category:    req.Category,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Description: req.Description,
		Image:       req.Image,
		Capacity:    req.Capacity,
		IsFree:      req.IsFree,
		Price:       req.Price,
	}
	updated, err := h.eventService.UpdateByEventID(c, userID, eventID, params)
	if err != nil {
		h.handleError(c, err, "UpdateByEventID")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) DeleteByEventID(c *gin.Context) {
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

	if err := h.eventService.DeleteByEventID(c, userID, eventID); err != nil {
		h.handleError(c, err, "DeleteByEventID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case err == apperrors.ErrEventNotFound:
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case err == apperrors.ErrForbidden:
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case err == apperrors.ErrInvalidInput:
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
