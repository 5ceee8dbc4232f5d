package handler

import (
	"errors"
	"fmt"
	"net/http"

	"eventhub/internal/service"
	apperrors "eventhub/pkg/app_errors"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// VerificationHandler 閘門掃描端點。
// 掃描器是不受信任的 client：端點不需要登入，且重複呼叫必須安全。
type VerificationHandler struct {
	service       service.VerificationService
	ticketService service.TicketService
	baseURL       string
}

func NewVerificationHandler(service service.VerificationService, ticketService service.TicketService, baseURL string) *VerificationHandler {
	return &VerificationHandler{
		service:       service,
		ticketService: ticketService,
		baseURL:       baseURL,
	}
}

func (h *VerificationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("tickets/:uuid/verify", h.Verify)
		router.GET("tickets/:uuid/qr", h.QRCode)
	}
}

func (h *VerificationHandler) Verify(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		// 掃到看不懂的內容跟掃到不存在的票對閘門是同一回事
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "message": "Invalid Ticket"})
		return
	}

	result, err := h.service.Verify(c, ticketID)
	if err != nil {
		h.handleError(c, err, "Verify")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"attendee": result.AttendeeName,
		"event":    result.EventTitle,
	})
}

// QRCode 產生票券驗證連結的 QR code PNG，純顯示用
func (h *VerificationHandler) QRCode(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket uuid"})
		return
	}

	ticket, err := h.ticketService.GetByTicketID(c, ticketID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		logger.WithComponent("handler").Error("QRCode lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	verifyURL := fmt.Sprintf("%s/api/v1/tickets/%s/verify", h.baseURL, ticket.TicketID)
	png, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		logger.WithComponent("handler").Error("QRCode encode failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *VerificationHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "message": "Invalid Ticket"})
	case errors.Is(err, apperrors.ErrTicketAlreadyUsed):
		// 重複掃描是閘門的常態，回 200 讓掃描器正常顯示訊息
		log.Warn("Ticket already used")
		c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Ticket already used"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "message": "Verification failed"})
	}
}
