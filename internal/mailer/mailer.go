package mailer

import (
	"context"

	"eventhub/internal/model"
	"eventhub/pkg/logger"

	"go.uber.org/zap"
)

// Mailer 是對外部寄信服務的邊界；本服務只負責把確認內容交出去
type Mailer interface {
	SendTicketConfirmation(ctx context.Context, confirmation *model.TicketConfirmation) error
}

// LogMailer 把確認信寫進 log，開發與測試環境用
type LogMailer struct{}

func NewLogMailer() Mailer {
	return &LogMailer{}
}

func (m *LogMailer) SendTicketConfirmation(ctx context.Context, confirmation *model.TicketConfirmation) error {
	logger.WithComponent("mailer").Info("ticket confirmation",
		zap.String("ticket_id", confirmation.TicketID.String()),
		zap.String("to", confirmation.AttendeeEmail),
		zap.String("event", confirmation.EventTitle),
	)
	return nil
}
