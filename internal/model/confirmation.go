package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketConfirmation 報名成功後發給出席者的確認通知。
// 票已寫入資料庫才會發佈，丟了頂多少一封信，不影響票的效力。
type TicketConfirmation struct {
	TicketID      uuid.UUID `json:"ticket_id"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	EventTitle    string    `json:"event_title"`
	EventDate     time.Time `json:"event_date"`
}
