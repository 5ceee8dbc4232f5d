package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusValid TicketStatus = "valid"
	TicketStatusUsed  TicketStatus = "used"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusValid, TicketStatusUsed:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
// valid -> used 是唯一合法轉換；used 是終態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	return s == TicketStatusValid && target == TicketStatusUsed
}

// Ticket 票券模型：一個 user 對一個 event 最多持有一張
type Ticket struct {
	ID        int          `json:"id" db:"id"`
	TicketID  uuid.UUID    `json:"ticket_id" db:"ticket_id"`
	UserID    int          `json:"user_id" db:"user_id"`
	EventID   int          `json:"event_id" db:"event_id"`
	Status    TicketStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// IsUsed 檢查票券是否已入場
func (t *Ticket) IsUsed() bool {
	return t.Status == TicketStatusUsed
}

// TicketWithEvent 出席者查看自己的票時附帶活動摘要
type TicketWithEvent struct {
	Ticket
	EventUUID  uuid.UUID `json:"event_uuid"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	EventTime  string    `json:"event_time"`
	Location   string    `json:"location"`
}

// VerificationResult 閘門掃描的查驗結果
type VerificationResult struct {
	AttendeeName string `json:"attendee"`
	EventTitle   string `json:"event"`
}
