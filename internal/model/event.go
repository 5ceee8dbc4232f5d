package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          int       `json:"id" db:"id"`
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	Title       string    `json:"title" db:"title"`
	Tagline     *string   `json:"tagline,omitempty" db:"tagline"`
	Category    string    `json:"category" db:"category"`
	Date        time.Time `json:"date" db:"date"`
	Time        string    `json:"time" db:"time"`
	Location    string    `json:"location" db:"location"`
	Description *string   `json:"description,omitempty" db:"description"`
	Image       *string   `json:"image,omitempty" db:"image"`
	// Capacity 為 0 表示不限人數
	Capacity    int       `json:"capacity" db:"capacity"`
	IsFree      bool      `json:"is_free" db:"is_free"`
	Price       float64   `json:"price" db:"price"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// HasCapacityLimit 是否有人數上限
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity > 0
}

// DisplayLocation 取 location 第一段作為顯示用地點 (格式: 顯示名|地址|緯度|經度)
func (e *Event) DisplayLocation() string {
	if e.Location == "" {
		return "TBD"
	}
	return strings.SplitN(e.Location, "|", 2)[0]
}

// SpotsLeft 回傳剩餘名額；不限人數時回傳 nil
func (e *Event) SpotsLeft(ticketCount int) *int {
	if !e.HasCapacityLimit() {
		return nil
	}
	left := e.Capacity - ticketCount
	if left < 0 {
		left = 0
	}
	return &left
}

type UpdateEventParams struct {
	Title       *string
	Tagline     *string
	Category    *string
	Date        *time.Time
	Time        *string
	Location    *string
	Description *string
	Image       *string
	Capacity    *int
	IsFree      *bool
	Price       *float64
}

// EventSummary 活動列表用的投影，含衍生欄位
type EventSummary struct {
	EventID         uuid.UUID `json:"event_id"`
	Title           string    `json:"title"`
	Tagline         *string   `json:"tagline,omitempty"`
	Category        string    `json:"category"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Image           *string   `json:"image,omitempty"`
	Capacity        int       `json:"capacity"`
	IsFree          bool      `json:"is_free"`
	Price           float64   `json:"price"`
	SpotsLeft       *int      `json:"spots_left"`
	DisplayLocation string    `json:"display_location"`
}

// EventDetail 單一活動頁用的完整資料
type EventDetail struct {
	Event
	TicketCount     int    `json:"ticket_count"`
	SpotsLeft       *int   `json:"spots_left"`
	DisplayLocation string `json:"display_location"`
}

// EventFilter 活動列表的查詢條件
type EventFilter struct {
	Query    string `form:"q"`
	Category string `form:"category"`
}

// Normalize 統一大小寫與空白，確保同一條件產生同一個快取指紋
func (f EventFilter) Normalize() EventFilter {
	category := strings.TrimSpace(f.Category)
	if category == "All Events" {
		category = ""
	}
	return EventFilter{
		Query:    strings.ToLower(strings.TrimSpace(f.Query)),
		Category: category,
	}
}
