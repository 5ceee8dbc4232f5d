package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventhub/internal/mailer"
	"eventhub/internal/model"
	"eventhub/internal/queue"
	"eventhub/internal/worker"

	"github.com/google/uuid"
)

func TestConfirmationWorker_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// 1. 準備：建立自製的 Memory Queue
	q := queue.NewConfirmationQueue(10)

	// 2. 準備：建立一個 Mock Mailer 來記錄有沒有被呼叫
	sent := make(chan *model.TicketConfirmation, 1)
	mockMail := &mockMailer{
		onSend: func(c *model.TicketConfirmation) error {
			sent <- c
			return nil
		},
	}

	// 3. 啟動 Worker
	w := worker.NewConfirmationWorker(mockMail, q)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Worker 啟動失敗: %v", err)
	}

	// 4. 執行：模擬報名成功後丟入一筆確認通知
	confirmation := &model.TicketConfirmation{
		TicketID:      uuid.New(),
		AttendeeName:  "Alice",
		AttendeeEmail: "alice@test.com",
		EventTitle:    "Go Meetup",
		EventDate:     time.Now().UTC(),
	}
	q.PublishConfirmation(ctx, confirmation)

	// 5. 驗證：檢查 Mailer 是否在時間內被觸發
	select {
	case got := <-sent:
		if got.TicketID != confirmation.TicketID {
			t.Errorf("Mailer 收到的票不對: got=%s want=%s", got.TicketID, confirmation.TicketID)
		}
		if got.AttendeeEmail != "alice@test.com" {
			t.Errorf("Mailer 收到的收件者不對: %s", got.AttendeeEmail)
		}
	case <-time.After(1 * time.Second):
		t.Error("超時！Worker 沒有在時間內處理確認通知")
	}
}

func TestConfirmationWorker_RetriesOnMailerFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	q := queue.NewConfirmationQueue(10)

	// 第一次失敗、第二次成功；記憶體隊列的 Nack(true) 會重回隊列
	attempts := make(chan int, 4)
	count := 0
	mockMail := &mockMailer{
		onSend: func(c *model.TicketConfirmation) error {
			count++
			attempts <- count
			if count == 1 {
				return errors.New("smtp temporarily unavailable")
			}
			return nil
		},
	}

	w := worker.NewConfirmationWorker(mockMail, q)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Worker 啟動失敗: %v", err)
	}

	q.PublishConfirmation(ctx, &model.TicketConfirmation{
		TicketID:      uuid.New(),
		AttendeeName:  "Alice",
		AttendeeEmail: "alice@test.com",
		EventTitle:    "Go Meetup",
	})

	deadline := time.After(2 * time.Second)
	got := 0
	for got < 2 {
		select {
		case got = <-attempts:
		case <-deadline:
			t.Fatalf("超時！只嘗試了 %d 次，預期寄信失敗後會重試", got)
		}
	}
}

// 簡單的 Mock 實作
type mockMailer struct {
	mailer.Mailer // 嵌入介面
	onSend        func(*model.TicketConfirmation) error
}

func (m *mockMailer) SendTicketConfirmation(ctx context.Context, c *model.TicketConfirmation) error {
	return m.onSend(c)
}
