package queue

import (
	"context"

	"eventhub/internal/model"
)

type Delivery struct {
	Data *model.TicketConfirmation
	Ack  func()
	Nack func(requeue bool)
}

type ConfirmationQueue interface {
	// 發送確認通知到隊列
	PublishConfirmation(ctx context.Context, confirmation *model.TicketConfirmation) error
	// 訂閱確認通知隊列
	SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error)
}

type ConfirmationQueueImpl struct {
	// 使用 Go channel 模擬 MQ，開發與測試用
	ch chan *model.TicketConfirmation
}

func NewConfirmationQueue(bufferSize int) ConfirmationQueue {
	return &ConfirmationQueueImpl{
		ch: make(chan *model.TicketConfirmation, bufferSize),
	}
}

func (q *ConfirmationQueueImpl) PublishConfirmation(ctx context.Context, confirmation *model.TicketConfirmation) error {
	select {
	case q.ch <- confirmation:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ConfirmationQueueImpl) SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case confirmation, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: confirmation,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- confirmation // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
