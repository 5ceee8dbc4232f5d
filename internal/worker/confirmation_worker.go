package worker

import (
	"context"

	"eventhub/internal/mailer"
	"eventhub/internal/queue"
)

type ConfirmationWorker interface {
	// 訂閱確認通知隊列
	Start(ctx context.Context) error
}

type ConfirmationWorkerImpl struct {
	mailer mailer.Mailer
	queue  queue.ConfirmationQueue
}

func NewConfirmationWorker(mailer mailer.Mailer, queue queue.ConfirmationQueue) ConfirmationWorker {
	return &ConfirmationWorkerImpl{
		mailer: mailer,
		queue:  queue,
	}
}

func (w *ConfirmationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeConfirmations(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.mailer.SendTicketConfirmation(ctx, msg.Data)

			if err != nil {
				// 寄信服務暫時掛掉就重試
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
