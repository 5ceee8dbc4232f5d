package service

import (
	"context"

	"eventhub/internal/model"
	"eventhub/internal/repository"

	"github.com/google/uuid"
)

type VerificationService interface {
	// Verify 在閘門查驗票券：valid -> used 只允許一次。
	// 已用過回傳 ErrTicketAlreadyUsed，不存在回傳 ErrTicketNotFound；
	// 兩者都沒有副作用，重複掃描安全。
	Verify(ctx context.Context, ticketID uuid.UUID) (*model.VerificationResult, error)
}

type VerificationServiceImpl struct {
	ticketRepository repository.TicketRepository
}

func NewVerificationService(ticketRepository repository.TicketRepository) VerificationService {
	return &VerificationServiceImpl{
		ticketRepository: ticketRepository,
	}
}

func (s *VerificationServiceImpl) Verify(ctx context.Context, ticketID uuid.UUID) (*model.VerificationResult, error) {
	// 原子性由 repository 的條件式 UPDATE 保證，這裡不需要交易
	return s.ticketRepository.Redeem(ctx, ticketID)
}
