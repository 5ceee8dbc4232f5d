package service

import (
	"context"

	"eventhub/internal/model"
	"eventhub/internal/repository"

	"github.com/google/uuid"
)

type TicketService interface {
	ListByUser(ctx context.Context, userID int) ([]*model.TicketWithEvent, error)
	GetByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
}

type TicketServiceImpl struct {
	repo repository.TicketRepository
}

func NewTicketService(repo repository.TicketRepository) TicketService {
	return &TicketServiceImpl{repo: repo}
}

func (s *TicketServiceImpl) ListByUser(ctx context.Context, userID int) ([]*model.TicketWithEvent, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TicketServiceImpl) GetByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.repo.FindByTicketID(ctx, ticketID)
}
