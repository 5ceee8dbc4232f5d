package service

import (
	"context"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/queue"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type RegistrationService interface {
	// Register 替 user 報名活動並發出一張票。
	// 同一個 (user, event) 最多一張票；滿額時回傳 ErrSoldOut。
	Register(ctx context.Context, userID int, eventID uuid.UUID) (*model.Ticket, error)
}

type RegistrationServiceImpl struct {
	pool              *pgxpool.Pool
	eventRepository   repository.EventRepository
	ticketRepository  repository.TicketRepository
	userRepository    repository.UserRepository
	eventCache        *cache.EventCache
	confirmationQueue queue.ConfirmationQueue
}

func NewRegistrationService(
	pool *pgxpool.Pool,
	eventRepository repository.EventRepository,
	ticketRepository repository.TicketRepository,
	userRepository repository.UserRepository,
	eventCache *cache.EventCache,
	confirmationQueue queue.ConfirmationQueue,
) RegistrationService {
	return &RegistrationServiceImpl{
		pool:              pool,
		eventRepository:   eventRepository,
		ticketRepository:  ticketRepository,
		userRepository:    userRepository,
		eventCache:        eventCache,
		confirmationQueue: confirmationQueue,
	}
}

func (s *RegistrationServiceImpl) Register(ctx context.Context, userID int, eventID uuid.UUID) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. FOR UPDATE 鎖住活動列：人數檢查到發票之間不允許其他報名插進來
	event, err := s.eventRepository.FindByEventIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	// 2. 重複報名檢查 (不重發票)
	exists, err := s.ticketRepository.ExistsForUserAndEvent(ctx, tx, userID, event.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyRegistered
	}

	// 3. 名額檢查：capacity 0 表示不限人數
	if event.HasCapacityLimit() {
		count, err := s.ticketRepository.CountByEventID(ctx, tx, event.ID)
		if err != nil {
			return nil, err
		}
		if count >= event.Capacity {
			return nil, apperrors.ErrSoldOut
		}
	}

	// 4. 發票：票 = 報名紀錄，沒有第二份 participant 清單
	ticket := &model.Ticket{
		TicketID: uuid.New(),
		UserID:   userID,
		EventID:  event.ID,
		Status:   model.TicketStatusValid,
	}
	ticket, err = s.ticketRepository.Create(ctx, tx, ticket)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// 5. commit 後才碰快取與 MQ。票已落地，這兩步失敗都不能讓報名失敗。
	// 用 context.Background()：請求被取消也要把 invalidation 做完
	s.eventCache.InvalidateEvent(context.Background(), eventID)
	s.publishConfirmation(ticket, event)

	return ticket, nil
}

func (s *RegistrationServiceImpl) publishConfirmation(ticket *model.Ticket, event *model.Event) {
	ctx := context.Background()

	user, err := s.userRepository.FindByID(ctx, ticket.UserID)
	if err != nil {
		logger.WithComponent("service").Warn("load user for confirmation failed",
			zap.String("ticket_id", ticket.TicketID.String()), zap.Error(err))
		return
	}

	confirmation := &model.TicketConfirmation{
		TicketID:      ticket.TicketID,
		AttendeeName:  user.Name,
		AttendeeEmail: user.Email,
		EventTitle:    event.Title,
		EventDate:     event.Date,
	}
	if err := s.confirmationQueue.PublishConfirmation(ctx, confirmation); err != nil {
		logger.WithComponent("service").Warn("publish confirmation failed",
			zap.String("ticket_id", ticket.TicketID.String()), zap.Error(err))
	}
}
