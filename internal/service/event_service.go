package service

import (
	"context"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
)

// EventService 主辦方的活動 CRUD。
// 每次成功寫入都要呼叫快取失效，否則列表上的 spots_left 會過期。
type EventService interface {
	Create(ctx context.Context, organizerID int, event *model.Event) (*model.Event, error)
	UpdateByEventID(ctx context.Context, userID int, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	DeleteByEventID(ctx context.Context, userID int, eventID uuid.UUID) error
}

type EventServiceImpl struct {
	repo       repository.EventRepository
	eventCache *cache.EventCache
}

func NewEventService(repo repository.EventRepository, eventCache *cache.EventCache) EventService {
	return &EventServiceImpl{repo: repo, eventCache: eventCache}
}

func (s *EventServiceImpl) Create(ctx context.Context, organizerID int, event *model.Event) (*model.Event, error) {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	event.OrganizerID = organizerID

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	// 新活動還沒有 detail 快取，清列表就夠
	s.eventCache.InvalidateLists(ctx)

	return created, nil
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, userID int, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, apperrors.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, err
	}

	s.eventCache.InvalidateEvent(ctx, eventID)

	return updated, nil
}

func (s *EventServiceImpl) DeleteByEventID(ctx context.Context, userID int, eventID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID {
		return apperrors.ErrForbidden
	}

	// 票由 FK cascade 一併刪除
	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return err
	}

	s.eventCache.InvalidateEvent(ctx, eventID)

	return nil
}
