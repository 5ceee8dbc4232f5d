package service

import (
	"context"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/repository"

	"github.com/google/uuid"
)

type QueryService interface {
	// ListEvents 活動列表，先查快取，miss 再讀 DB 並回填
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.EventSummary, error)
	// GetEvent 單一活動，同樣走 read-through 快取
	GetEvent(ctx context.Context, eventID uuid.UUID) (*model.EventDetail, error)
}

type QueryServiceImpl struct {
	eventRepository repository.EventRepository
	eventCache      *cache.EventCache
}

func NewQueryService(eventRepository repository.EventRepository, eventCache *cache.EventCache) QueryService {
	return &QueryServiceImpl{
		eventRepository: eventRepository,
		eventCache:      eventCache,
	}
}

func (s *QueryServiceImpl) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.EventSummary, error) {
	filter = filter.Normalize()

	if summaries, ok := s.eventCache.GetEventList(ctx, filter); ok {
		return summaries, nil
	}

	events, err := s.eventRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, &model.EventSummary{
			EventID:         e.EventID,
			Title:           e.Title,
			Tagline:         e.Tagline,
			Category:        e.Category,
			Date:            e.Date,
			Time:            e.Time,
			Image:           e.Image,
			Capacity:        e.Capacity,
			IsFree:          e.IsFree,
			Price:           e.Price,
			SpotsLeft:       e.SpotsLeft(e.TicketCount),
			DisplayLocation: e.DisplayLocation(),
		})
	}

	// 回填是 best effort，失敗只會掉 log
	s.eventCache.PutEventList(ctx, filter, summaries)

	return summaries, nil
}

func (s *QueryServiceImpl) GetEvent(ctx context.Context, eventID uuid.UUID) (*model.EventDetail, error) {
	if detail, ok := s.eventCache.GetEventDetail(ctx, eventID); ok {
		return detail, nil
	}

	e, err := s.eventRepository.FindByEventIDWithCount(ctx, eventID)
	if err != nil {
		return nil, err
	}

	detail := &model.EventDetail{
		Event:           e.Event,
		TicketCount:     e.TicketCount,
		SpotsLeft:       e.SpotsLeft(e.TicketCount),
		DisplayLocation: e.DisplayLocation(),
	}

	s.eventCache.PutEventDetail(ctx, detail)

	return detail, nil
}
