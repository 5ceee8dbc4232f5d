package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/model"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventWithCount 活動加上已售出票數 (報名人數以 tickets 為準)
type EventWithCount struct {
	model.Event
	TicketCount int
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]*EventWithCount, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	FindByEventIDWithCount(ctx context.Context, eventID uuid.UUID) (*EventWithCount, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	FindByEventIDForUpdate(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, title, tagline, category, date, time, location,
		description, image, capacity, is_free, price, organizer_id, created_at, updated_at`

func scanEvent(row pgx.Row, event *model.Event) error {
	return row.Scan(
		&event.ID,
		&event.EventID,
		&event.Title,
		&event.Tagline,
		&event.Category,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.Description,
		&event.Image,
		&event.Capacity,
		&event.IsFree,
		&event.Price,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			event_id, title, tagline, category, date, time, location,
			description, image, capacity, is_free, price, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + eventColumns

	row := r.pool.QueryRow(ctx, query,
		event.EventID, event.Title, event.Tagline, event.Category,
		event.Date, event.Time, event.Location, event.Description,
		event.Image, event.Capacity, event.IsFree, event.Price, event.OrganizerID,
	)
	if err := scanEvent(row, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*EventWithCount, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(e.title ILIKE $%d OR e.description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("e.category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.event_id, e.title, e.tagline, e.category, e.date, e.time, e.location,
		       e.description, e.image, e.capacity, e.is_free, e.price, e.organizer_id,
		       e.created_at, e.updated_at,
		       COUNT(t.id) AS ticket_count
		FROM events e
		LEFT JOIN tickets t ON t.event_id = e.id
		%s
		GROUP BY e.id
		ORDER BY e.created_at DESC
	`, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*EventWithCount, 0)
	for rows.Next() {
		var e EventWithCount
		err := rows.Scan(
			&e.ID,
			&e.EventID,
			&e.Title,
			&e.Tagline,
			&e.Category,
			&e.Date,
			&e.Time,
			&e.Location,
			&e.Description,
			&e.Image,
			&e.Capacity,
			&e.IsFree,
			&e.Price,
			&e.OrganizerID,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.TicketCount,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
	`

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByEventIDWithCount(ctx context.Context, eventID uuid.UUID) (*EventWithCount, error) {
	query := `
		SELECT e.id, e.event_id, e.title, e.tagline, e.category, e.date, e.time, e.location,
		       e.description, e.image, e.capacity, e.is_free, e.price, e.organizer_id,
		       e.created_at, e.updated_at,
		       (SELECT COUNT(*) FROM tickets t WHERE t.event_id = e.id) AS ticket_count
		FROM events e
		WHERE e.event_id = $1
	`

	var e EventWithCount
	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&e.ID,
		&e.EventID,
		&e.Title,
		&e.Tagline,
		&e.Category,
		&e.Date,
		&e.Time,
		&e.Location,
		&e.Description,
		&e.Image,
		&e.Capacity,
		&e.IsFree,
		&e.Price,
		&e.OrganizerID,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.TicketCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &e, nil
}

// FindByEventIDForUpdate 以 FOR UPDATE 鎖住活動列，作為報名人數檢查的串行化點
func (r *EventRepositoryImpl) FindByEventIDForUpdate(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
		FOR UPDATE
	`

	var event model.Event
	err := scanEvent(tx.QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		appendSet("title", *params.Title)
	}
	if params.Tagline != nil {
		appendSet("tagline", *params.Tagline)
	}
	if params.Category != nil {
		appendSet("category", *params.Category)
	}
	if params.Date != nil {
		appendSet("date", *params.Date)
	}
	if params.Time != nil {
		appendSet("time", *params.Time)
	}
	if params.Location != nil {
		appendSet("location", *params.Location)
	}
	if params.Description != nil {
		appendSet("description", *params.Description)
	}
	if params.Image != nil {
		appendSet("image", *params.Image)
	}
	if params.Capacity != nil {
		appendSet("capacity", *params.Capacity)
	}
	if params.IsFree != nil {
		appendSet("is_free", *params.IsFree)
	}
	if params.Price != nil {
		appendSet("price", *params.Price)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(sets, ", "), argPos)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, args...), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// Delete 實刪；tickets 由 FK ON DELETE CASCADE 一併清掉
func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM events
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
