package repository

import (
	"context"
	"errors"
	"time"

	"eventhub/internal/model"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
	ListByUserID(ctx context.Context, userID int) ([]*model.TicketWithEvent, error)
	// Redeem 把 valid 票標成 used，回傳出席者與活動資訊。
	// 同一張票同時掃描多次，只有一個 caller 會成功。
	Redeem(ctx context.Context, ticketID uuid.UUID) (*model.VerificationResult, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	ExistsForUserAndEvent(ctx context.Context, tx pgx.Tx, userID int, eventID int) (bool, error)
	CountByEventID(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (ticket_id, user_id, event_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, ticket_id, user_id, event_id, status, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		ticket.TicketID, ticket.UserID, ticket.EventID, ticket.Status,
	).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		// (user_id, event_id) unique index 是重複報名的最後防線
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	query := `
		SELECT id, ticket_id, user_id, event_id, status, created_at, updated_at
		FROM tickets
		WHERE ticket_id = $1
	`

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) ListByUserID(ctx context.Context, userID int) ([]*model.TicketWithEvent, error) {
	query := `
		SELECT t.id, t.ticket_id, t.user_id, t.event_id, t.status, t.created_at, t.updated_at,
		       e.event_id, e.title, e.date, e.time, e.location
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.TicketWithEvent, 0)
	for rows.Next() {
		var t model.TicketWithEvent
		err := rows.Scan(
			&t.ID,
			&t.TicketID,
			&t.UserID,
			&t.EventID,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.EventUUID,
			&t.EventTitle,
			&t.EventDate,
			&t.EventTime,
			&t.Location,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) ExistsForUserAndEvent(ctx context.Context, tx pgx.Tx, userID int, eventID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tickets WHERE user_id = $1 AND event_id = $2
		)
	`

	var exists bool
	err := tx.QueryRow(ctx, query, userID, eventID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *TicketRepositoryImpl) CountByEventID(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		SELECT COUNT(*) FROM tickets WHERE event_id = $1
	`

	var count int
	err := tx.QueryRow(ctx, query, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Redeem 的條件式 UPDATE 是查驗的原子化點：
// WHERE status = 'valid' 保證同一張票不會被標記兩次
func (r *TicketRepositoryImpl) Redeem(ctx context.Context, ticketID uuid.UUID) (*model.VerificationResult, error) {
	query := `
		UPDATE tickets t
		SET status = $1, updated_at = $2
		FROM users u, events e
		WHERE t.ticket_id = $3
		  AND t.status = $4
		  AND u.id = t.user_id
		  AND e.id = t.event_id
		RETURNING u.name, e.title
	`

	var result model.VerificationResult
	err := r.pool.QueryRow(ctx, query,
		model.TicketStatusUsed, time.Now().UTC(), ticketID, model.TicketStatusValid,
	).Scan(&result.AttendeeName, &result.EventTitle)

	if err != nil {
		if err == pgx.ErrNoRows {
			// 沒更新到任何列：票不存在，或已經被用過
			return nil, r.classifyRedeemFailure(ctx, ticketID)
		}
		return nil, err
	}

	return &result, nil
}

func (r *TicketRepositoryImpl) classifyRedeemFailure(ctx context.Context, ticketID uuid.UUID) error {
	var status model.TicketStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM tickets WHERE ticket_id = $1`, ticketID).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrTicketNotFound
		}
		return err
	}
	if status == model.TicketStatusUsed {
		return apperrors.ErrTicketAlreadyUsed
	}
	return apperrors.ErrTicketNotFound
}
