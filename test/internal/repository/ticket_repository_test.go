package repository

import (
	"context"
	"testing"

	"eventhub/internal/model"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_Create(t *testing.T) {
	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		organizerID := createTestUser(t, "Organizer", "organizer@test.com")
		aliceID := createTestUser(t, "Alice", "alice@test.com")
		_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		ticket := &model.Ticket{
			TicketID: uuid.New(),
			UserID:   aliceID,
			EventID:  rowID,
			Status:   model.TicketStatusValid,
		}
		created, err := repo.Create(ctx, tx, ticket)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, model.TicketStatusValid, created.Status)
		assert.NotZero(t, created.CreatedAt)

		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("DuplicateUserAndEvent", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		organizerID := createTestUser(t, "Organizer", "organizer@test.com")
		aliceID := createTestUser(t, "Alice", "alice@test.com")
		_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)
		createTestTicket(t, aliceID, rowID, model.TicketStatusValid)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		// (user_id, event_id) unique index 擋下重複報名
		_, err = repo.Create(ctx, tx, &model.Ticket{
			TicketID: uuid.New(),
			UserID:   aliceID,
			EventID:  rowID,
			Status:   model.TicketStatusValid,
		})

		assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	})
}

func TestTicketRepository_FindByTicketID(t *testing.T) {
	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		organizerID := createTestUser(t, "Organizer", "organizer@test.com")
		aliceID := createTestUser(t, "Alice", "alice@test.com")
		_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)
		ticketID := createTestTicket(t, aliceID, rowID, model.TicketStatusValid)

		found, err := repo.FindByTicketID(ctx, ticketID)

		require.NoError(t, err)
		assert.Equal(t, ticketID, found.TicketID)
		assert.Equal(t, aliceID, found.UserID)
		assert.Equal(t, rowID, found.EventID)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByTicketID(ctx, uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTicketNotFound, err)
	})
}

func TestTicketRepository_ListByUserID(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	aliceID := createTestUser(t, "Alice", "alice@test.com")
	bobID := createTestUser(t, "Bob", "bob@test.com")

	meetupID, meetupRowID := createTestEvent(t, organizerID, "Go Meetup", 10)
	_, concertRowID := createTestEvent(t, organizerID, "Jazz Night", 10)

	createTestTicket(t, aliceID, meetupRowID, model.TicketStatusValid)
	createTestTicket(t, aliceID, concertRowID, model.TicketStatusUsed)
	createTestTicket(t, bobID, meetupRowID, model.TicketStatusValid)

	tickets, err := repo.ListByUserID(ctx, aliceID)

	require.NoError(t, err)
	require.Len(t, tickets, 2)

	for _, ticket := range tickets {
		assert.Equal(t, aliceID, ticket.UserID)
		assert.NotEmpty(t, ticket.EventTitle)
		if ticket.EventTitle == "Go Meetup" {
			assert.Equal(t, meetupID, ticket.EventUUID)
		}
	}
}

func TestTicketRepository_Redeem(t *testing.T) {
	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		organizerID := createTestUser(t, "Organizer", "organizer@test.com")
		aliceID := createTestUser(t, "Alice", "alice@test.com")
		_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)
		ticketID := createTestTicket(t, aliceID, rowID, model.TicketStatusValid)

		result, err := repo.Redeem(ctx, ticketID)

		require.NoError(t, err)
		assert.Equal(t, "Alice", result.AttendeeName)
		assert.Equal(t, "Go Meetup", result.EventTitle)

		// 狀態已轉 used
		found, err := repo.FindByTicketID(ctx, ticketID)
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusUsed, found.Status)
	})

	t.Run("AlreadyUsed", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		organizerID := createTestUser(t, "Organizer", "organizer@test.com")
		aliceID := createTestUser(t, "Alice", "alice@test.com")
		_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)
		ticketID := createTestTicket(t, aliceID, rowID, model.TicketStatusUsed)

		_, err := repo.Redeem(ctx, ticketID)

		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.Redeem(ctx, uuid.New())

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}

func TestTicketRepository_ExistsForUserAndEvent(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	aliceID := createTestUser(t, "Alice", "alice@test.com")
	bobID := createTestUser(t, "Bob", "bob@test.com")
	_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)
	createTestTicket(t, aliceID, rowID, model.TicketStatusValid)

	tx, err := getTestDB().Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	exists, err := repo.ExistsForUserAndEvent(ctx, tx, aliceID, rowID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForUserAndEvent(ctx, tx, bobID, rowID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTicketRepository_CountByEventID(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewTicketRepository(getTestDB())
	ctx := context.Background()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	aliceID := createTestUser(t, "Alice", "alice@test.com")
	bobID := createTestUser(t, "Bob", "bob@test.com")
	_, rowID := createTestEvent(t, organizerID, "Go Meetup", 10)
	createTestTicket(t, aliceID, rowID, model.TicketStatusValid)
	createTestTicket(t, bobID, rowID, model.TicketStatusUsed)

	tx, err := getTestDB().Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	count, err := repo.CountByEventID(ctx, tx, rowID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
