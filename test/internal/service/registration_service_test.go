package service

import (
	"context"
	"testing"
	"time"

	"eventhub/internal/cache"
	"eventhub/internal/model"
	"eventhub/internal/queue"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationService() service.RegistrationService {
	eventRepo := repository.NewEventRepository(getTestDB())
	ticketRepo := repository.NewTicketRepository(getTestDB())
	userRepo := repository.NewUserRepository(getTestDB())
	eventCache := cache.NewEventCache(cache.NewNoopStore(), time.Minute)
	confirmationQueue := queue.NewConfirmationQueue(100)
	return service.NewRegistrationService(getTestDB(), eventRepo, ticketRepo, userRepo, eventCache, confirmationQueue)
}

func TestRegister_Success(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	registrationService := newRegistrationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 100)

	ticket, err := registrationService.Register(ctx, userID, eventID)
	require.NoError(t, err)
	require.NotNil(t, ticket)

	assert.Equal(t, userID, ticket.UserID)
	assert.Equal(t, model.TicketStatusValid, ticket.Status)
	assert.NotEqual(t, uuid.Nil, ticket.TicketID)
	assert.Equal(t, 1, countTickets(t, eventID))
}

func TestRegister_AlreadyRegistered(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	registrationService := newRegistrationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 100)

	_, err := registrationService.Register(ctx, userID, eventID)
	require.NoError(t, err)

	// 第二次報名不重發票
	ticket, err := registrationService.Register(ctx, userID, eventID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	assert.Nil(t, ticket)
	assert.Equal(t, 1, countTickets(t, eventID))
}

func TestRegister_SoldOut(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	registrationService := newRegistrationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	eventID := createTestEvent(t, organizerID, "Tiny Workshop", 1)

	firstID := createTestUser(t, "Alice", "alice@test.com")
	_, err := registrationService.Register(ctx, firstID, eventID)
	require.NoError(t, err)

	secondID := createTestUser(t, "Bob", "bob@test.com")
	ticket, err := registrationService.Register(ctx, secondID, eventID)
	assert.ErrorIs(t, err, apperrors.ErrSoldOut)
	assert.Nil(t, ticket)
	assert.Equal(t, 1, countTickets(t, eventID))
}

func TestRegister_UnlimitedCapacity(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	registrationService := newRegistrationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	// capacity 0 表示不限人數
	eventID := createTestEvent(t, organizerID, "Open Event", 0)

	for i := 0; i < 5; i++ {
		userID := createTestUser(t, "User", "user"+uuid.NewString()+"@test.com")
		_, err := registrationService.Register(ctx, userID, eventID)
		require.NoError(t, err)
	}

	assert.Equal(t, 5, countTickets(t, eventID))
}

func TestRegister_EventNotFound(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	registrationService := newRegistrationService()

	userID := createTestUser(t, "Alice", "alice@test.com")

	ticket, err := registrationService.Register(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.Nil(t, ticket)
}

func TestRegister_PublishesConfirmation(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	eventRepo := repository.NewEventRepository(getTestDB())
	ticketRepo := repository.NewTicketRepository(getTestDB())
	userRepo := repository.NewUserRepository(getTestDB())
	eventCache := cache.NewEventCache(cache.NewNoopStore(), time.Minute)
	confirmationQueue := queue.NewConfirmationQueue(100)
	registrationService := service.NewRegistrationService(getTestDB(), eventRepo, ticketRepo, userRepo, eventCache, confirmationQueue)

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 10)

	ticket, err := registrationService.Register(ctx, userID, eventID)
	require.NoError(t, err)

	subCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	delCh, err := confirmationQueue.SubscribeConfirmations(subCtx)
	require.NoError(t, err)

	select {
	case d := <-delCh:
		require.NotNil(t, d.Data)
		assert.Equal(t, ticket.TicketID, d.Data.TicketID)
		assert.Equal(t, "Alice", d.Data.AttendeeName)
		assert.Equal(t, "alice@test.com", d.Data.AttendeeEmail)
		assert.Equal(t, "Go Meetup", d.Data.EventTitle)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout 未收到確認通知")
	}
}
