package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"eventhub/internal/model"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerificationService() service.VerificationService {
	return service.NewVerificationService(repository.NewTicketRepository(getTestDB()))
}

func TestVerify_Success(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	verificationService := newVerificationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 10)
	ticketID := createTestTicket(t, userID, eventID, model.TicketStatusValid)

	result, err := verificationService.Verify(ctx, ticketID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Alice", result.AttendeeName)
	assert.Equal(t, "Go Meetup", result.EventTitle)
}

func TestVerify_SecondScanFails(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	verificationService := newVerificationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 10)
	ticketID := createTestTicket(t, userID, eventID, model.TicketStatusValid)

	_, err := verificationService.Verify(ctx, ticketID)
	require.NoError(t, err)

	// 重複掃描：永遠拿到一樣的拒絕，不會重複入場
	result, err := verificationService.Verify(ctx, ticketID)
	assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
	assert.Nil(t, result)

	result, err = verificationService.Verify(ctx, ticketID)
	assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
	assert.Nil(t, result)
}

func TestVerify_NotFound(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	verificationService := newVerificationService()

	result, err := verificationService.Verify(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	assert.Nil(t, result)
}

func TestVerify_AlreadyUsedTicket(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	verificationService := newVerificationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 10)
	ticketID := createTestTicket(t, userID, eventID, model.TicketStatusUsed)

	result, err := verificationService.Verify(ctx, ticketID)
	assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
	assert.Nil(t, result)
}

// 同一張實體票被多個閘門同時掃描：恰好一個成功
func TestConcurrentVerify_SingleWinner(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	verificationService := newVerificationService()

	organizerID := createTestUser(t, "Organizer", "organizer@test.com")
	userID := createTestUser(t, "Alice", "alice@test.com")
	eventID := createTestEvent(t, organizerID, "Go Meetup", 10)
	ticketID := createTestTicket(t, userID, eventID, model.TicketStatusValid)

	concurrentScans := 20

	var wg sync.WaitGroup
	successCount := 0
	alreadyUsedCount := 0
	var mu sync.Mutex

	for i := 0; i < concurrentScans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := verificationService.Verify(ctx, ticketID)

			mu.Lock()
			if err == nil {
				successCount++
			} else if errors.Is(err, apperrors.ErrTicketAlreadyUsed) {
				alreadyUsedCount++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successCount, "Exactly one scan should succeed")
	assert.Equal(t, concurrentScans-1, alreadyUsedCount, "All other scans should get AlreadyUsed")
}
