package service

import (
	"context"
	"time"

	"eventhub/internal/model"
	"eventhub/internal/repository"
	apperrors "eventhub/pkg/app_errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Session, error)
	// Authenticate 驗證 bearer token，回傳 user id
	Authenticate(ctx context.Context, token uuid.UUID) (int, error)
	Logout(ctx context.Context, token uuid.UUID) error
}

type AuthServiceImpl struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
}

func NewAuthService(userRepository repository.UserRepository, sessionRepository repository.SessionRepository) AuthService {
	return &AuthServiceImpl{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
	}
}

func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	return s.userRepository.Create(ctx, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.Session, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	session := &model.Session{
		Token:     uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}
	return s.sessionRepository.Create(ctx, session)
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, token uuid.UUID) (int, error) {
	session, err := s.sessionRepository.FindByToken(ctx, token)
	if err != nil {
		return 0, err
	}

	if session.IsExpired(time.Now().UTC()) {
		// 過期 session 順手清掉
		_ = s.sessionRepository.Delete(ctx, token)
		return 0, apperrors.ErrUnauthenticated
	}

	return session.UserID, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token uuid.UUID) error {
	return s.sessionRepository.Delete(ctx, token)
}
