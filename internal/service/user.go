package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/devanshhooda/learn-live-server/internal/events"
	"github.com/devanshhooda/learn-live-server/internal/models"
	"github.com/devanshhooda/learn-live-server/internal/repository"
	"github.com/devanshhooda/learn-live-server/internal/token"
)

// UserService covers registration, login, and profile operations.
type UserService struct {
	repo     repository.UserRepository
	tokens   *token.Manager
	events   *events.Publisher
	log      *zap.SugaredLogger
	hashCost int
}

func NewUserService(repo repository.UserRepository, tokens *token.Manager, pub *events.Publisher, hashCost int, log *zap.SugaredLogger) *UserService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, tokens: tokens, events: pub, log: log, hashCost: hashCost}
}

// Register creates a user from phone and password and returns the record
// with an issued bearer token.
func (s *UserService) Register(ctx context.Context, phone, password, fcmToken string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", ErrInternal)
	}

	u := &models.User{
		PhoneNumber:      phone,
		Password:         string(hash),
		FcmToken:         fcmToken,
		Interests:        []string{},
		Connects:         []string{},
		ReceivedRequests: []string{},
		SentRequests:     []string{},
		CreatedOn:        time.Now().UTC(),
		IsActive:         true,
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := s.tokens.Issue(phone)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", ErrInternal)
	}

	s.events.Publish(ctx, events.Event{Type: events.TypeUserRegistered, UserID: created.ID.Hex()})
	return created, accessToken, nil
}

// Login verifies the password, refreshes the device token when provided,
// and issues a fresh bearer token.
func (s *UserService) Login(ctx context.Context, phone, password, fcmToken string) (*models.User, string, error) {
	u, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	if fcmToken != "" && fcmToken != u.FcmToken {
		if u, err = s.repo.UpdateByPhone(ctx, phone, &models.ProfilePatch{FcmToken: &fcmToken}); err != nil {
			return nil, "", fmt.Errorf("failed to refresh device token: %w", err)
		}
	}

	accessToken, err := s.tokens.Issue(phone)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", ErrInternal)
	}
	return u, accessToken, nil
}

// UpdateByPhone and UpdateByID apply a partial profile patch and return the
// updated record.
func (s *UserService) UpdateByPhone(ctx context.Context, phone string, patch *models.ProfilePatch) (*models.User, error) {
	u, err := s.repo.UpdateByPhone(ctx, phone, patch)
	return u, mapNotFound(err)
}

func (s *UserService) UpdateByID(ctx context.Context, id string, patch *models.ProfilePatch) (*models.User, error) {
	u, err := s.repo.UpdateByID(ctx, id, patch)
	return u, mapNotFound(err)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	return u, mapNotFound(err)
}

func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	return s.repo.ListAll(ctx)
}

func (s *UserService) ListFiltered(ctx context.Context, criteria models.FilterCriteria) ([]models.User, error) {
	return s.repo.ListFiltered(ctx, criteria)
}

func mapNotFound(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrInvalidUserID):
		return ErrUserNotFound
	default:
		return err
	}
}
