package services

import (
	"context"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewUserService(store Store, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: store, logger: logger, now: time.Now, newID: uuid.NewString}
}

// Register finds a user by email or creates one. Name and role of an existing user are not changed.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, &models.FieldError{Field: "name"}
	}
	if email == "" {
		return nil, &models.FieldError{Field: "email"}
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.DefaultRole
	}

	user, err := s.store.UpsertUser(ctx, &models.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to register user", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}
