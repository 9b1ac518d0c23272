package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-tracker/internal/apperrors"
	"task-tracker/internal/auth"
	"task-tracker/internal/cache"
	"task-tracker/internal/dto"
	"task-tracker/internal/logger"
	"task-tracker/internal/models"
	"task-tracker/internal/repositories"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

type UserStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type AuthService interface {
	auth.UserLoader
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthServiceImpl struct {
	store    UserStore
	hasher   *auth.PasswordHasher
	cache    cache.Cache
	cacheTTL time.Duration
	group    singleflight.Group
	log      zerolog.Logger
}

func NewAuthService(store UserStore, hasher *auth.PasswordHasher, userCache cache.Cache, cacheTTL time.Duration) *AuthServiceImpl {
	if userCache == nil {
		userCache = cache.NewMemoryCache()
	}
	return &AuthServiceImpl{
		store:    store,
		hasher:   hasher,
		cache:    userCache,
		cacheTTL: cacheTTL,
		log:      logger.With("auth_service"),
	}
}

func (s *AuthServiceImpl) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	taken, err := s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.AlreadyExists("user with this username already exists")
	}

	taken, err = s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.AlreadyExists("user with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.Validation(map[string]string{"password": "password must be at most 72 bytes"})
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.AlreadyExists("user with this username or email already exists")
		}
		return nil, err
	}

	s.group.Forget("username:" + user.Username)
	s.group.Forget("email:" + user.Email)
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("failed to invalidate user cache")
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthServiceImpl) LoadByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.FindByUsername(ctx, username)
}

func (s *AuthServiceImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.lookup(ctx, "username:"+username, func(ctx context.Context) (*models.User, error) {
		user, err := s.store.FindByUsername(ctx, username)
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found: %s", username)
		}
		return user, err
	})
}

func (s *AuthServiceImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.lookup(ctx, "email:"+email, func(ctx context.Context) (*models.User, error) {
		user, err := s.store.FindByEmail(ctx, email)
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found with email: %s", email)
		}
		return user, err
	})
}

// Concurrent misses for one key share a single load.
func (s *AuthServiceImpl) lookup(ctx context.Context, key string, load func(context.Context) (*models.User, error)) (*models.User, error) {
	var cached models.User
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Str("key", key).Msg("user cache read failed")
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		user, err := load(flightCtx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(flightCtx, key, user, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("user cache write failed")
		}
		return user, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		user := *res.Val.(*models.User)
		return &user, nil
	}
}
