package service

import (
	"context"
	"errors"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/UnendingLoop/ImageManager/internal/mwlogger"
	"github.com/UnendingLoop/ImageManager/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo repository.UserRepo
}

func NewUserService(userRep repository.UserRepo) *UserService {
	return &UserService{repo: userRep}
}

// Register - создает пользователя; занятый username - ошибка валидации, без ретраев
func (u *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if username == "" || password == "" {
		return nil, model.ErrEmptyCredentials
	}

	// предварительная проверка занятости имени; гонку двух signup закрывает UNIQUE в схеме
	_, err := fetchWithCatalogRetry(func() (*model.User, error) { return u.repo.GetByUsername(ctx, username) })
	switch {
	case err == nil:
		return nil, model.ErrUserExists
	case !errors.Is(err, model.ErrUserNotFound):
		logger.Error().Err(err).Msg("Failed to check username availability in DB")
		return nil, model.ErrCommon500
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		return nil, model.ErrCommon500
	}

	newUser := &model.User{
		Username:       username,
		HashedPassword: string(hash),
	}

	if err := withCatalogRetry(func() error { return u.repo.Create(ctx, newUser) }); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return nil, model.ErrUserExists
		}
		logger.Error().Err(err).Msg("Failed to create user in DB")
		return nil, model.ErrCommon500
	}

	return newUser, nil
}

// Authenticate - не раскрываем, что именно не совпало: имя или пароль
func (u *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if username == "" || password == "" {
		return nil, model.ErrEmptyCredentials
	}

	user, err := fetchWithCatalogRetry(func() (*model.User, error) { return u.repo.GetByUsername(ctx, username) })
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrWrongCredentials
		}
		logger.Error().Err(err).Msg("Failed to fetch user from DB")
		return nil, model.ErrCommon500
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, model.ErrWrongCredentials
	}

	return user, nil
}

// GetByUsername - используется auth-мидлварью для резолва принципала из токена
func (u *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := fetchWithCatalogRetry(func() (*model.User, error) { return u.repo.GetByUsername(ctx, username) })
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, model.ErrCommon500
	}
	return user, nil
}
