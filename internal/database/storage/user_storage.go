package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"gorm.io/gorm"
)

// UserStorage реализует интерфейс ports.UserStorage с использованием GORM
type UserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *gorm.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя. Занятые username или email
// дают domain.ErrAlreadyExists.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&domain.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("check user uniqueness: %w", err)
		}
		if taken > 0 {
			return domain.ErrAlreadyExists
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("insert user: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to create user", "username", user.Username, "error", err)
		return err
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID
func (s *UserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, translateError(err))
	}
	return &user, nil
}

// GetUserByEmail получает пользователя по email
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("select user by email: %w", translateError(err))
	}
	return &user, nil
}

// ListUsers получает страницу пользователей в порядке регистрации
func (s *UserStorage) ListUsers(ctx context.Context, page domain.Page) ([]domain.User, int64, error) {
	start := time.Now()
	page = page.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []domain.User
	if err := s.db.WithContext(ctx).
		Order("id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error; err != nil {
		s.logger.Error("failed to list users", "page", page.Number, "error", err)
		return nil, 0, fmt.Errorf("select users: %w", err)
	}

	s.logger.Debug("listed users",
		"page", page.Number,
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, total, nil
}

// UpdatePasswordHash заменяет хэш пароля пользователя
func (s *UserStorage) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("update password of user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update password of user %d: %w", id, domain.ErrNotFound)
	}
	s.logger.Info("user password updated", "user_id", id)
	return nil
}
