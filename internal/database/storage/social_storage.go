package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"gorm.io/gorm"
)

// SocialStorage реализует ports.SocialStorage: избранное, корзина и подписки
type SocialStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSocialStorage(db *gorm.DB, logger *slog.Logger) *SocialStorage {
	return &SocialStorage{db: db, logger: logger}
}

// relationRow возвращает строку таблицы связи для пары пользователь–рецепт.
func relationRow(rel domain.RecipeRelation, userID, recipeID int64) (any, error) {
	switch rel {
	case domain.RelationFavorite:
		return &domain.Favorite{UserID: userID, RecipeID: recipeID}, nil
	case domain.RelationShoppingCart:
		return &domain.ShoppingCart{UserID: userID, RecipeID: recipeID}, nil
	default:
		return nil, fmt.Errorf("unknown recipe relation %q", rel)
	}
}

func (s *SocialStorage) RelationExists(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) (bool, error) {
	model, err := relationRow(rel, 0, 0)
	if err != nil {
		return false, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", rel, err)
	}
	return n > 0, nil
}

func (s *SocialStorage) AddRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) error {
	row, err := relationRow(rel, userID, recipeID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert %s: %w", rel, translateError(err))
	}
	s.logger.Info("recipe relation added", "relation", rel, "user_id", userID, "recipe_id", recipeID)
	return nil
}

func (s *SocialStorage) RemoveRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) error {
	model, err := relationRow(rel, 0, 0)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", rel, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", rel, domain.ErrNotFound)
	}
	s.logger.Info("recipe relation removed", "relation", rel, "user_id", userID, "recipe_id", recipeID)
	return nil
}

func (s *SocialStorage) RelatedRecipeIDs(ctx context.Context, rel domain.RecipeRelation, userID int64, recipeIDs []int64) (map[int64]struct{}, error) {
	if userID == 0 || len(recipeIDs) == 0 {
		return map[int64]struct{}{}, nil
	}
	model, err := relationRow(rel, 0, 0)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("select %s recipe ids: %w", rel, err)
	}
	return idSet(ids), nil
}

func (s *SocialStorage) FollowExists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return n > 0, nil
}

func (s *SocialStorage) AddFollow(ctx context.Context, followerID, followingID int64) error {
	follow := domain.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		return fmt.Errorf("insert follow: %w", translateError(err))
	}
	s.logger.Info("follow added", "follower_id", followerID, "following_id", followingID)
	return nil
}

func (s *SocialStorage) RemoveFollow(ctx context.Context, followerID, followingID int64) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		return fmt.Errorf("delete follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete follow: %w", domain.ErrNotFound)
	}
	s.logger.Info("follow removed", "follower_id", followerID, "following_id", followingID)
	return nil
}

func (s *SocialStorage) FollowedAuthorIDs(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]struct{}, error) {
	if followerID == 0 || len(authorIDs) == 0 {
		return map[int64]struct{}{}, nil
	}
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, authorIDs).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("select followed ids: %w", err)
	}
	return idSet(ids), nil
}

// ListFollowing получает авторов, на которых подписан пользователь,
// последние подписки первыми
func (s *SocialStorage) ListFollowing(ctx context.Context, followerID int64, page domain.Page) ([]domain.User, int64, error) {
	start := time.Now()
	page = page.Normalize()

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&domain.User{}).
			Joins("JOIN follows ON follows.following_id = users.id").
			Where("follows.follower_id = ?", followerID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count following: %w", err)
	}

	var users []domain.User
	if err := base().
		Select("users.*").
		Order("follows.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error; err != nil {
		s.logger.Error("failed to list following", "follower_id", followerID, "error", err)
		return nil, 0, fmt.Errorf("select following: %w", err)
	}

	s.logger.Debug("listed following",
		"follower_id", followerID,
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, total, nil
}
