package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"gorm.io/gorm"
)

// CatalogStorage реализует ports.CatalogStorage: теги и ингредиенты
type CatalogStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCatalogStorage(db *gorm.DB, logger *slog.Logger) *CatalogStorage {
	return &CatalogStorage{db: db, logger: logger}
}

// ListTags возвращает все теги
func (s *CatalogStorage) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("select tags: %w", err)
	}
	return tags, nil
}

func (s *CatalogStorage) GetTagByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, fmt.Errorf("select tag %d: %w", id, translateError(err))
	}
	return &tag, nil
}

// SearchIngredients ищет ингредиенты, название которых начинается с namePrefix
// (без учёта регистра). Пустой префикс возвращает весь справочник.
func (s *CatalogStorage) SearchIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Order("name").Order("id")
	if namePrefix != "" {
		q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}

	var ingredients []domain.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		s.logger.Error("failed to search ingredients", "prefix", namePrefix, "error", err)
		return nil, fmt.Errorf("select ingredients: %w", err)
	}

	s.logger.Debug("ingredients search completed",
		"prefix", namePrefix,
		"found", len(ingredients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ingredients, nil
}

func (s *CatalogStorage) GetIngredientByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, fmt.Errorf("select ingredient %d: %w", id, translateError(err))
	}
	return &ingredient, nil
}

func (s *CatalogStorage) ExistingTagIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	return s.existingIDs(ctx, &domain.Tag{}, ids)
}

func (s *CatalogStorage) ExistingIngredientIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	return s.existingIDs(ctx, &domain.Ingredient{}, ids)
}

func (s *CatalogStorage) existingIDs(ctx context.Context, model any, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}
	var found []int64
	if err := s.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("select existing ids: %w", err)
	}
	return idSet(found), nil
}

// SaveMissingIngredients вставляет ингредиенты, которых ещё нет в справочнике
// (сравнение по паре name + measurement_unit). Всё выполняется в одной транзакции.
func (s *CatalogStorage) SaveMissingIngredients(ctx context.Context, ingredients []domain.Ingredient) (int, error) {
	start := time.Now()
	inserted := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ing := range ingredients {
			row := domain.Ingredient{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
			result := tx.Where("name = ? AND measurement_unit = ?", ing.Name, ing.MeasurementUnit).FirstOrCreate(&row)
			if result.Error != nil {
				return fmt.Errorf("upsert ingredient %q: %w", ing.Name, result.Error)
			}
			inserted += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save ingredients", "error", err)
		return 0, err
	}

	s.logger.Info("ingredients saved",
		"received", len(ingredients),
		"inserted", inserted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return inserted, nil
}

// SaveMissingTags вставляет теги, слаг которых ещё не занят.
func (s *CatalogStorage) SaveMissingTags(ctx context.Context, tags []domain.Tag) (int, error) {
	start := time.Now()
	inserted := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tag := range tags {
			row := domain.Tag{Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
			result := tx.Where("slug = ?", tag.Slug).FirstOrCreate(&row)
			if result.Error != nil {
				return fmt.Errorf("upsert tag %q: %w", tag.Slug, translateError(result.Error))
			}
			inserted += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save tags", "error", err)
		return 0, err
	}

	s.logger.Info("tags saved",
		"received", len(tags),
		"inserted", inserted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return inserted, nil
}
