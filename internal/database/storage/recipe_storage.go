package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeStorage реализует ports.RecipeStorage с использованием GORM.
// Рецепт и его связи всегда пишутся в одной транзакции.
type RecipeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecipeStorage(db *gorm.DB, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{db: db, logger: logger}
}

// CreateRecipe сохраняет рецепт, его ингредиенты и теги
func (s *RecipeStorage) CreateRecipe(ctx context.Context, recipe *domain.Recipe, ingredients []domain.IngredientAmount, tagIDs []int64) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return insertRecipeLinks(tx, recipe.ID, ingredients, tagIDs)
	})
	if err != nil {
		s.logger.Error("failed to create recipe", "name", recipe.Name, "error", err)
		return err
	}

	s.logger.Info("recipe created",
		"recipe_id", recipe.ID,
		"ingredients", len(ingredients),
		"tags", len(tagIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ReplaceRecipe обновляет поля рецепта и полностью пересобирает его связи:
// все старые строки ingredient_in_recipes и recipe_tags удаляются,
// новые вставляются. Снаружи изменение видно целиком или не видно вовсе.
func (s *RecipeStorage) ReplaceRecipe(ctx context.Context, recipe *domain.Recipe, ingredients []domain.IngredientAmount, tagIDs []int64) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.UpdatedAt = time.Now()
		result := tx.Model(&domain.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
				"image":        recipe.Image,
				"updated_at":   recipe.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("update recipe %d: %w", recipe.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("update recipe %d: %w", recipe.ID, domain.ErrNotFound)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("clear tags of recipe %d: %w", recipe.ID, err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.IngredientInRecipe{}).Error; err != nil {
			return fmt.Errorf("clear ingredients of recipe %d: %w", recipe.ID, err)
		}
		return insertRecipeLinks(tx, recipe.ID, ingredients, tagIDs)
	})
	if err != nil {
		s.logger.Error("failed to replace recipe", "recipe_id", recipe.ID, "error", err)
		return err
	}

	s.logger.Info("recipe replaced",
		"recipe_id", recipe.ID,
		"ingredients", len(ingredients),
		"tags", len(tagIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func insertRecipeLinks(tx *gorm.DB, recipeID int64, ingredients []domain.IngredientAmount, tagIDs []int64) error {
	if len(ingredients) > 0 {
		rows := make([]domain.IngredientInRecipe, 0, len(ingredients))
		for _, ing := range ingredients {
			rows = append(rows, domain.IngredientInRecipe{
				RecipeID:     recipeID,
				IngredientID: ing.IngredientID,
				Amount:       ing.Amount,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("insert ingredients of recipe %d: %w", recipeID, err)
		}
	}

	if len(tagIDs) > 0 {
		links := make([]domain.RecipeTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			links = append(links, domain.RecipeTag{RecipeID: recipeID, TagID: tagID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("insert tags of recipe %d: %w", recipeID, err)
		}
	}
	return nil
}

// DeleteRecipe удаляет рецепт вместе со всеми строками, которые на него ссылаются
func (s *RecipeStorage) DeleteRecipe(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&domain.RecipeTag{},
			&domain.IngredientInRecipe{},
			&domain.Favorite{},
			&domain.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete %T of recipe %d: %w", model, id, err)
			}
		}

		result := tx.Delete(&domain.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete recipe %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("delete recipe %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to delete recipe", "recipe_id", id, "error", err)
		return err
	}

	s.logger.Info("recipe deleted", "recipe_id", id)
	return nil
}

// GetRecipeByID получает рецепт со всеми связями
func (s *RecipeStorage) GetRecipeByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := s.db.WithContext(ctx).Scopes(preloadRecipe).First(&recipe, id).Error
	if err != nil {
		return nil, fmt.Errorf("select recipe %d: %w", id, translateError(err))
	}
	return &recipe, nil
}

// ListRecipes получает страницу рецептов (новые первыми) и общее число
// рецептов, подходящих под фильтр
func (s *RecipeStorage) ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error) {
	start := time.Now()
	page := filter.Page.Normalize()

	var total int64
	if err := s.filtered(ctx, filter).Model(&domain.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	q := s.filtered(ctx, filter).Scopes(preloadRecipe).Order("id DESC")
	if !filter.All {
		q = q.Limit(page.Limit).Offset(page.Offset())
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		s.logger.Error("failed to list recipes", "error", err)
		return nil, 0, fmt.Errorf("select recipes: %w", err)
	}

	s.logger.Debug("listed recipes",
		"page", page.Number,
		"count", len(recipes),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return recipes, total, nil
}

// filtered строит новую цепочку запроса с условиями фильтра.
// Цепочка создаётся заново для каждого запроса, чтобы Count не влиял на Find.
func (s *RecipeStorage) filtered(ctx context.Context, filter domain.RecipeFilter) *gorm.DB {
	q := s.db.WithContext(ctx)

	if filter.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		byTag := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", byTag)
	}
	if filter.FavoritedBy > 0 {
		favorites := s.db.Model(&domain.Favorite{}).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy)
		q = q.Where("recipes.id IN (?)", favorites)
	}
	if filter.InCartOf > 0 {
		cart := s.db.Model(&domain.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", filter.InCartOf)
		q = q.Where("recipes.id IN (?)", cart)
	}
	return q
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_in_recipes.id") }).
		Preload("Ingredients.Ingredient")
}
