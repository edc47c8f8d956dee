package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
	"github.com/google/uuid"
)

// recipeUseCase implements RecipeUseCase
type recipeUseCase struct {
	recipes     ports.RecipeStorage
	social      ports.SocialStorage
	fileStorage ports.FileStorage
	cleanup     ports.ImageCleanupPublisher
	validator   *RecipeValidator
	logger      *slog.Logger
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase
func NewRecipeUseCase(
	recipes ports.RecipeStorage,
	catalog ports.CatalogStorage,
	social ports.SocialStorage,
	fileStorage ports.FileStorage,
	cleanup ports.ImageCleanupPublisher,
	logger *slog.Logger,
) RecipeUseCase {
	return &recipeUseCase{
		recipes:     recipes,
		social:      social,
		fileStorage: fileStorage,
		cleanup:     cleanup,
		validator:   NewRecipeValidator(catalog),
		logger:      logger,
	}
}

func (uc *recipeUseCase) CreateRecipe(ctx context.Context, authorID int64, in domain.RecipeInput) (*domain.RecipeDetails, error) {
	start := time.Now()

	valid, err := uc.validator.Validate(ctx, in, true)
	if err != nil {
		return nil, err
	}

	key, err := uc.uploadImage(ctx, valid.Image)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		Name:        valid.Name,
		AuthorID:    &authorID,
		CookingTime: valid.CookingTime,
		Image:       key,
		Text:        valid.Text,
	}
	if err := uc.recipes.CreateRecipe(ctx, recipe, valid.Ingredients, valid.TagIDs); err != nil {
		uc.discardImage(ctx, key, recipe.ID)
		return nil, fmt.Errorf("usecase: ошибка при сохранении рецепта: %w", err)
	}

	uc.logger.Info("recipe created",
		"recipe_id", recipe.ID,
		"author_id", authorID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return uc.GetRecipe(ctx, authorID, recipe.ID)
}

func (uc *recipeUseCase) UpdateRecipe(ctx context.Context, userID, recipeID int64, in domain.RecipeInput) (*domain.RecipeDetails, error) {
	start := time.Now()

	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: рецепт %d: %w", recipeID, err)
	}
	if !recipe.IsAuthoredBy(userID) {
		return nil, domain.NewRuleError(domain.ErrForbidden, "Изменять рецепт может только его автор.")
	}

	valid, err := uc.validator.Validate(ctx, in, false)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if valid.Image != nil {
		newImage, err = uc.uploadImage(ctx, valid.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = newImage
	}
	recipe.Name = valid.Name
	recipe.Text = valid.Text
	recipe.CookingTime = valid.CookingTime

	if err := uc.recipes.ReplaceRecipe(ctx, recipe, valid.Ingredients, valid.TagIDs); err != nil {
		if newImage != "" {
			uc.discardImage(ctx, newImage, recipeID)
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении рецепта %d: %w", recipeID, err)
	}

	if newImage != "" && oldImage != "" {
		uc.publishCleanup(ctx, payloads.ImageCleanupPayload{
			ObjectKey: oldImage,
			RecipeID:  recipeID,
			Reason:    payloads.CleanupReasonReplaced,
		})
	}

	uc.logger.Info("recipe updated",
		"recipe_id", recipeID,
		"image_replaced", newImage != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return uc.GetRecipe(ctx, userID, recipeID)
}

func (uc *recipeUseCase) DeleteRecipe(ctx context.Context, userID, recipeID int64) error {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("usecase: рецепт %d: %w", recipeID, err)
	}
	if !recipe.IsAuthoredBy(userID) {
		return domain.NewRuleError(domain.ErrForbidden, "Удалять рецепт может только его автор.")
	}

	if err := uc.recipes.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("usecase: ошибка при удалении рецепта %d: %w", recipeID, err)
	}

	if recipe.Image != "" {
		uc.publishCleanup(ctx, payloads.ImageCleanupPayload{
			ObjectKey: recipe.Image,
			RecipeID:  recipeID,
			Reason:    payloads.CleanupReasonDeleted,
		})
	}
	uc.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)
	return nil
}

func (uc *recipeUseCase) GetRecipe(ctx context.Context, viewerID, recipeID int64) (*domain.RecipeDetails, error) {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: рецепт %d: %w", recipeID, err)
	}
	details, err := uc.withViewerFlags(ctx, viewerID, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (uc *recipeUseCase) ListRecipes(ctx context.Context, viewerID int64, filter domain.RecipeFilter) ([]domain.RecipeDetails, int64, error) {
	// фильтры «в избранном» и «в корзине» имеют смысл только для вошедшего пользователя
	if viewerID == 0 {
		filter.FavoritedBy = 0
		filter.InCartOf = 0
	}

	recipes, total, err := uc.recipes.ListRecipes(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("usecase: ошибка при получении списка рецептов: %w", err)
	}
	details, err := uc.withViewerFlags(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// withViewerFlags проставляет отметки зрителя пачкой, по запросу на вид связи.
func (uc *recipeUseCase) withViewerFlags(ctx context.Context, viewerID int64, recipes []domain.Recipe) ([]domain.RecipeDetails, error) {
	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		if r.AuthorID != nil {
			authorIDs = append(authorIDs, *r.AuthorID)
		}
	}

	favorited, err := uc.social.RelatedRecipeIDs(ctx, domain.RelationFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при проверке избранного: %w", err)
	}
	inCart, err := uc.social.RelatedRecipeIDs(ctx, domain.RelationShoppingCart, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при проверке корзины: %w", err)
	}
	followed, err := uc.social.FollowedAuthorIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при проверке подписок: %w", err)
	}

	details := make([]domain.RecipeDetails, len(recipes))
	for i, r := range recipes {
		_, fav := favorited[r.ID]
		_, cart := inCart[r.ID]
		subscribed := false
		if r.AuthorID != nil {
			_, subscribed = followed[*r.AuthorID]
		}
		details[i] = domain.RecipeDetails{
			Recipe:             r,
			IsFavorited:        fav,
			IsInShoppingCart:   cart,
			IsAuthorSubscribed: subscribed,
		}
	}
	return details, nil
}

// uploadImage загружает картинку под новым ключом recipes/<uuid>.<ext>
func (uc *recipeUseCase) uploadImage(ctx context.Context, img *domain.DecodedImage) (string, error) {
	key := fmt.Sprintf("recipes/%s.%s", uuid.NewString(), img.Extension)
	if _, err := uc.fileStorage.UploadFile(ctx, key, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return "", fmt.Errorf("usecase: ошибка загрузки изображения в S3: %w", err)
	}
	return key, nil
}

// discardImage удаляет картинку, для которой не удалось сохранить рецепт.
// Если S3 недоступен, удаление откладывается воркеру через очередь.
func (uc *recipeUseCase) discardImage(ctx context.Context, key string, recipeID int64) {
	err := uc.fileStorage.DeleteFile(ctx, key)
	if err == nil {
		return
	}
	uc.logger.Warn("failed to delete orphaned image, scheduling cleanup", "key", key, "error", err)
	uc.publishCleanup(ctx, payloads.ImageCleanupPayload{
		ObjectKey: key,
		RecipeID:  recipeID,
		Reason:    payloads.CleanupReasonRollback,
	})
}

// publishCleanup только логирует ошибку публикации, запрос при этом не падает.
func (uc *recipeUseCase) publishCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) {
	if err := uc.cleanup.PublishImageCleanup(ctx, payload); err != nil {
		uc.logger.Error("failed to publish image cleanup",
			"key", payload.ObjectKey,
			"reason", payload.Reason,
			"error", err,
		)
	}
}
