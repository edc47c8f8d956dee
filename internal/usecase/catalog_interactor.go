package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

type catalogUseCase struct {
	catalog ports.CatalogStorage
	logger  *slog.Logger
}

func NewCatalogUseCase(catalog ports.CatalogStorage, logger *slog.Logger) CatalogUseCase {
	return &catalogUseCase{catalog: catalog, logger: logger}
}

func (uc *catalogUseCase) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := uc.catalog.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении тегов: %w", err)
	}
	return tags, nil
}

func (uc *catalogUseCase) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := uc.catalog.GetTagByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: тег %d: %w", id, err)
	}
	return tag, nil
}

// SearchIngredients ищет по началу названия, как ^name в исходном API
func (uc *catalogUseCase) SearchIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := uc.catalog.SearchIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при поиске ингредиентов: %w", err)
	}
	return ingredients, nil
}

func (uc *catalogUseCase) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ingredient, err := uc.catalog.GetIngredientByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ингредиент %d: %w", id, err)
	}
	return ingredient, nil
}
