package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

// RecipeValidator проверяет тело запроса на создание/изменение рецепта.
// Все правила проверяются независимо, клиент получает полный список нарушений.
type RecipeValidator struct {
	catalog ports.CatalogStorage
}

func NewRecipeValidator(catalog ports.CatalogStorage) *RecipeValidator {
	return &RecipeValidator{catalog: catalog}
}

// Validate возвращает нормализованный рецепт или *domain.ValidationFailure.
// imageRequired равен true при создании; при изменении пустая картинка
// означает «оставить прежнюю».
func (v *RecipeValidator) Validate(ctx context.Context, in domain.RecipeInput, imageRequired bool) (*domain.ValidatedRecipe, error) {
	failure := &domain.ValidationFailure{}

	if err := validateStruct(in, failure); err != nil {
		return nil, err
	}

	ingredients, err := v.checkIngredients(ctx, in.Ingredients, failure)
	if err != nil {
		return nil, err
	}
	tagIDs, err := v.checkTags(ctx, in.Tags, failure)
	if err != nil {
		return nil, err
	}

	if !in.CookingTime.InRange(1, domain.MaxCookingTime) {
		failure.Add(domain.InvalidCookingTime, "cooking_time",
			fmt.Sprintf("Время приготовления должно быть целым числом от 1 до %d минут!", domain.MaxCookingTime))
	}

	var img *domain.DecodedImage
	switch {
	case strings.TrimSpace(in.Image) != "":
		img, err = DecodeImage(in.Image)
		if errors.Is(err, errImageTooLarge) {
			failure.Add(domain.InvalidImage, "image", "Размер изображения не должен превышать 5 МБ.")
		} else if err != nil {
			failure.Add(domain.InvalidImage, "image", "Загрузите правильное изображение (PNG, JPEG, GIF или WebP).")
		}
	case imageRequired:
		failure.Add(domain.InvalidImage, "image", "Добавьте изображение!")
	}

	if err := failure.Err(); err != nil {
		return nil, err
	}

	return &domain.ValidatedRecipe{
		Name:        strings.TrimSpace(in.Name),
		Text:        in.Text,
		CookingTime: int(in.CookingTime.Value),
		Image:       img,
		Ingredients: ingredients,
		TagIDs:      tagIDs,
	}, nil
}

func (v *RecipeValidator) checkIngredients(ctx context.Context, items []domain.RecipeIngredientInput, failure *domain.ValidationFailure) ([]domain.IngredientAmount, error) {
	const field = "ingredients"
	if len(items) == 0 {
		failure.Add(domain.EmptyIngredientList, field, "Нужно добавить хотя бы один ингредиент!")
		return nil, nil
	}

	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	var duplicates, badAmount []int64
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			if !slices.Contains(duplicates, item.ID) {
				duplicates = append(duplicates, item.ID)
			}
		} else {
			seen[item.ID] = struct{}{}
			ids = append(ids, item.ID)
		}
		if !item.Amount.InRange(1, domain.MaxAmount) {
			badAmount = append(badAmount, item.ID)
		}
	}

	existing, err := v.catalog.ExistingIngredientIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки ингредиентов: %w", err)
	}
	var unknown []int64
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	if len(unknown) > 0 {
		failure.Add(domain.UnknownIngredient, field, "Ингредиенты не найдены: "+joinIDs(unknown)+".")
	}
	if len(duplicates) > 0 {
		failure.Add(domain.DuplicateIngredient, field, "Ингредиенты не должны повторяться: "+joinIDs(duplicates)+".")
	}
	if len(badAmount) > 0 {
		failure.Add(domain.InvalidAmount, field, fmt.Sprintf("Количество ингредиента должно быть целым числом от 1 до %d: %s.", domain.MaxAmount, joinIDs(badAmount)))
	}

	amounts := make([]domain.IngredientAmount, 0, len(ids))
	for _, item := range items {
		amounts = append(amounts, domain.IngredientAmount{IngredientID: item.ID, Amount: int(item.Amount.Value)})
	}
	return amounts, nil
}

func (v *RecipeValidator) checkTags(ctx context.Context, tags []int64, failure *domain.ValidationFailure) ([]int64, error) {
	const field = "tags"
	if len(tags) == 0 {
		failure.Add(domain.EmptyTagList, field, "Нужно выбрать хотя бы один тег!")
		return nil, nil
	}

	ids := make([]int64, 0, len(tags))
	seen := make(map[int64]struct{}, len(tags))
	var duplicates []int64
	for _, id := range tags {
		if _, ok := seen[id]; ok {
			if !slices.Contains(duplicates, id) {
				duplicates = append(duplicates, id)
			}
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	existing, err := v.catalog.ExistingTagIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки тегов: %w", err)
	}
	var unknown []int64
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	if len(unknown) > 0 {
		failure.Add(domain.UnknownTag, field, "Теги не найдены: "+joinIDs(unknown)+".")
	}
	if len(duplicates) > 0 {
		failure.Add(domain.DuplicateTag, field, "Теги не должны повторяться: "+joinIDs(duplicates)+".")
	}
	return ids, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
