package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

type shoppingListUseCase struct {
	storage ports.ShoppingListStorage
	logger  *slog.Logger
}

func NewShoppingListUseCase(storage ports.ShoppingListStorage, logger *slog.Logger) ShoppingListUseCase {
	return &shoppingListUseCase{storage: storage, logger: logger}
}

// BuildShoppingList суммирует ингредиенты всех рецептов из корзины пользователя
func (uc *shoppingListUseCase) BuildShoppingList(ctx context.Context, userID int64) (domain.ShoppingList, error) {
	items, err := uc.storage.ShoppingListItems(ctx, userID)
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("usecase: ошибка при формировании списка покупок: %w", err)
	}
	return domain.NewShoppingList(items), nil
}
