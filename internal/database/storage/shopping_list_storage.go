package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/jmoiron/sqlx"
)

// shoppingListQuery суммирует количества по паре (название, единица измерения),
// а не по id ингредиента: одинаковые по названию и единице ингредиенты
// сливаются в одну строку.
const shoppingListQuery = `
SELECT i.name             AS name,
       i.measurement_unit AS measurement_unit,
       SUM(iir.amount)    AS total_amount
FROM shopping_carts sc
JOIN ingredient_in_recipes iir ON iir.recipe_id = sc.recipe_id
JOIN ingredients i ON i.id = iir.ingredient_id
WHERE sc.user_id = ?
GROUP BY i.name, i.measurement_unit
ORDER BY i.name, i.measurement_unit
`

// ShoppingListStorage реализует ports.ShoppingListStorage поверх sqlx
type ShoppingListStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewShoppingListStorage(db *sqlx.DB, logger *slog.Logger) *ShoppingListStorage {
	return &ShoppingListStorage{db: db, logger: logger}
}

// ShoppingListItems выполняет один read-only запрос по корзине пользователя
func (s *ShoppingListStorage) ShoppingListItems(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	start := time.Now()

	items := []domain.ShoppingListItem{}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(shoppingListQuery), userID); err != nil {
		s.logger.Error("failed to aggregate shopping list", "user_id", userID, "error", err)
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}

	s.logger.Info("shopping list aggregated",
		"user_id", userID,
		"items", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}
