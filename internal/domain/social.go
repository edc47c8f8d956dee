package domain

import "time"

// Follow представляет подписку пользователя на автора,
// соответствует таблице follows в бд
type Follow struct {
	ID          int64     `json:"id" db:"id" gorm:"primaryKey"`
	FollowerID  int64     `json:"follower_id" db:"follower_id" gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_not_self,follower_id <> following_id"`
	FollowingID int64     `json:"following_id" db:"following_id" gorm:"not null;uniqueIndex:idx_follows_pair;index"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}

// Favorite — рецепт в избранном пользователя,
// соответствует таблице favorites в бд
type Favorite struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" db:"user_id" gorm:"not null;uniqueIndex:idx_favorites_pair"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id" gorm:"not null;uniqueIndex:idx_favorites_pair;index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart — рецепт в списке покупок пользователя,
// соответствует таблице shopping_carts в бд
type ShoppingCart struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" db:"user_id" gorm:"not null;uniqueIndex:idx_shopping_carts_pair"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id" gorm:"not null;uniqueIndex:idx_shopping_carts_pair;index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// RecipeRelation различает связи пользователь→рецепт с одинаковой семантикой.
type RecipeRelation string

const (
	RelationFavorite     RecipeRelation = "favorite"
	RelationShoppingCart RecipeRelation = "shopping_cart"
)

// Table возвращает имя таблицы, в которой хранится связь.
func (r RecipeRelation) Table() string {
	switch r {
	case RelationFavorite:
		return Favorite{}.TableName()
	case RelationShoppingCart:
		return ShoppingCart{}.TableName()
	default:
		return ""
	}
}
