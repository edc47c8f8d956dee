package domain

import (
	"time"
)

// Recipe представляет модель рецепта,
// соответствует таблице recipes в бд
type Recipe struct {
	ID          int64                `json:"id" db:"id" gorm:"primaryKey"`
	Name        string               `json:"name" db:"name" gorm:"size:200;not null"`
	AuthorID    *int64               `json:"author_id" db:"author_id" gorm:"index"`
	Author      *User                `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CookingTime int                  `json:"cooking_time" db:"cooking_time" gorm:"not null;check:chk_recipes_cooking_time,cooking_time BETWEEN 1 AND 32767"`
	Image       string               `json:"image" db:"image" gorm:"not null"`
	Text        string               `json:"text" db:"text" gorm:"not null"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" db:"updated_at"`
	Ingredients []IngredientInRecipe `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []Tag                `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// IsAuthoredBy сообщает, является ли пользователь автором рецепта.
func (r *Recipe) IsAuthoredBy(userID int64) bool {
	return r.AuthorID != nil && *r.AuthorID == userID
}

// IngredientInRecipe представляет количество ингредиента в рецепте,
// соответствует таблице ingredient_in_recipes в бд
type IngredientInRecipe struct {
	ID           int64      `json:"id" db:"id" gorm:"primaryKey"`
	RecipeID     int64      `json:"recipe_id" db:"recipe_id" gorm:"not null;index"`
	IngredientID int64      `json:"ingredient_id" db:"ingredient_id" gorm:"not null;index"`
	Ingredient   Ingredient `json:"ingredient" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int        `json:"amount" db:"amount" gorm:"not null;check:chk_ingredient_in_recipes_amount,amount BETWEEN 1 AND 32767"`
}

func (IngredientInRecipe) TableName() string {
	return "ingredient_in_recipes"
}

// RecipeTag представляет связующую модель для отношения Many-to-Many между Recipe и Tag,
// соответствует таблице recipe_tags в бд
type RecipeTag struct {
	RecipeID int64 `json:"recipe_id" db:"recipe_id" gorm:"primaryKey"`
	TagID    int64 `json:"tag_id" db:"tag_id" gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeDetails — рецепт вместе с отметками, зависящими от зрителя.
type RecipeDetails struct {
	Recipe             Recipe
	IsFavorited        bool
	IsInShoppingCart   bool
	IsAuthorSubscribed bool
}

// RecipeFilter задаёт выборку списка рецептов.
// Нулевые значения означают отсутствие фильтра.
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Page        Page
	// All отключает пагинацию: возвращаются все подходящие рецепты.
	All bool
}

// Page описывает страницу пагинации.
type Page struct {
	Number int
	Limit  int
}

const (
	DefaultPageLimit = 6
	MaxPageLimit     = 100
)

// Normalize подставляет значения по умолчанию для пустых и некорректных параметров.
func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Limit
}
