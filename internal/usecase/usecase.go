package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/Foodgram/internal/auth"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

// RecipeUseCase определяет бизнес-логику работы с рецептами.
// viewerID равен 0 для анонимного пользователя.
type RecipeUseCase interface {
	// CreateRecipe проверяет тело запроса, загружает картинку в S3
	// и в одной транзакции сохраняет рецепт со всеми связями.
	CreateRecipe(ctx context.Context, authorID int64, in domain.RecipeInput) (*domain.RecipeDetails, error)

	// UpdateRecipe доступен только автору. Ингредиенты и теги заменяются целиком.
	UpdateRecipe(ctx context.Context, userID, recipeID int64, in domain.RecipeInput) (*domain.RecipeDetails, error)

	DeleteRecipe(ctx context.Context, userID, recipeID int64) error
	GetRecipe(ctx context.Context, viewerID, recipeID int64) (*domain.RecipeDetails, error)
	ListRecipes(ctx context.Context, viewerID int64, filter domain.RecipeFilter) ([]domain.RecipeDetails, int64, error)
}

// SocialUseCase определяет избранное, корзину и подписки.
// Повторное добавление даёт ErrAlreadyExists, удаление отсутствующей связи — ErrNotFound.
type SocialUseCase interface {
	AddRecipeRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) (*domain.Recipe, error)
	RemoveRecipeRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) error

	// Follow возвращает автора вместе с его рецептами (не больше recipesLimit, 0 — все).
	Follow(ctx context.Context, followerID, authorID int64, recipesLimit int) (*domain.Subscription, error)
	Unfollow(ctx context.Context, followerID, authorID int64) error
	ListSubscriptions(ctx context.Context, followerID int64, page domain.Page, recipesLimit int) ([]domain.Subscription, int64, error)
}

// ShoppingListUseCase собирает список покупок по корзине пользователя
type ShoppingListUseCase interface {
	BuildShoppingList(ctx context.Context, userID int64) (domain.ShoppingList, error)
}

// UserUseCase определяет регистрацию, аутентификацию и профили пользователей
type UserUseCase interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in domain.LoginInput) (string, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	// Authenticate проверяет токен и возвращает его claims или ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)

	GetUser(ctx context.Context, viewerID, userID int64) (*domain.UserDetails, error)
	ListUsers(ctx context.Context, viewerID int64, page domain.Page) ([]domain.UserDetails, int64, error)
	SetPassword(ctx context.Context, userID int64, in domain.SetPasswordInput) error
}

// CatalogUseCase даёт доступ к справочникам только на чтение
type CatalogUseCase interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	SearchIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error)
}

// CatalogLoader заполняет справочники из CSV-файлов
type CatalogLoader interface {
	LoadIngredients(ctx context.Context, r io.Reader) (LoadReport, error)
	LoadTags(ctx context.Context, r io.Reader) (LoadReport, error)
}

// LoadReport — итог загрузки справочника
type LoadReport struct {
	Read     int
	Inserted int
	Skipped  int
}
