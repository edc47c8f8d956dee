package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/Foodgram/internal/domain"
)

// CatalogStorage определяет методы для работы со справочниками тегов и ингредиентов
type CatalogStorage interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTagByID(ctx context.Context, id int64) (*domain.Tag, error)
	SearchIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
	GetIngredientByID(ctx context.Context, id int64) (*domain.Ingredient, error)

	// ExistingTagIDs и ExistingIngredientIDs возвращают подмножество переданных id,
	// которые есть в бд. Используются валидатором рецептов.
	ExistingTagIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	ExistingIngredientIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)

	// SaveMissingIngredients и SaveMissingTags вставляют только отсутствующие записи
	// и возвращают число вставленных. Используются загрузчиком справочников.
	SaveMissingIngredients(ctx context.Context, ingredients []domain.Ingredient) (int, error)
	SaveMissingTags(ctx context.Context, tags []domain.Tag) (int, error)
}

// RecipeStorage определяет методы для работы с рецептами.
// Create и Replace выполняются в одной транзакции вместе со связями.
type RecipeStorage interface {
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, ingredients []domain.IngredientAmount, tagIDs []int64) error
	ReplaceRecipe(ctx context.Context, recipe *domain.Recipe, ingredients []domain.IngredientAmount, tagIDs []int64) error
	DeleteRecipe(ctx context.Context, id int64) error
	GetRecipeByID(ctx context.Context, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, int64, error)
}

// SocialStorage определяет методы для избранного, корзины и подписок
type SocialStorage interface {
	RelationExists(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) (bool, error)
	AddRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) error
	RemoveRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) error
	// RelatedRecipeIDs возвращает те из recipeIDs, что связаны с пользователем.
	RelatedRecipeIDs(ctx context.Context, rel domain.RecipeRelation, userID int64, recipeIDs []int64) (map[int64]struct{}, error)

	FollowExists(ctx context.Context, followerID, followingID int64) (bool, error)
	AddFollow(ctx context.Context, followerID, followingID int64) error
	RemoveFollow(ctx context.Context, followerID, followingID int64) error
	FollowedAuthorIDs(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]struct{}, error)
	ListFollowing(ctx context.Context, followerID int64, page domain.Page) ([]domain.User, int64, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, page domain.Page) ([]domain.User, int64, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// ShoppingListStorage строит агрегированный список покупок одним запросом
type ShoppingListStorage interface {
	ShoppingListItems(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
// порт для хранения бинарных данных (самих изображений)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл из хранилища по его ключу.
	DeleteFile(ctx context.Context, key string) error

	// ObjectURL строит публичный URL объекта по ключу.
	ObjectURL(key string) string
}
