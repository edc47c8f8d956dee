// Package storagetest поднимает in-memory SQLite с той же схемой, что и в PostgreSQL,
// для тестов хранилищ, usecase'ов и HTTP-обработчиков.
package storagetest

import (
	"testing"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/glebarez/sqlite"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB создаёт тестовую базу данных (SQLite в памяти) и мигрирует все модели.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось создать тестовую базу: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("не удалось получить sql.DB: %v", err)
	}
	// у каждого соединения с :memory: своя база, поэтому соединение одно
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Tag{},
		&domain.Ingredient{},
		&domain.Recipe{},
		&domain.IngredientInRecipe{},
		&domain.Follow{},
		&domain.Favorite{},
		&domain.ShoppingCart{},
	)
	if err != nil {
		t.Fatalf("миграция тестовой базы не удалась: %v", err)
	}

	return db
}

// NewSQLX оборачивает соединение GORM в sqlx.DB, как это делает client в проде.
func NewSQLX(t *testing.T, db *gorm.DB) *sqlx.DB {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("не удалось получить sql.DB: %v", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite")
}

// MustCreate сохраняет значения в базе, прерывая тест при ошибке.
func MustCreate(t *testing.T, db *gorm.DB, values ...any) {
	t.Helper()
	for _, v := range values {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("не удалось сохранить %T: %v", v, err)
		}
	}
}

// User создаёт пользователя с уникальными username и email.
func User(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: "hash",
	}
	MustCreate(t, db, u)
	return u
}

// Tag создаёт тег.
func Tag(t *testing.T, db *gorm.DB, name, color, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, Color: color, Slug: slug}
	MustCreate(t, db, tag)
	return tag
}

// Ingredient создаёт ингредиент.
func Ingredient(t *testing.T, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	MustCreate(t, db, ing)
	return ing
}

// Recipe создаёт рецепт со связями напрямую, минуя usecase.
func Recipe(t *testing.T, db *gorm.DB, author *domain.User, name string, tags []*domain.Tag, ingredients map[*domain.Ingredient]int) *domain.Recipe {
	t.Helper()
	authorID := author.ID
	r := &domain.Recipe{
		Name:        name,
		AuthorID:    &authorID,
		CookingTime: 10,
		Image:       "recipes/" + name + ".png",
		Text:        "text of " + name,
	}
	if err := db.Omit("Author", "Ingredients", "Tags").Create(r).Error; err != nil {
		t.Fatalf("не удалось сохранить рецепт: %v", err)
	}
	for _, tag := range tags {
		MustCreate(t, db, &domain.RecipeTag{RecipeID: r.ID, TagID: tag.ID})
	}
	for ing, amount := range ingredients {
		MustCreate(t, db, &domain.IngredientInRecipe{RecipeID: r.ID, IngredientID: ing.ID, Amount: amount})
	}
	return r
}
