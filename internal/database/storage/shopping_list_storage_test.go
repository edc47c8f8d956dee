package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/database/storagetest"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/logger"
)

func TestShoppingListItemsSumsByNameAndUnit(t *testing.T) {
	db := storagetest.NewDB(t)
	s := NewShoppingListStorage(storagetest.NewSQLX(t, db), logger.Discard())
	ctx := context.Background()

	author := storagetest.User(t, db, "chef")
	buyer := storagetest.User(t, db, "buyer")
	other := storagetest.User(t, db, "other")
	tag := storagetest.Tag(t, db, "Выпечка", "#FFAA00", "bakery")

	flour := storagetest.Ingredient(t, db, "Flour", "g")
	sugarA := storagetest.Ingredient(t, db, "Sugar", "g")
	// отдельная строка справочника с теми же названием и единицей
	sugarB := storagetest.Ingredient(t, db, "Sugar", "g")
	sugarKg := storagetest.Ingredient(t, db, "Sugar", "kg")
	milk := storagetest.Ingredient(t, db, "Milk", "ml")

	a := storagetest.Recipe(t, db, author, "Bread", []*domain.Tag{tag}, map[*domain.Ingredient]int{flour: 200, sugarA: 50})
	b := storagetest.Recipe(t, db, author, "Cake", []*domain.Tag{tag}, map[*domain.Ingredient]int{flour: 300, sugarB: 75, sugarKg: 1})
	c := storagetest.Recipe(t, db, author, "Latte", []*domain.Tag{tag}, map[*domain.Ingredient]int{milk: 250})

	storagetest.MustCreate(t, db,
		&domain.ShoppingCart{UserID: buyer.ID, RecipeID: a.ID},
		&domain.ShoppingCart{UserID: buyer.ID, RecipeID: b.ID},
		// чужая корзина не должна попадать в список
		&domain.ShoppingCart{UserID: other.ID, RecipeID: c.ID},
	)

	items, err := s.ShoppingListItems(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems() error = %v", err)
	}

	want := []domain.ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 125},
		{Name: "Sugar", MeasurementUnit: "kg", TotalAmount: 1},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("ShoppingListItems() = %+v, want %+v", items, want)
	}

	again, err := s.ShoppingListItems(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("second ShoppingListItems() error = %v", err)
	}
	if !reflect.DeepEqual(again, items) {
		t.Errorf("repeated aggregation differs: %+v vs %+v", again, items)
	}
}

func TestShoppingListItemsEmptyCart(t *testing.T) {
	db := storagetest.NewDB(t)
	s := NewShoppingListStorage(storagetest.NewSQLX(t, db), logger.Discard())
	user := storagetest.User(t, db, "empty")

	items, err := s.ShoppingListItems(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ShoppingListItems() = %#v, want empty non-nil slice", items)
	}
}
