package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/database/storagetest"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/logger"
)

func TestCatalogStorageSearchIngredients(t *testing.T) {
	db := storagetest.NewDB(t)
	s := NewCatalogStorage(db, logger.Discard())

	for _, name := range []string{"сахар", "соль", "сахарная пудра", "масло", "100%_cocoa", "Salt"} {
		storagetest.Ingredient(t, db, name, "г")
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "", want: []string{"100%_cocoa", "Salt", "масло", "сахар", "сахарная пудра", "соль"}},
		{prefix: "sa", want: []string{"Salt"}},
		{prefix: "сах", want: []string{"сахар", "сахарная пудра"}},
		{prefix: "пудра", want: nil},
		{prefix: "100%", want: []string{"100%_cocoa"}},
		{prefix: "%", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := s.SearchIngredients(context.Background(), tt.prefix)
			if err != nil {
				t.Fatalf("SearchIngredients() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchIngredients(%q) = %+v, want %v", tt.prefix, got, tt.want)
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("item %d = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestCatalogStorageTags(t *testing.T) {
	db := storagetest.NewDB(t)
	s := NewCatalogStorage(db, logger.Discard())
	ctx := context.Background()

	lunch := storagetest.Tag(t, db, "Обед", "#49B64E", "lunch")
	storagetest.Tag(t, db, "Ужин", "#8775D2", "dinner")

	tags, err := s.ListTags(ctx)
	if err != nil || len(tags) != 2 || tags[0].Slug != "lunch" {
		t.Fatalf("ListTags() = %+v, %v", tags, err)
	}

	got, err := s.GetTagByID(ctx, lunch.ID)
	if err != nil || got.Name != "Обед" {
		t.Errorf("GetTagByID() = %+v, %v", got, err)
	}
	if _, err := s.GetTagByID(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTagByID(42) error = %v, want ErrNotFound", err)
	}

	existing, err := s.ExistingTagIDs(ctx, []int64{lunch.ID, 42})
	if err != nil {
		t.Fatalf("ExistingTagIDs() error = %v", err)
	}
	if _, ok := existing[lunch.ID]; !ok || len(existing) != 1 {
		t.Errorf("ExistingTagIDs() = %v", existing)
	}
}

func TestCatalogStorageSaveMissingIsIdempotent(t *testing.T) {
	db := storagetest.NewDB(t)
	s := NewCatalogStorage(db, logger.Discard())
	ctx := context.Background()

	batch := []domain.Ingredient{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "мука", MeasurementUnit: "кг"},
		{Name: "яйца", MeasurementUnit: "шт."},
	}

	inserted, err := s.SaveMissingIngredients(ctx, batch)
	if err != nil || inserted != 3 {
		t.Fatalf("first SaveMissingIngredients() = %d, %v; want 3", inserted, err)
	}
	inserted, err = s.SaveMissingIngredients(ctx, append(batch, domain.Ingredient{Name: "соль", MeasurementUnit: "г"}))
	if err != nil || inserted != 1 {
		t.Fatalf("second SaveMissingIngredients() = %d, %v; want 1", inserted, err)
	}

	var count int64
	db.Model(&domain.Ingredient{}).Count(&count)
	if count != 4 {
		t.Errorf("ingredients in catalog = %d, want 4", count)
	}

	tags := []domain.Tag{
		{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
	}
	if n, err := s.SaveMissingTags(ctx, tags); err != nil || n != 2 {
		t.Fatalf("first SaveMissingTags() = %d, %v; want 2", n, err)
	}
	if n, err := s.SaveMissingTags(ctx, tags); err != nil || n != 0 {
		t.Fatalf("second SaveMissingTags() = %d, %v; want 0", n, err)
	}
}
