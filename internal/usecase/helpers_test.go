package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/database/storage"
	"github.com/GoArmGo/Foodgram/internal/database/storagetest"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/logger"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
	"gorm.io/gorm"
)

// webpPixel — WebP 1x1 без потерь.
const webpPixel = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func encodedImage(t *testing.T, format string) string {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, testImage())
	case "jpeg":
		err = jpeg.Encode(&buf, testImage(), nil)
	case "gif":
		err = gif.Encode(&buf, testImage(), nil)
	default:
		t.Fatalf("unknown format %s", format)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func pngDataURI(t *testing.T) string {
	return "data:image/png;base64," + encodedImage(t, "png")
}

type fakeFileStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	failPut    bool
	failDelete bool
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: map[string][]byte{}}
}

func (f *fakeFileStorage) UploadFile(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return "", errors.New("s3 is down")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return f.ObjectURL(key), nil
}

func (f *fakeFileStorage) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("s3 is down")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileStorage) ObjectURL(key string) string {
	return "http://minio.test/media/" + key
}

func (f *fakeFileStorage) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []payloads.ImageCleanupPayload
	err      error
}

func (p *fakePublisher) PublishImageCleanup(_ context.Context, payload payloads.ImageCleanupPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() []payloads.ImageCleanupPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payloads.ImageCleanupPayload(nil), p.payloads...)
}

// brokenRecipeStorage проваливает запись, чтобы проверить откат загрузки картинки.
type brokenRecipeStorage struct {
	ports.RecipeStorage
}

func (brokenRecipeStorage) CreateRecipe(context.Context, *domain.Recipe, []domain.IngredientAmount, []int64) error {
	return errors.New("connection reset")
}

func (brokenRecipeStorage) ReplaceRecipe(context.Context, *domain.Recipe, []domain.IngredientAmount, []int64) error {
	return errors.New("connection reset")
}

// fixture — тестовая база со справочниками и хранилищами поверх неё.
type fixture struct {
	db      *gorm.DB
	catalog *storage.CatalogStorage
	recipes *storage.RecipeStorage
	social  *storage.SocialStorage
	users   *storage.UserStorage
	cart    *storage.ShoppingListStorage

	breakfast, dinner *domain.Tag
	flour, egg, milk  *domain.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.NewDB(t)
	log := logger.Discard()
	return &fixture{
		db:        db,
		catalog:   storage.NewCatalogStorage(db, log),
		recipes:   storage.NewRecipeStorage(db, log),
		social:    storage.NewSocialStorage(db, log),
		users:     storage.NewUserStorage(db, log),
		cart:      storage.NewShoppingListStorage(storagetest.NewSQLX(t, db), log),
		breakfast: storagetest.Tag(t, db, "Завтрак", "#E26C2D", "breakfast"),
		dinner:    storagetest.Tag(t, db, "Ужин", "#8775D2", "dinner"),
		flour:     storagetest.Ingredient(t, db, "Flour", "g"),
		egg:       storagetest.Ingredient(t, db, "Egg", "pcs"),
		milk:      storagetest.Ingredient(t, db, "Milk", "ml"),
	}
}

func (f *fixture) validInput(t *testing.T) domain.RecipeInput {
	return domain.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix everything and fry.",
		CookingTime: domain.Int(15),
		Image:       pngDataURI(t),
		Ingredients: []domain.RecipeIngredientInput{
			{ID: f.flour.ID, Amount: domain.Int(200)},
			{ID: f.egg.ID, Amount: domain.Int(2)},
		},
		Tags: []int64{f.breakfast.ID},
	}
}

func kinds(err error) []domain.ViolationKind {
	var failure *domain.ValidationFailure
	if !errors.As(err, &failure) {
		return nil
	}
	out := make([]domain.ViolationKind, 0, len(failure.Violations))
	for _, v := range failure.Violations {
		out = append(out, v.Kind)
	}
	return out
}

func hasPrefix(keys []string, prefix string) bool {
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
