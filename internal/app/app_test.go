package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/Foodgram/internal/config"
	"github.com/GoArmGo/Foodgram/internal/database/storage"
	"github.com/GoArmGo/Foodgram/internal/database/storagetest"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/logger"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
	"github.com/GoArmGo/Foodgram/internal/metrics"
	"github.com/GoArmGo/Foodgram/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeFiles struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeFiles) UploadFile(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeFiles) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFiles) ObjectURL(key string) string { return key }

// fakeConsumer сразу отдаёт обработчику заранее заданные задачи.
// Если brokerClosed, канал завершения закрывается сразу, как при обрыве связи с брокером.
type fakeConsumer struct {
	tasks        []payloads.ImageCleanupPayload
	results      []error
	err          error
	brokerClosed bool
}

func (c *fakeConsumer) StartConsumingImageCleanup(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) (<-chan struct{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, task := range c.tasks {
		c.results = append(c.results, handler(ctx, task))
	}
	done := make(chan struct{})
	if c.brokerClosed {
		close(done)
		return done, nil
	}
	go func() {
		<-ctx.Done()
		close(done)
	}()
	return done, nil
}

func TestCleanupHandler(t *testing.T) {
	files := &fakeFiles{}
	handle := cleanupHandler(files, logger.Discard())

	ok := metrics.ImageCleanupTotal.WithLabelValues(payloads.CleanupReasonReplaced, "ok")
	before := testutil.ToFloat64(ok)

	err := handle(context.Background(), payloads.ImageCleanupPayload{
		ObjectKey: "recipes/old.png",
		RecipeID:  3,
		Reason:    payloads.CleanupReasonReplaced,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != "recipes/old.png" {
		t.Errorf("deleted = %v", files.deleted)
	}
	if delta := testutil.ToFloat64(ok) - before; delta != 1 {
		t.Errorf("ok counter delta = %v, want 1", delta)
	}

	files.err = errors.New("s3 is down")
	failed := metrics.ImageCleanupTotal.WithLabelValues(payloads.CleanupReasonDeleted, "error")
	before = testutil.ToFloat64(failed)
	err = handle(context.Background(), payloads.ImageCleanupPayload{ObjectKey: "recipes/x.png", Reason: payloads.CleanupReasonDeleted})
	if err == nil {
		t.Fatal("handler error = nil, want S3 error for requeue")
	}
	if delta := testutil.ToFloat64(failed) - before; delta != 1 {
		t.Errorf("error counter delta = %v, want 1", delta)
	}
}

func TestRunWorkerStopsOnCancel(t *testing.T) {
	files := &fakeFiles{}
	consumer := &fakeConsumer{tasks: []payloads.ImageCleanupPayload{
		{ObjectKey: "recipes/a.png", Reason: payloads.CleanupReasonDeleted},
		{ObjectKey: "recipes/b.webp", Reason: payloads.CleanupReasonRollback},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := runWorker(ctx, consumer, files, logger.Discard()); err != nil {
		t.Fatalf("runWorker() error = %v", err)
	}
	if len(files.deleted) != 2 {
		t.Errorf("deleted = %v", files.deleted)
	}
	for i, err := range consumer.results {
		if err != nil {
			t.Errorf("task %d error = %v", i, err)
		}
	}

	broken := &fakeConsumer{err: errors.New("channel closed")}
	if err := runWorker(context.Background(), broken, files, logger.Discard()); err == nil {
		t.Error("runWorker() with broken consumer error = nil")
	}
}

func TestRunWorkerFailsWhenBrokerClosesDeliveries(t *testing.T) {
	consumer := &fakeConsumer{brokerClosed: true}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := runWorker(ctx, consumer, &fakeFiles{}, logger.Discard())
	if err == nil {
		t.Fatal("runWorker() error = nil, want error after delivery channel closed")
	}
	if ctx.Err() != nil {
		t.Error("runWorker() waited for the context instead of returning")
	}
}

func TestRunLoader(t *testing.T) {
	db := storagetest.NewDB(t)
	loader := usecase.NewCatalogLoader(storage.NewCatalogStorage(db, logger.Discard()), logger.Discard())

	path := filepath.Join(t.TempDir(), "ingredients.csv")
	if err := os.WriteFile(path, []byte("мука,г\nяйцо,шт\nмука,г\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	counter := metrics.CatalogRowsLoaded.WithLabelValues("ingredients")
	before := testutil.ToFloat64(counter)

	if err := runLoader(context.Background(), loader.LoadIngredients, "ingredients", path, logger.Discard()); err != nil {
		t.Fatalf("runLoader() error = %v", err)
	}

	var count int64
	db.Model(&domain.Ingredient{}).Count(&count)
	if count != 2 {
		t.Errorf("ingredients in db = %d, want 2", count)
	}
	if delta := testutil.ToFloat64(counter) - before; delta != 2 {
		t.Errorf("loaded counter delta = %v, want 2", delta)
	}

	if err := runLoader(context.Background(), loader.LoadIngredients, "ingredients", "", logger.Discard()); err == nil {
		t.Error("runLoader() without path error = nil")
	}
	err := runLoader(context.Background(), loader.LoadIngredients, "ingredients", filepath.Join(t.TempDir(), "missing.csv"), logger.Discard())
	if err == nil || !strings.Contains(err.Error(), "missing.csv") {
		t.Errorf("runLoader() with missing file error = %v", err)
	}
}

func TestRunUnknownModeClosesResources(t *testing.T) {
	var order []string
	app := NewApp(&config.Config{}, logger.Discard(), Deps{
		Closers: []func() error{
			func() error { order = append(order, "db"); return nil },
			func() error { order = append(order, "redis"); return errors.New("already closed") },
		},
	})

	err := app.Run(context.Background(), "bogus", "")
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("Run() error = %v, want unknown mode", err)
	}
	if strings.Join(order, ",") != "redis,db" {
		t.Errorf("close order = %v, want redis,db", order)
	}
	if err := app.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v, want nil", err)
	}
}
