package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/Foodgram/internal/config"
	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// Режимы запуска приложения
const (
	ModeServer          = "server"
	ModeWorker          = "worker"
	ModeLoadIngredients = "load-ingredients"
	ModeLoadTags        = "load-tags"
)

// App хранит собранные зависимости. Для каждого режима заполнены только нужные ему поля.
type App struct {
	Config *config.Config
	logger *slog.Logger

	handler         http.Handler
	fileStorage     ports.FileStorage
	cleanupConsumer ports.ImageCleanupConsumer
	catalogLoader   usecase.CatalogLoader

	// closers вызываются при завершении в обратном порядке
	closers []func() error
}

// Deps — то, что DI-контейнер передаёт в App.
type Deps struct {
	Handler         http.Handler
	FileStorage     ports.FileStorage
	CleanupConsumer ports.ImageCleanupConsumer
	CatalogLoader   usecase.CatalogLoader
	Closers         []func() error
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) *App {
	return &App{
		Config:          cfg,
		logger:          logger,
		handler:         deps.Handler,
		fileStorage:     deps.FileStorage,
		cleanupConsumer: deps.CleanupConsumer,
		catalogLoader:   deps.CatalogLoader,
		closers:         deps.Closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до его завершения.
// file нужен только режимам загрузки справочников.
func (a *App) Run(ctx context.Context, mode, file string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting app", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.handler, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.cleanupConsumer, a.fileStorage, a.logger)
	case ModeLoadIngredients:
		err = runLoader(ctx, a.catalogLoader.LoadIngredients, "ingredients", file, a.logger)
	case ModeLoadTags:
		err = runLoader(ctx, a.catalogLoader.LoadTags, "tags", file, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте server, worker, load-ingredients или load-tags)", mode)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("app stopped", "mode", mode)
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
