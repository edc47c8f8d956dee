package di

import (
	"context"
	"fmt"

	"github.com/GoArmGo/Foodgram/internal/adapter/storage/minio"
	"github.com/GoArmGo/Foodgram/internal/app"
	"github.com/GoArmGo/Foodgram/internal/auth"
	"github.com/GoArmGo/Foodgram/internal/config"
	"github.com/GoArmGo/Foodgram/internal/database/client"
	"github.com/GoArmGo/Foodgram/internal/database/storage"
	"github.com/GoArmGo/Foodgram/internal/handler"
	"github.com/GoArmGo/Foodgram/internal/logger"
	"github.com/GoArmGo/Foodgram/internal/rabbitmq"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// BuildApp инициализирует зависимости, нужные режиму mode, и возвращает готовый объект App.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogCfg := logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}
	slogger := logger.NewSlog(slogCfg)

	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []func() error
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// 2. Инициализация PostgreSQL клиента и миграции
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, dbClient.Close)

	// 3. Инициализация хранилищ
	catalogStorage := storage.NewCatalogStorage(dbClient.Gorm, slogger)

	switch mode {
	case app.ModeLoadIngredients, app.ModeLoadTags:
		slogger.Info("dependencies initialized", "mode", mode)
		return app.NewApp(cfg, slogger, app.Deps{
			CatalogLoader: usecase.NewCatalogLoader(catalogStorage, slogger),
			Closers:       closers,
		}), nil
	case app.ModeServer, app.ModeWorker:
	default:
		return fail(fmt.Errorf("неизвестный режим: %s (используйте server, worker, load-ingredients или load-tags)", mode))
	}

	// 4. Инициализация клиентов внешних сервисов
	fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger) // S3 / MinIO адаптер
	if err != nil {
		return fail(err)
	}

	// 5. Инициализация RabbitMQ клиента: публикация и потребление задач очистки
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() error { rabbitMQClient.Close(); return nil })

	if mode == app.ModeWorker {
		slogger.Info("dependencies initialized", "mode", mode)
		return app.NewApp(cfg, slogger, app.Deps{
			FileStorage:     fileStorage,
			CleanupConsumer: rabbitMQClient,
			Closers:         closers,
		}), nil
	}

	// 6. Redis для отозванных токенов и менеджер JWT
	redisClient, err := client.NewRedis(ctx, cfg.RedisURL, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, redisClient.Close)

	tokenManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fail(err)
	}
	denylist := auth.NewRedisDenylist(redisClient, slogger)

	recipeStorage := storage.NewRecipeStorage(dbClient.Gorm, slogger)
	socialStorage := storage.NewSocialStorage(dbClient.Gorm, slogger)
	userStorage := storage.NewUserStorage(dbClient.Gorm, slogger)
	shoppingListStorage := storage.NewShoppingListStorage(dbClient.DB, slogger)

	// 7. Инициализация бизнес-логики (usecases)
	recipeUseCase := usecase.NewRecipeUseCase(recipeStorage, catalogStorage, socialStorage, fileStorage, rabbitMQClient, slogger)
	socialUseCase := usecase.NewSocialUseCase(socialStorage, recipeStorage, userStorage, slogger)
	shoppingListUseCase := usecase.NewShoppingListUseCase(shoppingListStorage, slogger)
	userUseCase := usecase.NewUserUseCase(userStorage, socialStorage, tokenManager, denylist, slogger)
	catalogUseCase := usecase.NewCatalogUseCase(catalogStorage, slogger)

	// 8. Создание лимитера загрузок картинок
	uploadLimiter := make(chan struct{}, cfg.UploadConcurrency)

	// 9. Сборка HTTP-роутера и итогового приложения
	router := handler.NewRouter(handler.RouterConfig{
		Recipes:            recipeUseCase,
		Social:             socialUseCase,
		ShoppingList:       shoppingListUseCase,
		Users:              userUseCase,
		Catalog:            catalogUseCase,
		Images:             fileStorage,
		UploadLimiter:      uploadLimiter,
		RequestTimeout:     cfg.RequestTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		LoginRateLimit:     cfg.LoginRateLimit,
		Logger:             slogger,
	})

	slogger.Info("dependencies initialized", "mode", mode)
	return app.NewApp(cfg, slogger, app.Deps{
		Handler:     router,
		FileStorage: fileStorage,
		Closers:     closers,
	}), nil
}
