package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
	"github.com/GoArmGo/Foodgram/internal/metrics"
)

// runWorker запускает потребителя RabbitMQ и удаляет из S3 картинки,
// которые больше не привязаны к рецептам
func runWorker(
	ctx context.Context,
	consumer ports.ImageCleanupConsumer,
	files ports.FileStorage,
	logger *slog.Logger,
) error {
	logger.Info("worker started, waiting for image cleanup tasks")

	done, err := consumer.StartConsumingImageCleanup(ctx, cleanupHandler(files, logger))
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	select {
	case <-done:
		if ctx.Err() == nil {
			return errors.New("потребитель RabbitMQ остановился: канал доставки закрыт")
		}
	case <-ctx.Done():
		// дожидаемся обработки текущего сообщения
		<-done
	}
	logger.Info("worker stopped")
	return nil
}

// cleanupHandler обрабатывает одну задачу очистки. Ошибка возвращается потребителю,
// чтобы он мог вернуть сообщение в очередь.
func cleanupHandler(files ports.FileStorage, logger *slog.Logger) func(context.Context, payloads.ImageCleanupPayload) error {
	return func(ctx context.Context, payload payloads.ImageCleanupPayload) error {
		start := time.Now()

		err := files.DeleteFile(ctx, payload.ObjectKey)
		metrics.RecordImageCleanup(payload.Reason, err)
		if err != nil {
			logger.Error("failed to delete recipe image",
				"key", payload.ObjectKey,
				"recipe_id", payload.RecipeID,
				"reason", payload.Reason,
				"error", err,
			)
			return err
		}

		logger.Info("recipe image deleted",
			"key", payload.ObjectKey,
			"recipe_id", payload.RecipeID,
			"reason", payload.Reason,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}
