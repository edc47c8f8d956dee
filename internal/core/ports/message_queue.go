package ports

import (
	"context"

	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
)

// ImageCleanupPublisher определяет методы для публикации задач на удаление
// изображений, которые больше не привязаны ни к одному рецепту.
// Используется usecase'ом рецептов
type ImageCleanupPublisher interface {
	PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error
}

// ImageCleanupConsumer определяет методы для потребления задач на удаление изображений
// будет использоваться воркером для получения задач из очереди
type ImageCleanupConsumer interface {
	// StartConsumingImageCleanup начинает прослушивание очереди
	// принимает функцию-обработчик, которая будет вызываться для каждого полученного сообщения.
	// Возвращённый канал закрывается, когда потребитель перестал получать сообщения
	StartConsumingImageCleanup(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) (<-chan struct{}, error)
}
