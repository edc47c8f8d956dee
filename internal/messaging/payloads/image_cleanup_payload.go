package payloads

// ImageCleanupPayload представляет задачу на удаление изображения рецепта
// из объектного хранилища через RabbitMQ.
type ImageCleanupPayload struct {
	ObjectKey string `json:"object_key"`
	RecipeID  int64  `json:"recipe_id"`
	Reason    string `json:"reason"`
}

const (
	CleanupReasonReplaced = "replaced"
	CleanupReasonDeleted  = "deleted"
	CleanupReasonRollback = "rollback"
)
