package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// CatalogHandler отдаёт справочники тегов и ингредиентов без пагинации.
type CatalogHandler struct {
	catalog usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewCatalogHandler(catalog usecase.CatalogUseCase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.ListTags(r.Context())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, orEmpty(tags), h.logger)
}

func (h *CatalogHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	tag, err := h.catalog.GetTag(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tag, h.logger)
}

// SearchIngredients ищет ингредиенты по началу названия (?name=).
func (h *CatalogHandler) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.catalog.SearchIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, orEmpty(ingredients), h.logger)
}

func (h *CatalogHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	ingredient, err := h.catalog.GetIngredient(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, ingredient, h.logger)
}
