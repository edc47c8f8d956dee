package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// RecipeHandler — обработчик HTTP-запросов для работы с рецептами,
// избранным, корзиной и списком покупок.
type RecipeHandler struct {
	recipes       usecase.RecipeUseCase
	social        usecase.SocialUseCase
	shoppingList  usecase.ShoppingListUseCase
	images        ImageURLs
	uploadLimiter chan struct{}
	logger        *slog.Logger
}

// NewRecipeHandler создаёт новый экземпляр RecipeHandler.
// uploadLimiter ограничивает число одновременных запросов с загрузкой картинки.
func NewRecipeHandler(
	recipes usecase.RecipeUseCase,
	social usecase.SocialUseCase,
	shoppingList usecase.ShoppingListUseCase,
	images ImageURLs,
	uploadLimiter chan struct{},
	logger *slog.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		social:        social,
		shoppingList:  shoppingList,
		images:        images,
		uploadLimiter: uploadLimiter,
		logger:        logger,
	}
}

// ListRecipes — список рецептов с фильтрами author, tags, is_favorited, is_in_shopping_cart.
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	page := parsePage(r)
	query := r.URL.Query()

	filter := domain.RecipeFilter{
		TagSlugs: query["tags"],
		Page:     page,
	}
	if author := query.Get("author"); author != "" {
		id, err := strconv.ParseInt(author, 10, 64)
		if err != nil || id <= 0 {
			respondWithJSON(w, http.StatusOK, newPageResponse[recipeResponse](r, page, 0, nil), h.logger)
			return
		}
		filter.AuthorID = id
	}
	if queryFlag(r, "is_favorited") {
		filter.FavoritedBy = viewer
	}
	if queryFlag(r, "is_in_shopping_cart") {
		filter.InCartOf = viewer
	}

	recipes, total, err := h.recipes.ListRecipes(r.Context(), viewer, filter)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	results := make([]recipeResponse, 0, len(recipes))
	for _, d := range recipes {
		results = append(results, recipeRead(d, h.images))
	}
	respondWithJSON(w, http.StatusOK, newPageResponse(r, page, total, results), h.logger)
}

// GetRecipe — один рецепт.
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	recipe, err := h.recipes.GetRecipe(r.Context(), viewerID(r), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipeRead(*recipe, h.images), h.logger)
}

// CreateRecipe — создание рецепта. Автор — текущий пользователь.
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var in domain.RecipeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadBody(w, err, h.logger)
		return
	}

	release, ok := h.acquireUpload(w, r)
	if !ok {
		return
	}
	defer release()

	recipe, err := h.recipes.CreateRecipe(r.Context(), viewerID(r), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, recipeRead(*recipe, h.images), h.logger)
}

// UpdateRecipe — изменение рецепта автором. Ингредиенты и теги заменяются целиком.
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	var in domain.RecipeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadBody(w, err, h.logger)
		return
	}

	release, ok := h.acquireUpload(w, r)
	if !ok {
		return
	}
	defer release()

	recipe, err := h.recipes.UpdateRecipe(r.Context(), viewerID(r), id, in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipeRead(*recipe, h.images), h.logger)
}

// DeleteRecipe — удаление рецепта автором.
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	if err := h.recipes.DeleteRecipe(r.Context(), viewerID(r), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite и остальные методы ниже различаются только видом связи.
func (h *RecipeHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, domain.RelationFavorite)
}

func (h *RecipeHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, domain.RelationFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, domain.RelationShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, domain.RelationShoppingCart)
}

func (h *RecipeHandler) addRelation(w http.ResponseWriter, r *http.Request, rel domain.RecipeRelation) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	recipe, err := h.social.AddRecipeRelation(r.Context(), rel, viewerID(r), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, recipeShort(*recipe, h.images), h.logger)
}

func (h *RecipeHandler) removeRelation(w http.ResponseWriter, r *http.Request, rel domain.RecipeRelation) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	if err := h.social.RemoveRecipeRelation(r.Context(), rel, viewerID(r), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadShoppingCart отдаёт список покупок текстовым файлом.
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	list, err := h.shoppingList.BuildShoppingList(r.Context(), viewerID(r))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+domain.ShoppingListFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(list.Render())); err != nil {
		h.logger.Error("failed to write shopping list", "error", err)
	}
}

// acquireUpload занимает слот лимитера загрузок. Освобождать слот нужно вызовом release.
func (h *RecipeHandler) acquireUpload(w http.ResponseWriter, r *http.Request) (release func(), ok bool) {
	select {
	case h.uploadLimiter <- struct{}{}:
		return func() { <-h.uploadLimiter }, true
	case <-r.Context().Done():
		h.logger.Warn("upload slot wait aborted", "error", r.Context().Err())
		respondWithError(w, http.StatusServiceUnavailable, "Unavailable", "Сервер перегружен, повторите запрос позже.", h.logger)
		return nil, false
	}
}
