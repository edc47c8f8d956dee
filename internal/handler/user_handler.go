package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/usecase"
)

// UserHandler — обработчик HTTP-запросов для пользователей, токенов и подписок.
type UserHandler struct {
	users  usecase.UserUseCase
	social usecase.SocialUseCase
	images ImageURLs
	logger *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(users usecase.UserUseCase, social usecase.SocialUseCase, images ImageURLs, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, social: social, images: images, logger: logger}
}

// Register — регистрация нового пользователя.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadBody(w, err, h.logger)
		return
	}
	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	h.logger.Info("user registered", "user_id", user.ID)
	respondWithJSON(w, http.StatusCreated, registeredUserView(*user), h.logger)
}

// ListUsers — постраничный список пользователей.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	users, total, err := h.users.ListUsers(r.Context(), viewerID(r), page)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	results := make([]userResponse, 0, len(users))
	for _, u := range users {
		results = append(results, userView(u))
	}
	respondWithJSON(w, http.StatusOK, newPageResponse(r, page, total, results), h.logger)
}

// GetUser — профиль пользователя.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	h.respondWithUser(w, r, id)
}

// Me — профиль текущего пользователя.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.respondWithUser(w, r, viewerID(r))
}

func (h *UserHandler) respondWithUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.users.GetUser(r.Context(), viewerID(r), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, userView(*user), h.logger)
}

// SetPassword — смена пароля текущего пользователя.
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var in domain.SetPasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadBody(w, err, h.logger)
		return
	}
	if err := h.users.SetPassword(r.Context(), viewerID(r), in); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Login выдаёт токен по email и паролю.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadBody(w, err, h.logger)
		return
	}
	token, err := h.users.Login(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"auth_token": token}, h.logger)
}

// Logout отзывает токен, с которым пришёл запрос.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), claimsFromContext(r.Context())); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscriptions — авторы, на которых подписан текущий пользователь.
func (h *UserHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	subs, total, err := h.social.ListSubscriptions(r.Context(), viewerID(r), page, queryInt(r, "recipes_limit", 0))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	results := make([]subscriptionResponse, 0, len(subs))
	for _, s := range subs {
		results = append(results, subscriptionView(s, h.images))
	}
	respondWithJSON(w, http.StatusOK, newPageResponse(r, page, total, results), h.logger)
}

// Subscribe — подписка на автора.
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	sub, err := h.social.Follow(r.Context(), viewerID(r), id, queryInt(r, "recipes_limit", 0))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, subscriptionView(*sub, h.images), h.logger)
}

// Unsubscribe — отписка от автора.
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w, h.logger)
		return
	}
	if err := h.social.Unfollow(r.Context(), viewerID(r), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
