package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes ограничивает тело запроса: картинка до 5 МБ в base64 плюс поля рецепта.
const maxBodyBytes = 8 << 20

// errorResponse — тело ответа для одиночной ошибки.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// validationResponse — тело ответа со списком нарушений.
type validationResponse struct {
	Errors []domain.Violation `json:"errors"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, kind, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{Error: kind, Message: message}, logger)
}

// respondWithDomainError переводит ошибку usecase'а в HTTP-ответ.
// 500 отдаётся только для ошибок, которые не описаны в domain.
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var failure *domain.ValidationFailure
	if errors.As(err, &failure) {
		respondWithJSON(w, http.StatusBadRequest, validationResponse{Errors: failure.Violations}, logger)
		return
	}

	status, kind, message := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	var rule *domain.RuleError
	if errors.As(err, &rule) {
		message = rule.Message
	}
	respondWithError(w, status, kind, message, logger)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownReference):
		return http.StatusNotFound, "UnknownReference", "Объект не найден."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden", "У вас недостаточно прав для выполнения данного действия."
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", "Учетные данные не были предоставлены."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "InvalidCredentials", "Невозможно войти с предоставленными учетными данными."
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest, "AlreadyExists", "Объект уже существует."
	case errors.Is(err, domain.ErrSelfFollowNotAllowed):
		return http.StatusBadRequest, "SelfFollowNotAllowed", "Нельзя подписаться на самого себя."
	case errors.Is(err, domain.ErrNotFound):
		var rule *domain.RuleError
		if errors.As(err, &rule) {
			// удаление отсутствующей связи: объект есть, связи нет
			return http.StatusBadRequest, "NotFound", rule.Message
		}
		return http.StatusNotFound, "NotFound", "Страница не найдена."
	default:
		return http.StatusInternalServerError, "Internal", "Внутренняя ошибка сервера."
	}
}

// decodeJSON читает тело запроса в dst. Неизвестные поля игнорируются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("тело запроса больше %d байт", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("тело запроса пустое")
		default:
			return fmt.Errorf("некорректный JSON: %w", err)
		}
	}
	return nil
}

func respondBadBody(w http.ResponseWriter, err error, logger *slog.Logger) {
	logger.Warn("invalid request body", "error", err)
	respondWithError(w, http.StatusBadRequest, "InvalidBody", err.Error(), logger)
}

// pathID читает числовой параметр {id} из пути. Некорректный id означает 404.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func respondNotFound(w http.ResponseWriter, logger *slog.Logger) {
	respondWithError(w, http.StatusNotFound, "NotFound", "Страница не найдена.", logger)
}

// queryFlag трактует "1" и "true" как включённый фильтр.
func queryFlag(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "1" || v == "true"
}

// queryInt возвращает неотрицательное число из query или def.
func queryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// orEmpty заменяет nil на пустой срез, чтобы в JSON был [] вместо null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
