package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/auth"
	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	users    ports.UserStorage
	social   ports.SocialStorage
	tokens   ports.TokenManager
	denylist ports.TokenDenylist
	logger   *slog.Logger
	cost     int
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	users ports.UserStorage,
	social ports.SocialStorage,
	tokens ports.TokenManager,
	denylist ports.TokenDenylist,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		users:    users,
		social:   social,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

func (uc *userUseCase) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	failure := &domain.ValidationFailure{}
	if err := validateStruct(in, failure); err != nil {
		return nil, err
	}
	if strings.EqualFold(in.Username, "me") {
		failure.Add(domain.InvalidField, "username", "Имя пользователя «me» зарезервировано.")
	}
	if err := failure.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка хэширования пароля: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewRuleError(domain.ErrAlreadyExists, "Пользователь с таким email или username уже существует.")
		}
		return nil, fmt.Errorf("usecase: ошибка при регистрации: %w", err)
	}
	return user, nil
}

func (uc *userUseCase) Login(ctx context.Context, in domain.LoginInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	failure := &domain.ValidationFailure{}
	if err := validateStruct(in, failure); err != nil {
		return "", err
	}
	if err := failure.Err(); err != nil {
		return "", err
	}

	user, err := uc.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("usecase: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.logger.Warn("failed login attempt", "user_id", user.ID)
		return "", domain.ErrInvalidCredentials
	}

	token, claims, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("usecase: %w", err)
	}
	uc.logger.Info("user logged in", "user_id", user.ID, "jti", claims.ID)
	return token, nil
}

func (uc *userUseCase) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return domain.ErrUnauthorized
	}
	if err := uc.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	return nil
}

func (uc *userUseCase) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	revoked, err := uc.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, viewerID, userID int64) (*domain.UserDetails, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: пользователь %d: %w", userID, err)
	}
	details, err := uc.withSubscription(ctx, viewerID, []domain.User{*user})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, viewerID int64, page domain.Page) ([]domain.UserDetails, int64, error) {
	users, total, err := uc.users.ListUsers(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("usecase: ошибка при получении пользователей: %w", err)
	}
	details, err := uc.withSubscription(ctx, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (uc *userUseCase) SetPassword(ctx context.Context, userID int64, in domain.SetPasswordInput) error {
	failure := &domain.ValidationFailure{}
	if err := validateStruct(in, failure); err != nil {
		return err
	}
	if err := failure.Err(); err != nil {
		return err
	}

	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("usecase: пользователь %d: %w", userID, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		failure.Add(domain.InvalidField, "current_password", "Неверный текущий пароль.")
		return failure
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cost)
	if err != nil {
		return fmt.Errorf("usecase: ошибка хэширования пароля: %w", err)
	}
	if err := uc.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	uc.logger.Info("password changed", "user_id", userID)
	return nil
}

func (uc *userUseCase) withSubscription(ctx context.Context, viewerID int64, users []domain.User) ([]domain.UserDetails, error) {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := uc.social.FollowedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при проверке подписок: %w", err)
	}

	details := make([]domain.UserDetails, len(users))
	for i, u := range users {
		_, subscribed := followed[u.ID]
		details[i] = domain.UserDetails{User: u, IsSubscribed: subscribed}
	}
	return details, nil
}
