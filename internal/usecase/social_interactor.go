package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Foodgram/internal/core/ports"
	"github.com/GoArmGo/Foodgram/internal/domain"
)

var relationMessages = map[domain.RecipeRelation]struct {
	exists  string
	missing string
}{
	domain.RelationFavorite: {
		exists:  "Рецепт уже добавлен в избранное!",
		missing: "Рецепта нет в избранном.",
	},
	domain.RelationShoppingCart: {
		exists:  "Рецепт уже добавлен в список покупок!",
		missing: "Рецепта нет в списке покупок.",
	},
}

// socialUseCase implements SocialUseCase
type socialUseCase struct {
	social  ports.SocialStorage
	recipes ports.RecipeStorage
	users   ports.UserStorage
	logger  *slog.Logger
}

// NewSocialUseCase создает новый экземпляр SocialUseCase
func NewSocialUseCase(social ports.SocialStorage, recipes ports.RecipeStorage, users ports.UserStorage, logger *slog.Logger) SocialUseCase {
	return &socialUseCase{social: social, recipes: recipes, users: users, logger: logger}
}

func (uc *socialUseCase) AddRecipeRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) (*domain.Recipe, error) {
	msgs, ok := relationMessages[rel]
	if !ok {
		return nil, fmt.Errorf("usecase: неизвестная связь %q", rel)
	}
	recipe, err := uc.targetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := uc.social.RelationExists(ctx, rel, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if exists {
		return nil, domain.NewRuleError(domain.ErrAlreadyExists, msgs.exists)
	}

	if err := uc.social.AddRelation(ctx, rel, userID, recipeID); err != nil {
		// параллельный запрос успел вставить ту же пару
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewRuleError(domain.ErrAlreadyExists, msgs.exists)
		}
		return nil, fmt.Errorf("usecase: %w", err)
	}
	return recipe, nil
}

func (uc *socialUseCase) RemoveRecipeRelation(ctx context.Context, rel domain.RecipeRelation, userID, recipeID int64) error {
	msgs, ok := relationMessages[rel]
	if !ok {
		return fmt.Errorf("usecase: неизвестная связь %q", rel)
	}
	if _, err := uc.targetRecipe(ctx, recipeID); err != nil {
		return err
	}

	err := uc.social.RemoveRelation(ctx, rel, userID, recipeID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewRuleError(domain.ErrNotFound, msgs.missing)
	}
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	return nil
}

func (uc *socialUseCase) Follow(ctx context.Context, followerID, authorID int64, recipesLimit int) (*domain.Subscription, error) {
	author, err := uc.targetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if followerID == authorID {
		return nil, domain.NewRuleError(domain.ErrSelfFollowNotAllowed, "Нельзя подписаться на самого себя!")
	}

	exists, err := uc.social.FollowExists(ctx, followerID, authorID)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if exists {
		return nil, domain.NewRuleError(domain.ErrAlreadyExists, "Вы уже подписаны на этого автора!")
	}

	if err := uc.social.AddFollow(ctx, followerID, authorID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewRuleError(domain.ErrAlreadyExists, "Вы уже подписаны на этого автора!")
		}
		return nil, fmt.Errorf("usecase: %w", err)
	}

	sub, err := uc.subscription(ctx, *author, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (uc *socialUseCase) Unfollow(ctx context.Context, followerID, authorID int64) error {
	if _, err := uc.targetUser(ctx, authorID); err != nil {
		return err
	}
	err := uc.social.RemoveFollow(ctx, followerID, authorID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewRuleError(domain.ErrNotFound, "Вы не подписаны на этого автора.")
	}
	if err != nil {
		return fmt.Errorf("usecase: %w", err)
	}
	return nil
}

// ListSubscriptions выбирает подписки по follows.follower_id текущего пользователя
func (uc *socialUseCase) ListSubscriptions(ctx context.Context, followerID int64, page domain.Page, recipesLimit int) ([]domain.Subscription, int64, error) {
	authors, total, err := uc.social.ListFollowing(ctx, followerID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("usecase: ошибка при получении подписок: %w", err)
	}

	subs := make([]domain.Subscription, 0, len(authors))
	for _, author := range authors {
		sub, err := uc.subscription(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, sub)
	}
	return subs, total, nil
}

func (uc *socialUseCase) subscription(ctx context.Context, author domain.User, recipesLimit int) (domain.Subscription, error) {
	filter := domain.RecipeFilter{AuthorID: author.ID}
	if recipesLimit > 0 {
		filter.Page = domain.Page{Number: 1, Limit: min(recipesLimit, domain.MaxPageLimit)}
	} else {
		filter.All = true
	}

	recipes, count, err := uc.recipes.ListRecipes(ctx, filter)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("usecase: рецепты автора %d: %w", author.ID, err)
	}
	return domain.Subscription{Author: author, Recipes: recipes, RecipesCount: count}, nil
}

func (uc *socialUseCase) targetRecipe(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewRuleError(domain.ErrUnknownReference, fmt.Sprintf("Рецепт %d не найден.", recipeID))
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	return recipe, nil
}

func (uc *socialUseCase) targetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewRuleError(domain.ErrUnknownReference, fmt.Sprintf("Пользователь %d не найден.", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	return user, nil
}
