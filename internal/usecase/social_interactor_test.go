package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/database/storagetest"
	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/GoArmGo/Foodgram/internal/logger"
)

func newSocialUseCase(f *fixture) SocialUseCase {
	return NewSocialUseCase(f.social, f.recipes, f.users, logger.Discard())
}

func TestRecipeRelationGuards(t *testing.T) {
	for _, rel := range []domain.RecipeRelation{domain.RelationFavorite, domain.RelationShoppingCart} {
		t.Run(string(rel), func(t *testing.T) {
			f := newFixture(t)
			uc := newSocialUseCase(f)
			ctx := context.Background()

			author := storagetest.User(t, f.db, "chef")
			user := storagetest.User(t, f.db, "reader")
			recipe := storagetest.Recipe(t, f.db, author, "Omelette", []*domain.Tag{f.breakfast}, map[*domain.Ingredient]int{f.egg: 3})

			got, err := uc.AddRecipeRelation(ctx, rel, user.ID, recipe.ID)
			if err != nil {
				t.Fatalf("AddRecipeRelation() error = %v", err)
			}
			if got.ID != recipe.ID {
				t.Errorf("AddRecipeRelation() recipe = %d, want %d", got.ID, recipe.ID)
			}

			_, err = uc.AddRecipeRelation(ctx, rel, user.ID, recipe.ID)
			var rule *domain.RuleError
			if !errors.Is(err, domain.ErrAlreadyExists) || !errors.As(err, &rule) || rule.Message == "" {
				t.Errorf("second AddRecipeRelation() error = %v, want ErrAlreadyExists with message", err)
			}

			// другой пользователь добавляет тот же рецепт независимо
			if _, err := uc.AddRecipeRelation(ctx, rel, author.ID, recipe.ID); err != nil {
				t.Errorf("AddRecipeRelation() by author error = %v", err)
			}

			if err := uc.RemoveRecipeRelation(ctx, rel, user.ID, recipe.ID); err != nil {
				t.Fatalf("RemoveRecipeRelation() error = %v", err)
			}
			if err := uc.RemoveRecipeRelation(ctx, rel, user.ID, recipe.ID); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("second RemoveRecipeRelation() error = %v, want ErrNotFound", err)
			}

			if _, err := uc.AddRecipeRelation(ctx, rel, user.ID, 9000); !errors.Is(err, domain.ErrUnknownReference) {
				t.Errorf("AddRecipeRelation(missing recipe) error = %v, want ErrUnknownReference", err)
			}
			if err := uc.RemoveRecipeRelation(ctx, rel, user.ID, 9000); !errors.Is(err, domain.ErrUnknownReference) {
				t.Errorf("RemoveRecipeRelation(missing recipe) error = %v, want ErrUnknownReference", err)
			}
		})
	}
}

func TestFollowGuards(t *testing.T) {
	f := newFixture(t)
	uc := newSocialUseCase(f)
	ctx := context.Background()

	reader := storagetest.User(t, f.db, "reader")
	author := storagetest.User(t, f.db, "chef")

	if _, err := uc.Follow(ctx, reader.ID, reader.ID, 0); !errors.Is(err, domain.ErrSelfFollowNotAllowed) {
		t.Errorf("Follow(self) error = %v, want ErrSelfFollowNotAllowed", err)
	}
	if _, err := uc.Follow(ctx, reader.ID, 404, 0); !errors.Is(err, domain.ErrUnknownReference) {
		t.Errorf("Follow(missing) error = %v, want ErrUnknownReference", err)
	}

	sub, err := uc.Follow(ctx, reader.ID, author.ID, 0)
	if err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	if sub.Author.ID != author.ID || sub.RecipesCount != 0 {
		t.Errorf("Follow() = %+v", sub)
	}
	if _, err := uc.Follow(ctx, reader.ID, author.ID, 0); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("second Follow() error = %v, want ErrAlreadyExists", err)
	}

	if err := uc.Unfollow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("Unfollow() error = %v", err)
	}
	if err := uc.Unfollow(ctx, reader.ID, author.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Unfollow() error = %v, want ErrNotFound", err)
	}
}

func TestListSubscriptionsRecipesLimit(t *testing.T) {
	f := newFixture(t)
	uc := newSocialUseCase(f)
	ctx := context.Background()

	reader := storagetest.User(t, f.db, "reader")
	prolific := storagetest.User(t, f.db, "prolific")
	quiet := storagetest.User(t, f.db, "quiet")
	for _, name := range []string{"a", "b", "c"} {
		storagetest.Recipe(t, f.db, prolific, name, []*domain.Tag{f.dinner}, map[*domain.Ingredient]int{f.milk: 1})
	}
	// подписка в обратную сторону не должна попасть в список reader
	storagetest.MustCreate(t, f.db, &domain.Follow{FollowerID: quiet.ID, FollowingID: reader.ID})

	if _, err := uc.Follow(ctx, reader.ID, prolific.ID, 0); err != nil {
		t.Fatalf("Follow(prolific) error = %v", err)
	}
	if _, err := uc.Follow(ctx, reader.ID, quiet.ID, 0); err != nil {
		t.Fatalf("Follow(quiet) error = %v", err)
	}

	subs, total, err := uc.ListSubscriptions(ctx, reader.ID, domain.Page{}, 2)
	if err != nil {
		t.Fatalf("ListSubscriptions() error = %v", err)
	}
	if total != 2 || len(subs) != 2 {
		t.Fatalf("ListSubscriptions() = %d subs, total %d", len(subs), total)
	}
	if subs[0].Author.ID != quiet.ID || subs[0].RecipesCount != 0 {
		t.Errorf("first subscription = %+v, want quiet with no recipes", subs[0])
	}
	if subs[1].RecipesCount != 3 || len(subs[1].Recipes) != 2 || subs[1].Recipes[0].Name != "c" {
		t.Errorf("prolific subscription = count %d, %d recipes", subs[1].RecipesCount, len(subs[1].Recipes))
	}

	unlimited, _, err := uc.ListSubscriptions(ctx, reader.ID, domain.Page{}, 0)
	if err != nil || len(unlimited[1].Recipes) != 3 {
		t.Errorf("ListSubscriptions(no limit) = %+v, %v", unlimited, err)
	}

	mine, total, err := uc.ListSubscriptions(ctx, quiet.ID, domain.Page{}, 0)
	if err != nil || total != 1 || mine[0].Author.ID != reader.ID {
		t.Errorf("ListSubscriptions(quiet) = %+v, %d, %v", mine, total, err)
	}
}
