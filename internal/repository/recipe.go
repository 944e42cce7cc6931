package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type FeedRecipeFilter struct {
	OwnerIDs []string
	Before   int64 // exclusive created_at upper bound, 0 means no bound
	Limit    int
}

type RecipeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	Save(ctx context.Context, recipe *entity.Recipe) error
	GetFeed(ctx context.Context, filter FeedRecipeFilter) ([]entity.Recipe, error)
	// GetAll scans every recipe. Only the reconciliation sweep uses it.
	GetAll(ctx context.Context) ([]entity.Recipe, error)
}

type recipeRepository struct{}

func NewRecipeRepository() *recipeRepository {
	return &recipeRepository{}
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	var result entity.Recipe
	err := xcontext.RecordStore(ctx).Get(ctx, entity.RecipeRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *recipeRepository) Save(ctx context.Context, recipe *entity.Recipe) error {
	recipe.UpdatedAt = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.RecipeRecord, recipe)
}

func (r *recipeRepository) GetAll(ctx context.Context) ([]entity.Recipe, error) {
	var result []entity.Recipe
	err := xcontext.RecordStore(ctx).Query(ctx, entity.RecipeRecord, recordstore.Query{}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *recipeRepository) GetFeed(ctx context.Context, filter FeedRecipeFilter) ([]entity.Recipe, error) {
	pred := recordstore.And(
		recordstore.In("owner_id", recordstore.StringsToAny(filter.OwnerIDs)...),
		recordstore.Eq("is_public", true),
	)
	if filter.Before > 0 {
		pred = recordstore.And(pred, recordstore.Lt("created_at", filter.Before))
	}

	var result []entity.Recipe
	err := xcontext.RecordStore(ctx).Query(ctx, entity.RecipeRecord, recordstore.Query{
		Predicate: pred,
		Sort:      &recordstore.Sort{Field: "created_at", Descending: true},
		Limit:     filter.Limit,
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
