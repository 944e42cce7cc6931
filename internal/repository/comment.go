package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type CommentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	Save(ctx context.Context, comment *entity.Comment) error
	GetByRecipeID(ctx context.Context, recipeID string, limit int) ([]entity.Comment, error)
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var result entity.Comment
	err := xcontext.RecordStore(ctx).Get(ctx, entity.CommentRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *commentRepository) Save(ctx context.Context, comment *entity.Comment) error {
	comment.UpdatedAt = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.CommentRecord, comment)
}

func (r *commentRepository) GetByRecipeID(
	ctx context.Context, recipeID string, limit int,
) ([]entity.Comment, error) {
	var result []entity.Comment
	err := xcontext.RecordStore(ctx).Query(ctx, entity.CommentRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Eq("recipe_id", recipeID),
			recordstore.Eq("is_deleted", false),
		),
		Sort:  &recordstore.Sort{Field: "created_at", Descending: true},
		Limit: limit,
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
