package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type LikeRepository interface {
	Get(ctx context.Context, userID, targetID string) (*entity.Like, error)
	Save(ctx context.Context, like *entity.Like) error
	// DeleteAllByUserAndTarget removes every like record of the pair. There
	// should be one, but retried writes can leave duplicates behind.
	DeleteAllByUserAndTarget(ctx context.Context, userID, targetID string) error
	CountByTarget(ctx context.Context, targetID string) (int64, error)
	GetTargetIDsByUser(ctx context.Context, userID string, kind entity.LikeTarget) ([]string, error)
}

type likeRepository struct{}

func NewLikeRepository() *likeRepository {
	return &likeRepository{}
}

func (r *likeRepository) Get(ctx context.Context, userID, targetID string) (*entity.Like, error) {
	var result entity.Like
	id := entity.LikeID(userID, targetID)
	err := xcontext.RecordStore(ctx).Get(ctx, entity.LikeRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *likeRepository) Save(ctx context.Context, like *entity.Like) error {
	return xcontext.RecordStore(ctx).Put(ctx, entity.LikeRecord, like)
}

func (r *likeRepository) DeleteAllByUserAndTarget(ctx context.Context, userID, targetID string) error {
	var likes []entity.Like
	store := xcontext.RecordStore(ctx)
	err := store.Query(ctx, entity.LikeRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Eq("user_id", userID),
			recordstore.Eq("target_id", targetID),
		),
	}, &likes)
	if err != nil {
		return err
	}

	for _, like := range likes {
		if err := store.Delete(ctx, entity.LikeRecord, like.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, targetID string) (int64, error) {
	return xcontext.RecordStore(ctx).Count(
		ctx, entity.LikeRecord, recordstore.Eq("target_id", targetID))
}

func (r *likeRepository) GetTargetIDsByUser(
	ctx context.Context, userID string, kind entity.LikeTarget,
) ([]string, error) {
	var likes []entity.Like
	err := xcontext.RecordStore(ctx).Query(ctx, entity.LikeRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Eq("user_id", userID),
			recordstore.Eq("target_kind", string(kind)),
		),
	}, &likes)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(likes))
	for _, like := range likes {
		ids = append(ids, like.TargetID)
	}

	return ids, nil
}
