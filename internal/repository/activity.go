package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type ActivityRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	Save(ctx context.Context, activity *entity.Activity) error
	// GetByTargetUser fetches up to limit activities without a server-side
	// order. The store cannot sort this field reliably, so callers sort by
	// timestamp after the fetch.
	GetByTargetUser(ctx context.Context, userID string, limit int) ([]entity.Activity, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	var result entity.Activity
	err := xcontext.RecordStore(ctx).Get(ctx, entity.ActivityRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *activityRepository) Save(ctx context.Context, activity *entity.Activity) error {
	return xcontext.RecordStore(ctx).Put(ctx, entity.ActivityRecord, activity)
}

func (r *activityRepository) GetByTargetUser(
	ctx context.Context, userID string, limit int,
) ([]entity.Activity, error) {
	var result []entity.Activity
	err := xcontext.RecordStore(ctx).Query(ctx, entity.ActivityRecord, recordstore.Query{
		Predicate: recordstore.Eq("target_user_id", userID),
		Limit:     limit,
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
