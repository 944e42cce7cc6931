package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type UserProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.UserProfile, error)
	GetByHandle(ctx context.Context, handle string) (*entity.UserProfile, error)
	Save(ctx context.Context, user *entity.UserProfile) error
	// GetAll scans every profile. Only the reconciliation sweep uses it.
	GetAll(ctx context.Context) ([]entity.UserProfile, error)
}

type userProfileRepository struct{}

func NewUserProfileRepository() *userProfileRepository {
	return &userProfileRepository{}
}

func (r *userProfileRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	var result entity.UserProfile
	err := xcontext.RecordStore(ctx).Get(ctx, entity.UserProfileRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.UserProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.UserProfile
	err := xcontext.RecordStore(ctx).Query(ctx, entity.UserProfileRecord, recordstore.Query{
		Predicate: recordstore.In("id", recordstore.StringsToAny(ids)...),
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userProfileRepository) GetByHandle(ctx context.Context, handle string) (*entity.UserProfile, error) {
	var result []entity.UserProfile
	err := xcontext.RecordStore(ctx).Query(ctx, entity.UserProfileRecord, recordstore.Query{
		Predicate: recordstore.Eq("handle_folded", entity.FoldHandle(handle)),
		Limit:     1,
	}, &result)
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, recordstore.ErrNotFound
	}

	return &result[0], nil
}

func (r *userProfileRepository) GetAll(ctx context.Context) ([]entity.UserProfile, error) {
	var result []entity.UserProfile
	err := xcontext.RecordStore(ctx).Query(ctx, entity.UserProfileRecord, recordstore.Query{}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userProfileRepository) Save(ctx context.Context, user *entity.UserProfile) error {
	user.HandleFolded = entity.FoldHandle(user.Handle)
	user.UpdatedAt = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.UserProfileRecord, user)
}
