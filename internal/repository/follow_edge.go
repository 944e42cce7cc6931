package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type FollowEdgeRepository interface {
	Get(ctx context.Context, followerID, followingID string) (*entity.FollowEdge, error)
	// GetActivePair returns every active edge for the pair. More than one
	// means duplicated inserts from retried writes; callers deactivate all.
	GetActivePair(ctx context.Context, followerID, followingID string) ([]entity.FollowEdge, error)
	GetActiveFollowingIDs(ctx context.Context, followerID string) ([]string, error)
	Save(ctx context.Context, edge *entity.FollowEdge) error
	CountActiveFollowers(ctx context.Context, userID string) (int64, error)
	CountActiveFollowing(ctx context.Context, userID string) (int64, error)
}

type followEdgeRepository struct{}

func NewFollowEdgeRepository() *followEdgeRepository {
	return &followEdgeRepository{}
}

func (r *followEdgeRepository) Get(ctx context.Context, followerID, followingID string) (*entity.FollowEdge, error) {
	var result entity.FollowEdge
	id := entity.FollowEdgeID(followerID, followingID)
	err := xcontext.RecordStore(ctx).Get(ctx, entity.FollowEdgeRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *followEdgeRepository) GetActivePair(
	ctx context.Context, followerID, followingID string,
) ([]entity.FollowEdge, error) {
	var result []entity.FollowEdge
	err := xcontext.RecordStore(ctx).Query(ctx, entity.FollowEdgeRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Eq("follower_id", followerID),
			recordstore.Eq("following_id", followingID),
			recordstore.Eq("is_active", true),
		),
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followEdgeRepository) GetActiveFollowingIDs(
	ctx context.Context, followerID string,
) ([]string, error) {
	var edges []entity.FollowEdge
	err := xcontext.RecordStore(ctx).Query(ctx, entity.FollowEdgeRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Eq("follower_id", followerID),
			recordstore.Eq("is_active", true),
		),
	}, &edges)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowingID)
	}

	return ids, nil
}

func (r *followEdgeRepository) Save(ctx context.Context, edge *entity.FollowEdge) error {
	return xcontext.RecordStore(ctx).Put(ctx, entity.FollowEdgeRecord, edge)
}

func (r *followEdgeRepository) CountActiveFollowers(ctx context.Context, userID string) (int64, error) {
	return xcontext.RecordStore(ctx).Count(ctx, entity.FollowEdgeRecord, recordstore.And(
		recordstore.Eq("following_id", userID),
		recordstore.Eq("is_active", true),
	))
}

func (r *followEdgeRepository) CountActiveFollowing(ctx context.Context, userID string) (int64, error) {
	return xcontext.RecordStore(ctx).Count(ctx, entity.FollowEdgeRecord, recordstore.And(
		recordstore.Eq("follower_id", userID),
		recordstore.Eq("is_active", true),
	))
}
