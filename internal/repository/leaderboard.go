package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type LeaderboardRepository interface {
	Get(ctx context.Context, userID string) (*entity.LeaderboardEntry, error)
	Save(ctx context.Context, entry *entity.LeaderboardEntry) error
	// GetAll scans every persisted entry. Used to warm the redis boards
	// after a cache flush; entry counts stay small enough for a full scan.
	GetAll(ctx context.Context) ([]entity.LeaderboardEntry, error)
}

type leaderboardRepository struct{}

func NewLeaderboardRepository() *leaderboardRepository {
	return &leaderboardRepository{}
}

func (r *leaderboardRepository) Get(ctx context.Context, userID string) (*entity.LeaderboardEntry, error) {
	var result entity.LeaderboardEntry
	err := xcontext.RecordStore(ctx).Get(ctx, entity.LeaderboardRecord, userID, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *leaderboardRepository) Save(ctx context.Context, entry *entity.LeaderboardEntry) error {
	entry.LastUpdated = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.LeaderboardRecord, entry)
}

func (r *leaderboardRepository) GetAll(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	var result []entity.LeaderboardEntry
	err := xcontext.RecordStore(ctx).Query(ctx, entity.LeaderboardRecord, recordstore.Query{}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
