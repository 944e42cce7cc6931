package statistic

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/dateutil"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
	"github.com/cameronsaddress/snapchef-social/pkg/xredis"
)

type Leaderboard interface {
	// AwardPoints adds value to the user's persisted entry and to the live
	// redis boards. Points are additive; the record store is the source of
	// truth and the boards are rebuilt from it on a cache miss.
	AwardPoints(ctx context.Context, userID string, value int64, awardedAt time.Time) error

	GetLeaderboard(
		ctx context.Context, r entity.LeaderboardRange, offset, limit int,
	) ([]model.LeaderboardRow, error)

	GetRank(ctx context.Context, userID string, r entity.LeaderboardRange) (uint64, error)
}

type leaderboard struct {
	leaderboardRepo repository.LeaderboardRepository
	userProfileRepo repository.UserProfileRepository
	redisClient     xredis.Client
}

func New(
	leaderboardRepo repository.LeaderboardRepository,
	userProfileRepo repository.UserProfileRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		leaderboardRepo: leaderboardRepo,
		userProfileRepo: userProfileRepo,
		redisClient:     redisClient,
	}
}

func (l *leaderboard) AwardPoints(
	ctx context.Context, userID string, value int64, awardedAt time.Time,
) error {
	entry, err := l.leaderboardRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, recordstore.ErrNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get leaderboard entry: %v", err)
			return errorx.Unknown
		}

		entry = &entity.LeaderboardEntry{ID: userID, UserID: userID}
	}

	weekValue, err := dateutil.GetValueByRange(awardedAt, entity.LeaderboardRangeWeek)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid week period: %v", err)
		return errorx.Unknown
	}

	monthValue, err := dateutil.GetValueByRange(awardedAt, entity.LeaderboardRangeMonth)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid month period: %v", err)
		return errorx.Unknown
	}

	// A first award in a new period resets the rolling counter before
	// adding.
	if entry.WeekValue != weekValue {
		entry.WeekValue = weekValue
		entry.WeeklyPoints = 0
	}

	if entry.MonthValue != monthValue {
		entry.MonthValue = monthValue
		entry.MonthlyPoints = 0
	}

	entry.TotalPoints += value
	entry.WeeklyPoints += value
	entry.MonthlyPoints += value

	if err := l.leaderboardRepo.Save(ctx, entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save leaderboard entry: %v", err)
		return errorx.Unknown
	}

	for r, periodValue := range map[entity.LeaderboardRange]string{
		entity.LeaderboardRangeWeek:  weekValue,
		entity.LeaderboardRangeMonth: monthValue,
		entity.LeaderboardRangeTotal: "0/0",
	} {
		key := redisKeyLeaderboard(r, periodValue)
		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
			continue
		}

		// A missing board is rebuilt from the store on the next read, so
		// there is nothing to keep in sync here.
		if !ok {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
		}
	}

	return nil
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, r entity.LeaderboardRange, offset, limit int,
) ([]model.LeaderboardRow, error) {
	key, err := l.ensureBoard(ctx, r)
	if err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := make([]string, 0, len(results))
	for _, z := range results {
		userIDs = append(userIDs, z.Member.(string))
	}

	profiles, err := l.userProfileRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get profiles of leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	profileByID := map[string]entity.UserProfile{}
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	rows := []model.LeaderboardRow{}
	for i, z := range results {
		userID := z.Member.(string)

		user := model.User{ID: userID}
		if p, ok := profileByID[userID]; ok {
			user = model.ConvertUser(&p)
		}

		rows = append(rows, model.LeaderboardRow{
			User:        user,
			Points:      int64(z.Score),
			CurrentRank: offset + i + 1,
		})
	}

	return rows, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID string, r entity.LeaderboardRange,
) (uint64, error) {
	key, err := l.ensureBoard(ctx, r)
	if err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

// ensureBoard returns the current redis key for the range, rebuilding the
// sorted set from persisted entries when it is missing.
func (l *leaderboard) ensureBoard(ctx context.Context, r entity.LeaderboardRange) (string, error) {
	key, err := currentRedisKeyLeaderboard(r)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid leaderboard range: %v", err)
		return "", errorx.New(errorx.BadRequest, "Invalid leaderboard range")
	}

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return "", errorx.Unknown
	}

	if !ok {
		if err := l.loadBoardFromStore(ctx, r, key); err != nil {
			return "", err
		}
	}

	return key, nil
}

func (l *leaderboard) loadBoardFromStore(
	ctx context.Context, r entity.LeaderboardRange, key string,
) error {
	entries, err := l.leaderboardRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load leaderboard entries: %v", err)
		return errorx.Unknown
	}

	currentValue, err := dateutil.GetCurrentValueByRange(r)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid period: %v", err)
		return errorx.Unknown
	}

	for _, entry := range entries {
		var score int64
		switch r {
		case entity.LeaderboardRangeWeek:
			// Entries whose rolling counter belongs to an older period
			// contribute zero to the current board.
			if entry.WeekValue != currentValue {
				continue
			}
			score = entry.WeeklyPoints

		case entity.LeaderboardRangeMonth:
			if entry.MonthValue != currentValue {
				continue
			}
			score = entry.MonthlyPoints

		default:
			score = entry.TotalPoints
		}

		err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: entry.UserID, Score: float64(score)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
