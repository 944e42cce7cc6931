package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/testutil"
)

func newLeaderboard(redisClient *testutil.InMemoryRedis) *leaderboard {
	return New(
		repository.NewLeaderboardRepository(),
		repository.NewUserProfileRepository(),
		redisClient,
	)
}

func Test_leaderboard_AwardAndRank(t *testing.T) {
	ctx := testutil.NewMockContext()
	alice, err := testutil.SampleUserProfile(ctx, &entity.UserProfile{Handle: "alice"})
	require.NoError(t, err)
	bob, err := testutil.SampleUserProfile(ctx, &entity.UserProfile{Handle: "bob"})
	require.NoError(t, err)

	redisClient := testutil.NewInMemoryRedis()
	board := newLeaderboard(redisClient)
	now := time.Now()

	require.NoError(t, board.AwardPoints(ctx, alice.ID, 100, now))
	require.NoError(t, board.AwardPoints(ctx, bob.ID, 40, now))
	require.NoError(t, board.AwardPoints(ctx, bob.ID, 30, now))

	entry, err := repository.NewLeaderboardRepository().Get(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(70), entry.TotalPoints)
	require.Equal(t, int64(70), entry.WeeklyPoints)
	require.Equal(t, int64(70), entry.MonthlyPoints)

	rows, err := board.GetLeaderboard(ctx, entity.LeaderboardRangeTotal, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "alice", rows[0].User.Handle)
	require.Equal(t, int64(100), rows[0].Points)
	require.Equal(t, 1, rows[0].CurrentRank)
	require.Equal(t, "bob", rows[1].User.Handle)
	require.Equal(t, 2, rows[1].CurrentRank)

	rank, err := board.GetRank(ctx, bob.ID, entity.LeaderboardRangeWeek)
	require.NoError(t, err)
	require.Equal(t, uint64(2), rank)
}

func Test_leaderboard_RebuildAfterCacheFlush(t *testing.T) {
	ctx := testutil.NewMockContext()
	user, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)

	redisClient := testutil.NewInMemoryRedis()
	board := newLeaderboard(redisClient)

	require.NoError(t, board.AwardPoints(ctx, user.ID, 55, time.Now()))

	// Flush every redis board; the persisted entries rebuild it on read.
	key, err := currentRedisKeyLeaderboard(entity.LeaderboardRangeTotal)
	require.NoError(t, err)
	require.NoError(t, redisClient.Del(ctx, key))

	rows, err := board.GetLeaderboard(ctx, entity.LeaderboardRangeTotal, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(55), rows[0].Points)
}

func Test_leaderboard_PeriodReset(t *testing.T) {
	ctx := testutil.NewMockContext()
	user, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)

	board := newLeaderboard(testutil.NewInMemoryRedis())
	leaderboardRepo := repository.NewLeaderboardRepository()

	// An award made months ago, then one now. The rolling counters reset
	// to the new period while the total keeps accumulating.
	require.NoError(t, board.AwardPoints(ctx, user.ID, 100, time.Now().AddDate(0, -2, 0)))
	require.NoError(t, board.AwardPoints(ctx, user.ID, 25, time.Now()))

	entry, err := leaderboardRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(125), entry.TotalPoints)
	require.Equal(t, int64(25), entry.WeeklyPoints)
	require.Equal(t, int64(25), entry.MonthlyPoints)
}
