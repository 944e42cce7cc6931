package statistic

import (
	"fmt"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/dateutil"
)

func redisKeyLeaderboard(r entity.LeaderboardRange, periodValue string) string {
	return fmt.Sprintf("leaderboard:%s:%s", r, periodValue)
}

func currentRedisKeyLeaderboard(r entity.LeaderboardRange) (string, error) {
	value, err := dateutil.GetCurrentValueByRange(r)
	if err != nil {
		return "", err
	}

	return redisKeyLeaderboard(r, value), nil
}
