package dateutil

import (
	"fmt"
	"time"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
)

func GetCurrentValueByRange(r entity.LeaderboardRange) (string, error) {
	return GetValueByRange(time.Now(), r)
}

// GetValueByRange renders the period key a rolling counter belongs to.
func GetValueByRange(t time.Time, r entity.LeaderboardRange) (string, error) {
	var val string
	switch r {
	case entity.LeaderboardRangeWeek:
		year, week := t.ISOWeek()
		val = fmt.Sprintf("%d/%d", week, year)

	case entity.LeaderboardRangeMonth:
		val = fmt.Sprintf("%d/%d", t.Month(), t.Year())

	case entity.LeaderboardRangeTotal:
		val = "0/0"

	default:
		return "", fmt.Errorf("leader board range must be week, month, or total, but got %s", r)
	}

	return val, nil
}
