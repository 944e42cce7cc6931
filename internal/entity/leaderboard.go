package entity

import (
	"github.com/cameronsaddress/snapchef-social/pkg/enum"
)

type LeaderboardRange string

var (
	LeaderboardRangeWeek  = enum.New(LeaderboardRange("week"), "week")
	LeaderboardRangeMonth = enum.New(LeaderboardRange("month"), "month")
	LeaderboardRangeTotal = enum.New(LeaderboardRange("total"), "total")
)

// LeaderboardEntry is the persisted aggregate per user. Points are additive;
// the entry is only recomputed from scratch by explicit reconciliation.
// WeekValue and MonthValue remember which period the rolling counters belong
// to, so a first write in a new period resets them before adding.
type LeaderboardEntry struct {
	ID            string `dynamodbav:"id" json:"id"`
	UserID        string `dynamodbav:"user_id" json:"user_id"`
	TotalPoints   int64  `dynamodbav:"total_points" json:"total_points"`
	WeeklyPoints  int64  `dynamodbav:"weekly_points" json:"weekly_points"`
	MonthlyPoints int64  `dynamodbav:"monthly_points" json:"monthly_points"`
	WeekValue     string `dynamodbav:"week_value" json:"week_value"`
	MonthValue    string `dynamodbav:"month_value" json:"month_value"`
	LastUpdated   int64  `dynamodbav:"last_updated" json:"last_updated"`
}
