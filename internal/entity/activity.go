package entity

import (
	"sync"

	"github.com/bwmarrin/snowflake"

	"github.com/cameronsaddress/snapchef-social/pkg/enum"
)

type ActivityType string

var (
	ActivityFollow             = enum.New(ActivityType("follow"), "follow")
	ActivityRecipeLiked        = enum.New(ActivityType("recipe_liked"), "recipe_liked")
	ActivityCommentLiked       = enum.New(ActivityType("comment_liked"), "comment_liked")
	ActivityCommentAdded       = enum.New(ActivityType("comment_added"), "comment_added")
	ActivityChallengeCompleted = enum.New(ActivityType("challenge_completed"), "challenge_completed")
	ActivityTeamJoined         = enum.New(ActivityType("team_joined"), "team_joined")
	ActivityTeamPoints         = enum.New(ActivityType("team_points"), "team_points")
)

// Activity is a fan-out record created as a side effect of a social action
// and consumed from the target user's feed.
type Activity struct {
	ID           string       `dynamodbav:"id" json:"id"`
	Type         ActivityType `dynamodbav:"type" json:"type"`
	ActorID      string       `dynamodbav:"actor_id" json:"actor_id"`
	TargetUserID string       `dynamodbav:"target_user_id" json:"target_user_id"`
	RecipeID     string       `dynamodbav:"recipe_id" json:"recipe_id"`
	ChallengeID  string       `dynamodbav:"challenge_id" json:"challenge_id"`
	Timestamp    int64        `dynamodbav:"timestamp" json:"timestamp"`
	IsRead       bool         `dynamodbav:"is_read" json:"is_read"`
	Metadata     Map          `dynamodbav:"metadata" json:"metadata"`
}

var (
	activityNode     *snowflake.Node
	activityNodeOnce sync.Once
)

// NewActivityID returns a time-ordered unique id. Snowflake ids sort by
// creation time, which gives the activity feed a stable tiebreaker.
func NewActivityID() string {
	activityNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		activityNode = node
	})

	return activityNode.Generate().String()
}
