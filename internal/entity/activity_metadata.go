package entity

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ActivityMetadata is the tagged variant behind Activity.Metadata. Each
// activity type carries exactly the fields its rendering needs.
type ActivityMetadata interface {
	ActivityType() ActivityType
}

type FollowMetadata struct {
	FollowerHandle string `mapstructure:"follower_handle" json:"follower_handle"`
}

func (FollowMetadata) ActivityType() ActivityType { return ActivityFollow }

type RecipeLikedMetadata struct {
	RecipeTitle string `mapstructure:"recipe_title" json:"recipe_title"`
}

func (RecipeLikedMetadata) ActivityType() ActivityType { return ActivityRecipeLiked }

type CommentLikedMetadata struct {
	CommentID string `mapstructure:"comment_id" json:"comment_id"`
}

func (CommentLikedMetadata) ActivityType() ActivityType { return ActivityCommentLiked }

type CommentAddedMetadata struct {
	CommentID string `mapstructure:"comment_id" json:"comment_id"`
	Excerpt   string `mapstructure:"excerpt" json:"excerpt"`
}

func (CommentAddedMetadata) ActivityType() ActivityType { return ActivityCommentAdded }

type ChallengeCompletedMetadata struct {
	ChallengeTitle string `mapstructure:"challenge_title" json:"challenge_title"`
	EarnedPoints   int64  `mapstructure:"earned_points" json:"earned_points"`
}

func (ChallengeCompletedMetadata) ActivityType() ActivityType { return ActivityChallengeCompleted }

type TeamJoinedMetadata struct {
	TeamName string `mapstructure:"team_name" json:"team_name"`
}

func (TeamJoinedMetadata) ActivityType() ActivityType { return ActivityTeamJoined }

type TeamPointsMetadata struct {
	TeamName string `mapstructure:"team_name" json:"team_name"`
	Delta    int64  `mapstructure:"delta" json:"delta"`
}

func (TeamPointsMetadata) ActivityType() ActivityType { return ActivityTeamPoints }

// EncodeActivityMetadata flattens a typed metadata value into the loose map
// stored on the record.
func EncodeActivityMetadata(meta ActivityMetadata) (Map, error) {
	if meta == nil {
		return nil, nil
	}

	var result Map
	if err := mapstructure.Decode(meta, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// DecodeActivityMetadata rebuilds the typed variant from a stored activity.
func DecodeActivityMetadata(a *Activity) (ActivityMetadata, error) {
	if a.Metadata == nil {
		return nil, nil
	}

	var meta ActivityMetadata
	switch a.Type {
	case ActivityFollow:
		meta = &FollowMetadata{}
	case ActivityRecipeLiked:
		meta = &RecipeLikedMetadata{}
	case ActivityCommentLiked:
		meta = &CommentLikedMetadata{}
	case ActivityCommentAdded:
		meta = &CommentAddedMetadata{}
	case ActivityChallengeCompleted:
		meta = &ChallengeCompletedMetadata{}
	case ActivityTeamJoined:
		meta = &TeamJoinedMetadata{}
	case ActivityTeamPoints:
		meta = &TeamPointsMetadata{}
	default:
		return nil, fmt.Errorf("unknown activity type %s", a.Type)
	}

	if err := mapstructure.Decode(map[string]any(a.Metadata), meta); err != nil {
		return nil, err
	}

	return meta, nil
}
