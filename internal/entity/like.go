package entity

import (
	"fmt"

	"github.com/cameronsaddress/snapchef-social/pkg/enum"
)

type LikeTarget string

var (
	LikeTargetRecipe  = enum.New(LikeTarget("recipe"), "recipe")
	LikeTargetComment = enum.New(LikeTarget("comment"), "comment")
)

// Like is the source of truth for "isLiked". At most one record exists per
// (user, target) pair thanks to the deterministic id.
type Like struct {
	ID            string     `dynamodbav:"id" json:"id"`
	UserID        string     `dynamodbav:"user_id" json:"user_id"`
	TargetID      string     `dynamodbav:"target_id" json:"target_id"`
	TargetOwnerID string     `dynamodbav:"target_owner_id" json:"target_owner_id"`
	TargetKind    LikeTarget `dynamodbav:"target_kind" json:"target_kind"`
	LikedAt       int64      `dynamodbav:"liked_at" json:"liked_at"`
}

func LikeID(userID, targetID string) string {
	return fmt.Sprintf("%s/%s", userID, targetID)
}
