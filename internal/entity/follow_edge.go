package entity

import "fmt"

// FollowEdge is a directed follow relation. Edges are soft-deactivated on
// unfollow, never deleted, so the edge history survives for reconciliation.
type FollowEdge struct {
	ID          string `dynamodbav:"id" json:"id"`
	FollowerID  string `dynamodbav:"follower_id" json:"follower_id"`
	FollowingID string `dynamodbav:"following_id" json:"following_id"`
	FollowedAt  int64  `dynamodbav:"followed_at" json:"followed_at"`
	IsActive    bool   `dynamodbav:"is_active" json:"is_active"`
}

// FollowEdgeID is deterministic per pair, so retried follow writes upsert the
// same record instead of inserting duplicates.
func FollowEdgeID(followerID, followingID string) string {
	return fmt.Sprintf("%s/%s", followerID, followingID)
}
