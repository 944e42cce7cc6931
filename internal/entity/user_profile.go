package entity

import "strings"

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPlus    SubscriptionTier = "plus"
	TierPremium SubscriptionTier = "premium"
)

type UserProfile struct {
	Base

	// Handle is unique case-insensitively. HandleFolded holds the
	// case-folded form so uniqueness checks stay a plain equality query.
	Handle       string `dynamodbav:"handle" json:"handle"`
	HandleFolded string `dynamodbav:"handle_folded" json:"handle_folded"`
	DisplayName  string `dynamodbav:"display_name" json:"display_name"`
	AvatarURL    string `dynamodbav:"avatar_url" json:"avatar_url"`

	Points         int64 `dynamodbav:"points" json:"points"`
	Streak         int64 `dynamodbav:"streak" json:"streak"`
	RecipesShared  int64 `dynamodbav:"recipes_shared" json:"recipes_shared"`
	FollowerCount  int64 `dynamodbav:"follower_count" json:"follower_count"`
	FollowingCount int64 `dynamodbav:"following_count" json:"following_count"`
	CoinBalance    int64 `dynamodbav:"coin_balance" json:"coin_balance"`

	Verified bool             `dynamodbav:"verified" json:"verified"`
	Tier     SubscriptionTier `dynamodbav:"tier" json:"tier"`
}

func FoldHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}
